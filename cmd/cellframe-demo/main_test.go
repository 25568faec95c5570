package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "cellframe-demo "+version {
		t.Errorf("Expected version line, got %q", got)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	t.Setenv("CELLFRAME_TICK_RATE", "30")
	t.Setenv("CELLFRAME_AUDIO_ENABLED", "false")

	cmd := &cobra.Command{Use: "test"}
	var fl flags
	bindFlags(cmd.Flags(), &fl)

	if err := cmd.ParseFlags([]string{"--frame-rate", "5000", "--fast-draw=false", "--native-input=false"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	cfg, err := loadConfig(cmd, &fl)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Loop.TickRate != 30 {
		t.Errorf("Expected env tick rate 30 to survive unset flag, got %d", cfg.Loop.TickRate)
	}
	if cfg.Loop.FrameRate != 1000 {
		t.Errorf("Expected flag frame rate clamped to 1000, got %d", cfg.Loop.FrameRate)
	}
	if cfg.Render.FastDraw || cfg.Loop.NativeInput {
		t.Errorf("Expected fast draw and native input disabled, got %v %v", cfg.Render.FastDraw, cfg.Loop.NativeInput)
	}
	if cfg.Audio.Enabled {
		t.Error("Expected audio disabled from env")
	}
	if cfg.Render.Title != defaultTitle {
		t.Errorf("Expected default title, got %q", cfg.Render.Title)
	}
}
