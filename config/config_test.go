package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/terminal"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Loop.TickRate != 60 || cfg.Loop.FrameRate != 60 {
		t.Errorf("Expected rates 60/60, got %d/%d", cfg.Loop.TickRate, cfg.Loop.FrameRate)
	}
	if !cfg.Loop.NativeInput || !cfg.Loop.FitToViewport {
		t.Error("Expected native input and fit to viewport enabled")
	}
	if cfg.Loop.StopGrace != 50*time.Millisecond {
		t.Errorf("Expected stop grace 50ms, got %v", cfg.Loop.StopGrace)
	}
	if !cfg.Render.FastDraw || cfg.Render.ShowLineUpdates {
		t.Errorf("Expected fast draw without line updates, got %+v", cfg.Render)
	}
	if !cfg.Audio.Enabled || cfg.Audio.Volume != 0.5 {
		t.Errorf("Expected audio enabled at 0.5, got %+v", cfg.Audio)
	}

	colors, err := cfg.Colors()
	if err != nil {
		t.Fatalf("Colors failed: %v", err)
	}
	if colors != (terminal.Colors{Fg: terminal.White, Bg: terminal.Black}) {
		t.Errorf("Expected white/black, got %v", colors)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellframe.toml")
	writeFile(t, path, `
[loop]
tick_rate = 30
stop_grace = "200ms"

[render]
fast_draw = false
show_line_updates = true
foreground = "dark-cyan"
title = "paint"

[audio]
volume = 0.8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Loop.TickRate != 30 {
		t.Errorf("Expected tick rate 30, got %d", cfg.Loop.TickRate)
	}
	if cfg.Loop.FrameRate != 60 {
		t.Errorf("Expected untouched frame rate 60, got %d", cfg.Loop.FrameRate)
	}
	if cfg.Loop.StopGrace != 200*time.Millisecond {
		t.Errorf("Expected stop grace 200ms, got %v", cfg.Loop.StopGrace)
	}
	if cfg.Render.Title != "paint" || cfg.Audio.Volume != 0.8 {
		t.Errorf("Expected title paint and volume 0.8, got %q %v", cfg.Render.Title, cfg.Audio.Volume)
	}

	opts := cfg.RenderOptions()
	if opts.Fast || !opts.ShowLineUpdates {
		t.Errorf("Expected full repaint with line updates, got %+v", opts)
	}
	colors, _ := cfg.Colors()
	if colors.Fg != terminal.DarkCyan || colors.Bg != terminal.Black {
		t.Errorf("Expected darkcyan/black, got %v", colors)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "[loop\n")
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("Expected parse error, got %v", err)
	}

	color := filepath.Join(dir, "color.toml")
	writeFile(t, color, "[render]\nbackground = \"mauve\"\n")
	if _, err := Load(color); err == nil || !strings.Contains(err.Error(), "render.background") {
		t.Errorf("Expected background color error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CELLFRAME_TICK_RATE", "90")
	t.Setenv("CELLFRAME_FRAME_RATE", "not-a-number")
	t.Setenv("CELLFRAME_FAST_DRAW", "false")
	t.Setenv("CELLFRAME_SHOW_LINE_UPDATES", "1")
	t.Setenv("CELLFRAME_NATIVE_INPUT", "false")
	t.Setenv("CELLFRAME_AUDIO_ENABLED", "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Loop.TickRate != 90 {
		t.Errorf("Expected tick rate 90, got %d", cfg.Loop.TickRate)
	}
	if cfg.Loop.FrameRate != 60 {
		t.Errorf("Expected invalid frame rate ignored, got %d", cfg.Loop.FrameRate)
	}
	if cfg.Render.FastDraw || !cfg.Render.ShowLineUpdates {
		t.Errorf("Expected fast=false lines=true, got %+v", cfg.Render)
	}
	if cfg.Loop.NativeInput || cfg.Audio.Enabled {
		t.Errorf("Expected native input and audio disabled, got %v %v", cfg.Loop.NativeInput, cfg.Audio.Enabled)
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.Loop.TickRate = 0
	cfg.Loop.FrameRate = 5000
	cfg.Loop.StopGrace = -time.Second
	cfg.Audio.Volume = 3

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Loop.TickRate != engine.MinRate || cfg.Loop.FrameRate != engine.MaxRate {
		t.Errorf("Expected rates clamped to %d/%d, got %d/%d", engine.MinRate, engine.MaxRate, cfg.Loop.TickRate, cfg.Loop.FrameRate)
	}
	if cfg.Loop.StopGrace != 0 || cfg.Audio.Volume != 1 {
		t.Errorf("Expected grace 0 and volume 1, got %v %v", cfg.Loop.StopGrace, cfg.Audio.Volume)
	}

	cfg.Render.Foreground = ""
	colors, err := cfg.Colors()
	if err != nil || colors.Fg != terminal.ColorDefault {
		t.Errorf("Expected empty foreground to mean default, got %v %v", colors, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellframe.toml")

	want := Default()
	want.Loop.TickRate = 120
	want.Render.Title = "demo"
	want.Log.File = "/tmp/cellframe.log"
	if err := want.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *want {
		t.Errorf("Expected %+v, got %+v", *want, *got)
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellframe.toml")
	if err := Default().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	if err := Watch(ctx, path, func(c *Config) { changes <- c }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// A broken file is skipped; the following valid write is delivered
	writeFile(t, path, "[loop\n")
	time.Sleep(2 * DebounceDelay)

	updated := Default()
	updated.Loop.FrameRate = 24
	if err := updated.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Loop.FrameRate == 24 {
				return
			}
		case <-deadline:
			t.Fatal("Expected reload with frame rate 24")
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "cellframe.toml")
	if err := Watch(context.Background(), path, func(*Config) {}); err == nil {
		t.Error("Expected error watching a missing directory")
	}
}
