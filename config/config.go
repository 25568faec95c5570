package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/terminal"
	"github.com/lixenwraith/cellframe/toml"
)

// Config is the full runtime configuration of a cellframe application
type Config struct {
	Loop   LoopConfig   `toml:"loop"`
	Render RenderConfig `toml:"render"`
	Audio  AudioConfig  `toml:"audio"`
	Log    LogConfig    `toml:"log"`
}

type LoopConfig struct {
	TickRate      int           `toml:"tick_rate"`
	FrameRate     int           `toml:"frame_rate"`
	NativeInput   bool          `toml:"native_input"`
	FitToViewport bool          `toml:"fit_to_viewport"`
	StopGrace     time.Duration `toml:"stop_grace"`
}

type RenderConfig struct {
	FastDraw        bool   `toml:"fast_draw"`
	ShowLineUpdates bool   `toml:"show_line_updates"`
	Foreground      string `toml:"foreground"`
	Background      string `toml:"background"`
	Title           string `toml:"title,omitempty"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// LogConfig names the log file; empty discards log output
type LogConfig struct {
	File string `toml:"file,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Loop: LoopConfig{
			TickRate:      engine.DefaultTickRate,
			FrameRate:     engine.DefaultFrameRate,
			NativeInput:   true,
			FitToViewport: true,
			StopGrace:     engine.DefaultStopGrace,
		},
		Render: RenderConfig{
			FastDraw:   true,
			Foreground: "white",
			Background: "black",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
	}
}

// Load builds a configuration from the defaults, the TOML file at path when
// path is not empty, and the CELLFRAME_* environment overrides, in that order.
// The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables; unparsable values are ignored
func (c *Config) ApplyEnv() {
	envInt("CELLFRAME_TICK_RATE", &c.Loop.TickRate)
	envInt("CELLFRAME_FRAME_RATE", &c.Loop.FrameRate)
	envBool("CELLFRAME_FAST_DRAW", &c.Render.FastDraw)
	envBool("CELLFRAME_SHOW_LINE_UPDATES", &c.Render.ShowLineUpdates)
	envBool("CELLFRAME_NATIVE_INPUT", &c.Loop.NativeInput)
	envBool("CELLFRAME_AUDIO_ENABLED", &c.Audio.Enabled)
}

func envInt(name string, dst *int) {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			*dst = v
		}
	}
}

func envBool(name string, dst *bool) {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			*dst = v
		}
	}
}

// Validate clamps numeric fields into range and rejects unknown color names
func (c *Config) Validate() error {
	c.Loop.TickRate = clamp(c.Loop.TickRate, engine.MinRate, engine.MaxRate)
	c.Loop.FrameRate = clamp(c.Loop.FrameRate, engine.MinRate, engine.MaxRate)
	if c.Loop.StopGrace < 0 {
		c.Loop.StopGrace = 0
	}
	if c.Audio.Volume < 0 {
		c.Audio.Volume = 0
	}
	if c.Audio.Volume > 1 {
		c.Audio.Volume = 1
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Colors parses the configured default pair. An empty name means ColorDefault.
func (c *Config) Colors() (terminal.Colors, error) {
	fg, err := parseColor(c.Render.Foreground)
	if err != nil {
		return terminal.DefaultColors, fmt.Errorf("config: render.foreground: %w", err)
	}
	bg, err := parseColor(c.Render.Background)
	if err != nil {
		return terminal.DefaultColors, fmt.Errorf("config: render.background: %w", err)
	}
	return terminal.Colors{Fg: fg, Bg: bg}, nil
}

func parseColor(name string) (terminal.Color, error) {
	if name == "" {
		return terminal.ColorDefault, nil
	}
	return terminal.ParseColor(name)
}

// RenderOptions returns the repaint options for render.Context.SetOptions
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Fast:            c.Render.FastDraw,
		ShowLineUpdates: c.Render.ShowLineUpdates,
	}
}

// LoopOptions returns the engine options matching the loop section
func (c *Config) LoopOptions() []engine.Option {
	return []engine.Option{
		engine.WithTickRate(c.Loop.TickRate),
		engine.WithFrameRate(c.Loop.FrameRate),
		engine.WithFitToViewport(c.Loop.FitToViewport),
		engine.WithStopGrace(c.Loop.StopGrace),
		engine.WithTitle(c.Render.Title),
	}
}

// Save writes c to path as TOML
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
