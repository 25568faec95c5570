package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/cellframe/audio"
	"github.com/lixenwraith/cellframe/config"
	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/terminal"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const defaultTitle = "cellframe paint"

// flags holds command-line values; only flags the user set override the config
type flags struct {
	configPath      string
	logPath         string
	tickRate        int
	frameRate       int
	fastDraw        bool
	showLineUpdates bool
	nativeInput     bool
	audio           bool
}

func newRootCmd() *cobra.Command {
	var fl flags

	cmd := &cobra.Command{
		Use:          "cellframe-demo",
		Short:        "Mouse paint program running on the cellframe engine",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, &fl)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, fl.configPath)
		},
	}

	bindFlags(cmd.Flags(), &fl)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cellframe-demo", version)
		},
	})
	return cmd
}

func bindFlags(f *pflag.FlagSet, fl *flags) {
	f.StringVarP(&fl.configPath, "config", "c", "", "TOML config file, reloaded when it changes")
	f.StringVar(&fl.logPath, "log", "", "append log output to this file")
	f.IntVar(&fl.tickRate, "tick-rate", engine.DefaultTickRate, "updates per second")
	f.IntVar(&fl.frameRate, "frame-rate", engine.DefaultFrameRate, "frames per second")
	f.BoolVar(&fl.fastDraw, "fast-draw", true, "skip unchanged rows when repainting")
	f.BoolVar(&fl.showLineUpdates, "show-line-updates", false, "highlight repainted rows (needs --fast-draw=false)")
	f.BoolVar(&fl.nativeInput, "native-input", true, "use the native event source with mouse support")
	f.BoolVar(&fl.audio, "audio", true, "play the bell through the speaker")
}

// loadConfig layers defaults, the config file, the environment and set flags
func loadConfig(cmd *cobra.Command, fl *flags) (*config.Config, error) {
	cfg, err := config.Load(fl.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, fl, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Render.Title == "" {
		cfg.Render.Title = defaultTitle
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, fl *flags, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("log") {
		cfg.Log.File = fl.logPath
	}
	if f.Changed("tick-rate") {
		cfg.Loop.TickRate = fl.tickRate
	}
	if f.Changed("frame-rate") {
		cfg.Loop.FrameRate = fl.frameRate
	}
	if f.Changed("fast-draw") {
		cfg.Render.FastDraw = fl.fastDraw
	}
	if f.Changed("show-line-updates") {
		cfg.Render.ShowLineUpdates = fl.showLineUpdates
	}
	if f.Changed("native-input") {
		cfg.Loop.NativeInput = fl.nativeInput
	}
	if f.Changed("audio") {
		cfg.Audio.Enabled = fl.audio
	}
}

func newDevice(native bool) (terminal.Device, error) {
	if !native {
		return terminal.NewANSI(), nil
	}
	s, err := terminal.NewScreen()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func run(ctx context.Context, cfg *config.Config, configPath string) error {
	if f := setupLogging(cfg.Log.File); f != nil {
		defer f.Close()
	}

	// Query the host before the device switches the tty to raw mode
	host := terminal.HostColors()
	colors, err := cfg.Colors()
	if err != nil {
		return err
	}

	dev, err := newDevice(cfg.Loop.NativeInput)
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}

	rc := render.NewContext(dev, colors.Resolve(host), cfg.RenderOptions())
	bell := audio.NewBell(dev, cfg.Audio.Enabled, cfg.Audio.Volume)
	if err := bell.Init(); err != nil {
		log.Printf("%v; using terminal bell", err)
	}

	app := newPainter(bell)
	loop := engine.New(dev, rc, app, append(cfg.LoopOptions(), engine.WithContext(ctx))...)
	app.attach(loop)

	if configPath != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		err := config.Watch(watchCtx, configPath, func(c *config.Config) {
			applyLive(loop, rc, bell, c)
		})
		if err != nil {
			log.Printf("config watch disabled: %v", err)
		}
	}

	return loop.Run()
}

// applyLive applies the settings that can change while the loop runs.
// Device, color and title changes take effect on restart.
func applyLive(loop *engine.Loop, rc *render.Context, bell *audio.Bell, c *config.Config) {
	loop.SetTickRate(c.Loop.TickRate)
	loop.SetFrameRate(c.Loop.FrameRate)
	rc.SetOptions(c.RenderOptions())
	bell.SetEnabled(c.Audio.Enabled)
	bell.SetVolume(c.Audio.Volume)
}

func main() {
	defer func() { core.HandleCrash(recover()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
