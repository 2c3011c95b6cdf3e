// globe - spinning ASCII Earth for your terminal.
// Renders a textured, day/night lit sphere as characters.
//
// Commands:
//
//	globe [run]   - Interactive viewer (default)
//	globe serve   - Stream frames to browsers over websockets
//	globe frame   - Print a single frame to stdout
//	globe convert - Turn an image into a character texture
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/globe/internal/config"
	"github.com/taigrr/globe/internal/logger"
	"github.com/taigrr/globe/pkg/globe"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
	logFile    string
	textures   string
}

func main() {
	ctx := context.Background()
	if err := fang.Execute(ctx, newRootCmd(), fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	run := newRunCmd(opts)
	root := &cobra.Command{
		Use:   "globe",
		Short: "Spinning ASCII Earth for your terminal",
		Long: "globe renders a textured, day/night lit Earth out of characters.\n" +
			"Run without a subcommand to open the interactive viewer.",
		Args: cobra.NoArgs,
		RunE: run.RunE,
	}
	root.Flags().AddFlagSet(run.Flags())

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to config file")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	pf.StringVar(&opts.textures, "textures", "", "Directory holding earth.txt and earth_night.txt")

	root.AddCommand(
		run,
		newServeCmd(opts),
		newFrameCmd(opts),
		newConvertCmd(opts),
	)
	return root
}

// load resolves configuration for a command: defaults < file < flags.
func (o *rootOptions) load(cmd *cobra.Command, extra config.Overrides) (*config.Config, string, error) {
	ov := extra
	ov.Debug = o.debug
	if cmd.Flags().Changed("log-file") {
		ov.LogFile = &o.logFile
	}
	if cmd.Flags().Changed("textures") {
		ov.TexturePath = &o.textures
	}
	return config.Load(o.configPath, ov)
}

// initLogging configures the global logger from cfg. console is false for
// the interactive viewer, which owns the terminal.
func initLogging(cfg *config.Config, console bool) error {
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, console); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Sugar.Debugf("logging at %s level", cfg.Logging.Level)
	return nil
}

// newGlobe loads textures from the configured directory and applies the
// configured animation parameters.
func newGlobe(cfg *config.Config, log *zap.Logger) (*globe.Globe, error) {
	dir := config.ResolveTexturePath(cfg.Globe.TexturePath)
	if dir != cfg.Globe.TexturePath {
		logger.Warn("texture directory not found, using fallback",
			zap.String("configured", cfg.Globe.TexturePath),
			zap.String("using", dir))
	}
	g, err := globe.New(dir, globe.WithLogger(log))
	if err != nil {
		return nil, err
	}
	applyGlobeConfig(g, cfg.Globe)
	return g, nil
}

func applyGlobeConfig(g *globe.Globe, gc config.GlobeConfig) {
	g.SetScale(gc.Scale)
	g.SetSpeed(gc.Speed)
	g.SetTilt(gc.Tilt)
	g.SetLighting(gc.Lighting)
}

// globeFlags registers the per-command overrides for animation settings.
type globeFlags struct {
	scale    float64
	speed    float64
	tilt     float64
	lighting bool
}

func (f *globeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.scale, "scale", 1.15, "Globe size relative to the view")
	fs.Float64Var(&f.speed, "speed", 1.0, "Rotation speed multiplier")
	fs.Float64Var(&f.tilt, "tilt", 23.5, "Axial tilt in degrees")
	fs.BoolVar(&f.lighting, "lighting", false, "Shade the night side")
}

func (f *globeFlags) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	fs := cmd.Flags()
	if fs.Changed("scale") {
		ov.Scale = &f.scale
	}
	if fs.Changed("speed") {
		ov.Speed = &f.speed
	}
	if fs.Changed("tilt") {
		ov.Tilt = &f.tilt
	}
	if fs.Changed("lighting") {
		ov.Lighting = &f.lighting
	}
	return ov
}
