package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/globe/internal/logger"
	"github.com/taigrr/globe/internal/stream"
	"github.com/taigrr/globe/pkg/sky"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	gf := &globeFlags{}
	var (
		addr          string
		fps           int
		width, height int
		stars         bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream frames to browsers over websockets",
		Long: "Serve a page at / that shows the spinning globe, fed by a websocket\n" +
			"at /ws. Clients may send {\"scale\",\"speed\",\"tilt\",\"lighting\"} to\n" +
			"change the animation for everyone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov := gf.overrides(cmd)
			fs := cmd.Flags()
			if fs.Changed("addr") {
				ov.Addr = &addr
			}
			if fs.Changed("fps") {
				ov.FPS = &fps
			}

			cfg, _, err := opts.load(cmd, ov)
			if err != nil {
				return err
			}
			if fs.Changed("width") && width > 0 {
				cfg.Server.Width = width
			}
			if fs.Changed("height") && height > 0 {
				cfg.Server.Height = height
			}
			if !fs.Changed("stars") {
				stars = cfg.UI.Stars
			}

			if err := initLogging(cfg, true); err != nil {
				return err
			}
			defer logger.Sync()

			g, err := newGlobe(cfg, logger.Named("globe"))
			if err != nil {
				return err
			}

			sopts := []stream.Option{
				stream.WithSize(cfg.Server.Width, cfg.Server.Height),
				stream.WithFPS(cfg.Server.FPS),
				stream.WithLogger(logger.Named("stream")),
			}
			if stars {
				sopts = append(sopts, stream.WithStars(sky.New(cfg.Server.Width, cfg.Server.Height, nil)))
			}

			logger.Info("starting frame server",
				zap.String("addr", cfg.Server.Addr),
				zap.Int("width", cfg.Server.Width),
				zap.Int("height", cfg.Server.Height),
			)
			if err := stream.New(g, sopts...).ListenAndServe(cmd.Context(), cfg.Server.Addr); err != nil {
				logger.Error("frame server stopped", zap.Error(err))
				return err
			}
			logger.Info("frame server stopped")
			return nil
		},
	}

	gf.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&addr, "addr", ":8080", "Listen address")
	fs.IntVar(&fps, "fps", 15, "Frames per second sent to clients")
	fs.IntVar(&width, "width", 80, "Frame width in cells")
	fs.IntVar(&height, "height", 40, "Frame height in cells")
	fs.BoolVar(&stars, "stars", true, "Draw stars behind the globe")
	return cmd
}
