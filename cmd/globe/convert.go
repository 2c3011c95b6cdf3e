package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/globe/internal/config"
	"github.com/taigrr/globe/internal/logger"
	"github.com/taigrr/globe/pkg/render"
)

func newConvertCmd(opts *rootOptions) *cobra.Command {
	var (
		output        string
		width, height int
		invert        bool
		symbols       string
	)

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Turn a PNG, JPEG or BMP into a character texture",
		Long: "Resample an equirectangular image and map its brightness onto the\n" +
			"palette, producing a texture usable as earth.txt or earth_night.txt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			if err := initLogging(cfg, true); err != nil {
				return err
			}
			defer logger.Sync()

			img, err := render.LoadImage(args[0])
			if err != nil {
				return err
			}
			tex, err := render.TextureFromImage(img, render.ConvertOptions{
				Width:   width,
				Height:  height,
				Invert:  invert,
				Palette: render.NewPalette(symbols),
			})
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if _, err := tex.WriteTo(w); err != nil {
				return fmt.Errorf("write texture: %w", err)
			}

			logger.Info("texture written",
				zap.String("input", args[0]),
				zap.String("output", output),
				zap.Int("width", tex.Width()),
				zap.Int("height", tex.Height()),
			)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	fs.IntVar(&width, "width", 120, "Texture width in characters")
	fs.IntVar(&height, "height", 60, "Texture height in characters")
	fs.BoolVar(&invert, "invert", false, "Map dark pixels to bright symbols")
	fs.StringVar(&symbols, "symbols", render.DefaultSymbols, "Palette, dimmest first")
	return cmd
}
