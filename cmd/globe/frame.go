package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/globe/internal/logger"
	"github.com/taigrr/globe/pkg/globe"
	"github.com/taigrr/globe/pkg/render"
)

func newFrameCmd(opts *rootOptions) *cobra.Command {
	gf := &globeFlags{}
	var (
		width, height int
		at            float64
	)

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Print a single frame to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid frame size %dx%d", width, height)
			}
			cfg, _, err := opts.load(cmd, gf.overrides(cmd))
			if err != nil {
				return err
			}
			if err := initLogging(cfg, true); err != nil {
				return err
			}
			defer logger.Sync()

			g, err := newGlobe(cfg, logger.Named("globe"))
			if err != nil {
				return err
			}

			logger.Debug("rendering frame",
				zap.Int("width", width),
				zap.Int("height", height),
				zap.Float64("at", at))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderFrame(g, width, height, at))
			return err
		},
	}

	gf.register(cmd)
	fs := cmd.Flags()
	fs.IntVar(&width, "width", 80, "Frame width in cells")
	fs.IntVar(&height, "height", 40, "Frame height in cells")
	fs.Float64Var(&at, "at", 0, "Seconds of rotation before the frame is taken")
	return cmd
}

// renderFrame advances g by at seconds and returns the frame with trailing
// blanks trimmed from each row.
func renderFrame(g *globe.Globe, width, height int, at float64) string {
	g.Update(at)
	buf := render.NewCharBuffer(width, height)
	g.Render(buf, width, height)

	lines := buf.Lines(' ')
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
