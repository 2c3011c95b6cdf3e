package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/globe/internal/config"
	"github.com/taigrr/globe/internal/logger"
	"github.com/taigrr/globe/pkg/globe"
	"github.com/taigrr/globe/pkg/render"
	"github.com/taigrr/globe/pkg/sky"
)

// Key steps for the interactive controls.
const (
	scaleStep = 0.05
	speedStep = 0.25
	tiltStep  = 5.0

	minScale = 0.1
	maxScale = 5.0
	maxSpeed = 20.0

	// cellAspect is the height/width ratio of a terminal cell, combined
	// with the camera's horizontal stretch to keep the globe round.
	cellAspect = 2.0
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	gf := &globeFlags{}
	var fps int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive viewer",
		Long: "Open the interactive viewer.\n\n" +
			"Controls:\n" +
			"  +/-    Scale up/down\n" +
			"  ]/[    Speed up/down\n" +
			"  t/T    Tilt down/up\n" +
			"  l      Toggle lighting\n" +
			"  s      Save settings to the config file\n" +
			"  r      Reset to saved settings\n" +
			"  ?      Toggle HUD\n" +
			"  q/Esc  Quit",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cfgPath, err := opts.load(cmd, gf.overrides(cmd))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fps") && fps > 0 {
				cfg.UI.TargetFPS = fps
			}
			if err := initLogging(cfg, false); err != nil {
				return err
			}
			defer logger.Sync()

			g, err := newGlobe(cfg, logger.Named("globe"))
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), newViewer(g, cfg, cfgPath, logger.Named("viewer")))
		},
	}
	gf.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 60, "Target FPS")
	return cmd
}

// tunable eases a value toward a target with a critically damped spring.
type tunable struct {
	Value  float64
	Target float64
	vel    float64
	spring harmonica.Spring
}

func newTunable(v float64, fps int) tunable {
	return tunable{
		Value:  v,
		Target: v,
		// Frequency 6 settles within a few hundred milliseconds without
		// overshoot at damping 1.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (t *tunable) Update() {
	t.Value, t.vel = t.spring.Update(t.Value, t.vel, t.Target)
}

// Snap jumps straight to the target.
func (t *tunable) Snap(v float64) {
	t.Value, t.Target, t.vel = v, v, 0
}

// viewer is the interactive session state, kept apart from the terminal so
// it can be driven directly.
type viewer struct {
	globe   *globe.Globe
	cfg     *config.Config
	cfgPath string
	log     *zap.Logger

	scale, speed, tilt tunable
	lighting           bool
	showHUD            bool
	stars              bool

	buf     *render.CharBuffer
	sky     *sky.NightSky
	elapsed float64
	width   int
	height  int

	theme viewerTheme
	hud   *hud
}

func newViewer(g *globe.Globe, cfg *config.Config, cfgPath string, log *zap.Logger) *viewer {
	fps := cfg.UI.TargetFPS
	v := &viewer{
		globe:    g,
		cfg:      cfg,
		cfgPath:  cfgPath,
		log:      log,
		scale:    newTunable(cfg.Globe.Scale, fps),
		speed:    newTunable(cfg.Globe.Speed, fps),
		tilt:     newTunable(cfg.Globe.Tilt, fps),
		lighting: cfg.Globe.Lighting,
		showHUD:  cfg.UI.ShowHUD,
		stars:    cfg.UI.Stars,
		buf:      render.NewCharBuffer(0, 0),
		sky:      sky.New(0, 0, nil),
		theme:    newViewerTheme(cfg.Theme, g.Camera().Palette),
		hud:      newHUD(cfg.Theme),
	}
	v.sync()
	return v
}

// sync pushes the eased values into the globe.
func (v *viewer) sync() {
	v.globe.SetScale(v.scale.Value)
	v.globe.SetSpeed(v.speed.Value)
	v.globe.SetTilt(v.tilt.Value)
	v.globe.SetLighting(v.lighting)
}

// resize adapts buffers to a new terminal size.
func (v *viewer) resize(width, height int) {
	v.width, v.height = width, height
	v.sky.Resize(width, height)
}

// handleKey applies one key press and reports whether the viewer should
// quit.
func (v *viewer) handleKey(ev uv.KeyPressEvent) (quit bool) {
	switch {
	case ev.MatchString("esc", "q", "ctrl+c"):
		return true
	case ev.Text == "+" || ev.MatchString("="):
		v.scale.Target = math.Min(maxScale, v.scale.Target+scaleStep)
	case ev.MatchString("-", "_"):
		v.scale.Target = math.Max(minScale, v.scale.Target-scaleStep)
	case ev.MatchString("]"):
		v.speed.Target = math.Min(maxSpeed, v.speed.Target+speedStep)
	case ev.MatchString("["):
		v.speed.Target = math.Max(-maxSpeed, v.speed.Target-speedStep)
	case ev.MatchString("T", "shift+t"):
		v.tilt.Target = math.Min(90, v.tilt.Target+tiltStep)
	case ev.MatchString("t"):
		v.tilt.Target = math.Max(-90, v.tilt.Target-tiltStep)
	case ev.MatchString("l"):
		v.lighting = !v.lighting
		v.globe.SetLighting(v.lighting)
	case ev.MatchString("r"):
		v.reset()
	case ev.MatchString("s"):
		if err := v.save(); err != nil {
			v.hud.Flash("save failed: " + err.Error())
			v.log.Error("save config", zap.Error(err))
		} else {
			v.hud.Flash("saved " + v.cfgPath)
		}
	case ev.MatchString("?", "shift+/"):
		v.showHUD = !v.showHUD
	}
	return false
}

// reset eases back to the configured values.
func (v *viewer) reset() {
	v.scale.Target = v.cfg.Globe.Scale
	v.speed.Target = v.cfg.Globe.Speed
	v.tilt.Target = v.cfg.Globe.Tilt
	v.lighting = v.cfg.Globe.Lighting
	v.globe.SetLighting(v.lighting)
}

// save writes the current targets into the config file. Only the tunables
// change; the rest is re-read from disk so command-line overrides stay out
// of the file.
func (v *viewer) save() error {
	onDisk, err := config.LoadFile(v.cfgPath)
	if err != nil {
		return err
	}
	for _, c := range []*config.Config{v.cfg, onDisk} {
		c.Globe.Scale = v.scale.Target
		c.Globe.Speed = v.speed.Target
		c.Globe.Tilt = v.tilt.Target
		c.Globe.Lighting = v.lighting
		c.UI.ShowHUD = v.showHUD
	}
	if err := onDisk.SaveTo(v.cfgPath); err != nil {
		return err
	}
	v.log.Info("settings saved", zap.String("path", v.cfgPath))
	return nil
}

// step advances the animation by dt seconds.
func (v *viewer) step(dt float64) {
	v.scale.Update()
	v.speed.Update()
	v.tilt.Update()
	v.sync()
	v.globe.Update(dt)
	v.elapsed += dt
}

// globeArea returns the column offset and width of the region the globe is
// rendered into, chosen so the sphere stays round on a terminal grid.
func globeArea(width, height int, stretch float64) (x, w int) {
	w = int(math.Round(float64(height) * cellAspect * stretch))
	if w <= 0 || w > width {
		w = width
	}
	return (width - w) / 2, w
}

// draw renders one frame onto scr.
func (v *viewer) draw(scr uv.Screen) {
	v.buf.Resize(v.width, v.height)
	v.buf.Clear()

	gx, gw := globeArea(v.width, v.height, v.globe.Camera().HorizontalStretch)
	v.globe.Render(v.buf.Offset(gx, 0), gw, v.height)
	v.buf.Draw(scr, scr.Bounds(), v.theme.globe)

	if v.stars {
		occupied := func(x, y int) bool { return v.buf.At(x, y) != render.Transparent }
		v.sky.Visit(v.elapsed, occupied, func(x, y, level int) {
			scr.SetCell(x, y, &uv.Cell{
				Content: string(sky.Glyph(level)),
				Width:   1,
				Style:   uv.Style{Fg: sky.Shade(v.theme.stars, level)},
			})
		})
	}

	v.hud.Draw(scr, v)
}

// runViewer owns the terminal for the lifetime of the session.
func runViewer(ctx context.Context, v *viewer) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	_ = term.Resize(width, height)
	v.resize(width, height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Display()
		shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		_ = term.Shutdown(shutdownCtx)
	}
	defer cleanup()

	// Events are applied on the render goroutine so the viewer needs no
	// locking.
	events := make(chan uv.Event, 16)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	v.log.Info("viewer started",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("fps", v.cfg.UI.TargetFPS),
	)

	frame := time.Second / time.Duration(v.cfg.UI.TargetFPS)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				_ = term.Resize(ev.Width, ev.Height)
				v.resize(ev.Width, ev.Height)
				v.log.Debug("resized", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
			case uv.KeyPressEvent:
				if v.handleKey(ev) {
					return nil
				}
			}

		case now := <-ticker.C:
			// Cap dt so a stall does not jump the rotation.
			dt := min(now.Sub(last).Seconds(), 0.1)
			last = now

			v.step(dt)
			v.hud.Tick(now)

			term.Clear()
			v.draw(term)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
