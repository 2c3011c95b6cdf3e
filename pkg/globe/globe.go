// Package globe animates a textured, day/night lit sphere and renders it
// into character grids.
package globe

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/render"
)

// Texture file names expected inside a texture directory.
const (
	DayTextureName   = "earth.txt"
	NightTextureName = "earth_night.txt"
)

// Defaults for a freshly constructed Globe.
const (
	// RotationRate is the spin in radians per second at speed 1.
	RotationRate = 3.49

	DefaultCameraDistance = 2.0
	DefaultRadius         = 1.0
	DefaultScale          = 1.0
	DefaultSpeed          = 1.0
	DefaultTilt           = 23.5
	DefaultLighting       = true
)

// ErrEmptyTexture is returned when a texture has no rows or a zero-width
// first row.
var ErrEmptyTexture = errors.New("empty texture")

// Globe owns a camera, the day and night textures, and the animation
// parameters. It is not safe for concurrent use.
type Globe struct {
	camera *render.Camera
	day    *render.Texture
	night  *render.Texture
	pal    *render.Palette
	log    *zap.Logger

	radius      float64
	angleOffset float64
	scale       float64
	speed       float64
	tilt        float64
	lighting    bool
}

// Option configures a Globe.
type Option func(*Globe)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(g *Globe) {
		if l != nil {
			g.log = l
		}
	}
}

// WithCamera replaces the default equatorial camera.
func WithCamera(c *render.Camera) Option {
	return func(g *Globe) {
		if c != nil {
			g.camera = c
		}
	}
}

// WithPalette sets the luminance ramp used to decode and encode texels.
func WithPalette(p *render.Palette) Option {
	return func(g *Globe) {
		if p != nil {
			g.pal = p
		}
	}
}

// New loads the day and night textures from dir and builds a Globe.
// A missing, unreadable or empty texture is an error naming the file.
func New(dir string, opts ...Option) (*Globe, error) {
	dayPath := filepath.Join(dir, DayTextureName)
	nightPath := filepath.Join(dir, NightTextureName)

	day, err := loadTexture(dayPath)
	if err != nil {
		return nil, err
	}
	night, err := loadTexture(nightPath)
	if err != nil {
		return nil, err
	}

	g, err := NewFromTextures(day, night, opts...)
	if err != nil {
		return nil, err
	}
	g.log.Debug("textures loaded",
		zap.String("dir", dir),
		zap.Int("width", day.Width()),
		zap.Int("height", day.Height()),
	)
	return g, nil
}

func loadTexture(path string) (*render.Texture, error) {
	tex, err := render.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	if tex.Empty() {
		return nil, fmt.Errorf("load texture %s: %w", path, ErrEmptyTexture)
	}
	return tex, nil
}

// NewFromTextures builds a Globe from already loaded textures.
func NewFromTextures(day, night *render.Texture, opts ...Option) (*Globe, error) {
	if day.Empty() {
		return nil, fmt.Errorf("day texture: %w", ErrEmptyTexture)
	}
	if night.Empty() {
		return nil, fmt.Errorf("night texture: %w", ErrEmptyTexture)
	}

	g := &Globe{
		camera:   render.NewCamera(DefaultCameraDistance, 0, 0),
		day:      day,
		night:    night,
		log:      zap.NewNop(),
		radius:   DefaultRadius,
		scale:    DefaultScale,
		speed:    DefaultSpeed,
		tilt:     DefaultTilt,
		lighting: DefaultLighting,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.pal != nil {
		g.camera.Palette = g.pal
	}
	return g, nil
}

// Update advances the rotation by RotationRate*speed*dt radians and wraps
// the offset into [0, 2π). Non-finite advances are ignored.
func (g *Globe) Update(dt float64) {
	step := RotationRate * g.speed * dt
	if !math3d.Finite(step) {
		g.log.Warn("ignoring non-finite rotation step",
			zap.Float64("dt", dt),
			zap.Float64("speed", g.speed),
		)
		return
	}
	g.angleOffset = math3d.WrapAngle(g.angleOffset + step)
}

// Render draws the globe into dst over a width x height grid. Only cells
// covered by the sphere are written.
func (g *Globe) Render(dst render.Canvas, width, height int) {
	g.camera.RenderSphere(dst, width, height, g.day, g.night, g.Params())
}

// Params returns the current per-frame render parameters.
func (g *Globe) Params() render.SphereParams {
	return render.SphereParams{
		Radius:      g.radius,
		AngleOffset: g.angleOffset,
		Scale:       g.scale,
		Tilt:        g.tilt,
		Lighting:    g.lighting,
	}
}

// Camera returns the globe's camera.
func (g *Globe) Camera() *render.Camera { return g.camera }

// Textures returns the day and night textures.
func (g *Globe) Textures() (day, night *render.Texture) { return g.day, g.night }

// AngleOffset returns the accumulated spin in radians, in [0, 2π).
func (g *Globe) AngleOffset() float64 { return g.angleOffset }

// Scale returns the radius multiplier.
func (g *Globe) Scale() float64 { return g.scale }

// Speed returns the rotation speed multiplier.
func (g *Globe) Speed() float64 { return g.speed }

// Tilt returns the axial tilt in degrees.
func (g *Globe) Tilt() float64 { return g.tilt }

// Lighting reports whether day/night shading is on.
func (g *Globe) Lighting() bool { return g.lighting }

// SetAngleOffset sets the rotation phase directly, wrapped into [0, 2π).
func (g *Globe) SetAngleOffset(a float64) {
	if !math3d.Finite(a) {
		return
	}
	g.angleOffset = math3d.WrapAngle(a)
}

// SetScale sets the radius multiplier.
func (g *Globe) SetScale(s float64) { g.scale = s }

// SetSpeed sets the rotation speed multiplier. Negative values spin
// backwards.
func (g *Globe) SetSpeed(s float64) { g.speed = s }

// SetTilt sets the axial tilt in degrees.
func (g *Globe) SetTilt(deg float64) { g.tilt = deg }

// SetLighting turns day/night shading on or off.
func (g *Globe) SetLighting(on bool) { g.lighting = on }
