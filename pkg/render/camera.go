package render

import (
	"math"

	"github.com/taigrr/globe/pkg/math3d"
)

// Calibration defaults, tuned by eye for typical terminal fonts.
const (
	// DefaultHorizontalStretch widens screen X to compensate for character
	// cells being roughly twice as tall as they are wide.
	DefaultHorizontalStretch = 1.2

	// DefaultLightDistance places the light far enough along +Y to act as a
	// directional source.
	DefaultLightDistance = 999999.0
)

// Camera is a fixed orbit camera that casts one ray per character cell.
type Camera struct {
	// Eye position in world space
	Position math3d.Vec3

	// Basis maps camera-space points to world space. Columns are the
	// right, up and forward axes; the translation is Position.
	Basis math3d.Mat4

	HorizontalStretch float64     // Screen X multiplier
	Light             math3d.Vec3 // Point light position
	Palette           *Palette    // Luminance ramp for texels and output
}

// SphereParams are the per-frame inputs of RenderSphere.
type SphereParams struct {
	Radius      float64 // Sphere radius before scaling
	AngleOffset float64 // Accumulated spin in radians
	Scale       float64 // Radius multiplier
	Tilt        float64 // Axial tilt in degrees
	Lighting    bool    // Day/night shading
}

// NewCamera creates a camera on a sphere of the given radius at azimuth
// and elevation (radians), looking at the origin.
func NewCamera(radius, azimuth, elevation float64) *Camera {
	a, b := math.Sin(azimuth), math.Cos(azimuth)
	c, d := math.Sin(elevation), math.Cos(elevation)

	eye := math3d.V3(radius*b*d, radius*a*d, radius*c)
	right := math3d.V3(-a, b, 0)
	up := math3d.V3(b*c, a*c, -d)
	forward := math3d.V3(b*d, a*d, c)

	return &Camera{
		Position:          eye,
		Basis:             math3d.Basis(right, up, forward, eye),
		HorizontalStretch: DefaultHorizontalStretch,
		Light:             math3d.V3(0, DefaultLightDistance, 0),
		Palette:           DefaultPalette(),
	}
}

// Ray returns the world-space unit direction of the ray through cell
// (x, y) of a width x height grid.
func (c *Camera) Ray(x, y, width, height int) math3d.Vec3 {
	hw := float64(width) / 2
	hh := float64(height) / 2

	sx := -((float64(x) - hw) + 0.5) / hw * c.HorizontalStretch
	sy := ((float64(y) - hh) + 0.5) / hh

	return c.Basis.MulVec3(math3d.V3(sx, sy, -1)).Sub(c.Position).Normalize()
}

// IntersectSphere intersects the ray origin + t*dir with a sphere of the
// given radius centred at the world origin. dir must be unit length.
// It returns the near root, which is the visible surface for origins
// outside the sphere.
func IntersectSphere(origin, dir math3d.Vec3, radius float64) (t float64, ok bool) {
	b := dir.Dot(origin)
	disc := b*b - origin.LenSq() + radius*radius
	if disc < 0 {
		return 0, false
	}
	return -math.Sqrt(disc) - b, true
}

// Luminance maps the Lambertian term n·l onto [0, 1]. The steep remap keeps
// the terminator a narrow band rather than a slow gradient.
func Luminance(normal, toLight math3d.Vec3, lighting bool) float64 {
	if !lighting {
		return 1
	}
	return math3d.Clamp(5*normal.Dot(toLight)+0.5, 0, 1)
}

// SphereUV returns the texture coordinates of a surface point.
// theta (longitude) is wrapped into [0, 1); phi (latitude) runs from 0 at
// the +Z pole to 1 at the -Z pole once the tilt is undone.
func SphereUV(point math3d.Vec3, radius, tiltRad, angleOffset float64) (theta, phi float64) {
	q := point.RotateX(-tiltRad)

	phi = -q.Z/radius/2 + 0.5
	theta = -math.Atan2(q.Y, q.X)/math.Pi + 0.5 + turns(angleOffset)
	theta -= math.Floor(theta)
	return theta, phi
}

// turns converts radians into whole-turn units, reduced so that offsets a
// multiple of 2π apart give bit-identical results.
func turns(angle float64) float64 {
	const tau = 2 * math.Pi
	return math.Mod(angle, tau) / tau
}

// texelIndex scales a [0,1] coordinate onto 0..size-1.
func texelIndex(coord float64, size int) int {
	last := size - 1
	if last <= 0 || math.IsNaN(coord) {
		return 0
	}
	f := math3d.Clamp(coord*float64(last), 0, float64(last))
	return int(f)
}

// BlendIndex mixes a night and a day palette index by luminance and clamps
// the rounded result into [0, n).
func BlendIndex(night, day int, luminance float64, n int) int {
	f := math.Round((1-luminance)*float64(night) + luminance*float64(day))
	if math.IsNaN(f) {
		return 0
	}
	return math3d.ClampInt(int(math3d.Clamp(f, 0, float64(n-1))), 0, n-1)
}

// RenderSphere draws the textured sphere into dst, one ray per cell of a
// width x height grid. Cells whose ray misses the sphere, or whose texels
// are missing or outside the palette, are left untouched.
func (c *Camera) RenderSphere(dst Canvas, width, height int, day, night *Texture, p SphereParams) {
	if dst == nil || day.Empty() || night == nil || width <= 0 || height <= 0 {
		return
	}

	r := p.Radius * p.Scale
	if r == 0 || math.IsNaN(r) {
		return
	}

	pal := c.Palette
	if pal == nil {
		pal = DefaultPalette()
	}
	if pal.Len() == 0 {
		return
	}

	tilt := p.Tilt * math.Pi / 180
	tw, th := day.Width(), day.Height()
	o := c.Position

	for y := range height {
		for x := range width {
			u := c.Ray(x, y, width, height)

			t, hit := IntersectSphere(o, u, r)
			if !hit {
				continue
			}
			inter := o.Add(u.Scale(t))

			lum := 1.0
			if p.Lighting {
				n := inter.Normalize()
				l := c.Light.Sub(inter).Normalize()
				lum = Luminance(n, l, true)
			}

			theta, phi := SphereUV(inter, r, tilt, p.AngleOffset)
			tx := texelIndex(theta, tw)
			ty := texelIndex(phi, th)

			dc, ok := day.Texel(tx, ty)
			if !ok {
				continue
			}
			nc, ok := night.Texel(tx, ty)
			if !ok {
				continue
			}

			di, ni := pal.Index(dc), pal.Index(nc)
			if di < 0 || ni < 0 {
				continue
			}

			dst.Set(x, y, pal.Rune(BlendIndex(ni, di, lum, pal.Len())))
		}
	}
}
