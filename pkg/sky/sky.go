// Package sky generates a twinkling star field for the space around the
// globe.
package sky

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/taigrr/globe/pkg/render"
)

const (
	cellsPerStar = 20
	maxStars     = 500

	// MaxLevel is the brightest level a star can reach while twinkling.
	MaxLevel = 6
)

// Star glyphs, from faint to bright.
const (
	GlyphFaint  = '·'
	GlyphMedium = '•'
	GlyphBright = '✦'
)

// Star is one point of light.
type Star struct {
	X, Y    int
	Base    int     // 1..5
	Twinkle float64 // angular speed multiplier, 0.1..0.5
}

// NightSky is a field of stars sized to a character grid.
type NightSky struct {
	Width, Height int
	Stars         []Star

	rng *rand.Rand
}

// New scatters roughly one star per 20 cells, capped at 500, over a
// width x height grid. A nil rng seeds one from the clock.
func New(width, height int, rng *rand.Rand) *NightSky {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	s := &NightSky{rng: rng}
	s.generate(width, height)
	return s
}

func (s *NightSky) generate(width, height int) {
	s.Width, s.Height = width, height
	s.Stars = s.Stars[:0]
	if width <= 0 || height <= 0 {
		return
	}

	n := min(width*height/cellsPerStar, maxStars)
	for range n {
		s.Stars = append(s.Stars, Star{
			X:       s.rng.IntN(width),
			Y:       s.rng.IntN(height),
			Base:    1 + s.rng.IntN(5),
			Twinkle: 0.1 + s.rng.Float64()*0.4,
		})
	}
}

// Resize regenerates the field when the dimensions change and reports
// whether it did.
func (s *NightSky) Resize(width, height int) bool {
	if width == s.Width && height == s.Height {
		return false
	}
	s.generate(width, height)
	return true
}

// Level returns the star's brightness at elapsed seconds, in 0..MaxLevel.
// The sine twinkle swings each star from invisible up to 1.8x its base.
func (st Star) Level(elapsed float64) int {
	tw := (math.Sin(elapsed*st.Twinkle*0.5) + 1) / 2 * 1.8
	b := float64(st.Base) * tw
	if math.IsNaN(b) {
		return 0
	}
	return int(math.Max(0, math.Min(b, MaxLevel)))
}

// Glyph returns the character drawn for a brightness level.
func Glyph(level int) rune {
	switch {
	case level <= 1:
		return GlyphFaint
	case level <= 3:
		return GlyphMedium
	default:
		return GlyphBright
	}
}

// Shade picks a colour for a brightness level from a dim-to-bright ramp.
// Levels 0 and 1 share the first entry; anything past the end uses the
// last one.
func Shade(ramp []color.Color, level int) color.Color {
	if len(ramp) == 0 {
		return nil
	}
	i := max(level-1, 0)
	return ramp[min(i, len(ramp)-1)]
}

// Visit calls fn for every star inside the grid whose cell is not
// occupied. occupied may be nil.
func (s *NightSky) Visit(elapsed float64, occupied func(x, y int) bool, fn func(x, y, level int)) {
	for _, st := range s.Stars {
		if st.X < 0 || st.Y < 0 || st.X >= s.Width || st.Y >= s.Height {
			continue
		}
		if occupied != nil && occupied(st.X, st.Y) {
			continue
		}
		fn(st.X, st.Y, st.Level(elapsed))
	}
}

// Draw writes star glyphs into every empty cell of buf that holds a star.
func (s *NightSky) Draw(buf *render.CharBuffer, elapsed float64) {
	occupied := func(x, y int) bool { return buf.At(x, y) != render.Transparent }
	s.Visit(elapsed, occupied, func(x, y, level int) {
		buf.Set(x, y, Glyph(level))
	})
}
