package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/lucasb-eyer/go-colorful"
)

// Shader picks the foreground colour for a rendered rune.
// A nil result leaves the terminal default.
type Shader func(r rune) color.Color

// GradientShader colours palette symbols along a Lab blend from dim to
// bright. Runes outside the palette get the bright colour.
func GradientShader(p *Palette, dim, bright color.Color) Shader {
	from, ok := colorful.MakeColor(dim)
	if !ok {
		from = colorful.Color{}
	}
	to, ok := colorful.MakeColor(bright)
	if !ok {
		to = colorful.Color{R: 1, G: 1, B: 1}
	}

	ramp := make(map[rune]color.Color, p.Len())
	for i := range p.Len() {
		r := p.Rune(i)
		ramp[r] = from.BlendLab(to, p.Level(r)).Clamped()
	}

	return func(r rune) color.Color {
		if c, ok := ramp[r]; ok {
			return c
		}
		return to
	}
}

// ParseHex parses a "#rrggbb" colour, falling back to def on error.
func ParseHex(s string, def color.Color) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return def
	}
	return c
}

// Draw copies the buffer onto the screen with its top-left corner at
// area.Min. Transparent cells are skipped so whatever is already on the
// screen shows through.
func (b *CharBuffer) Draw(scr uv.Screen, area uv.Rectangle, shade Shader) {
	for y := range b.Height {
		row := area.Min.Y + y
		if row >= area.Max.Y {
			break
		}
		for x := range b.Width {
			col := area.Min.X + x
			if col >= area.Max.X {
				break
			}
			r := b.Cells[y*b.Width+x]
			if r == Transparent {
				continue
			}

			cell := &uv.Cell{
				Content: string(r),
				Width:   1,
			}
			if shade != nil {
				cell.Style = uv.Style{Fg: shade(r)}
			}
			scr.SetCell(col, row, cell)
		}
	}
}
