package render

import "strings"

// Canvas is the destination of a sphere render. Implementations ignore
// coordinates outside their bounds.
type Canvas interface {
	Set(x, y int, r rune)
}

// Transparent marks a CharBuffer cell the renderer has not written.
const Transparent rune = 0

// CharBuffer is a caller-owned grid of runes.
type CharBuffer struct {
	Width  int    // Width in cells
	Height int    // Height in cells
	Cells  []rune // Row-major cell data
}

// NewCharBuffer creates a buffer with every cell Transparent.
func NewCharBuffer(width, height int) *CharBuffer {
	return &CharBuffer{
		Width:  max(width, 0),
		Height: max(height, 0),
		Cells:  make([]rune, max(width, 0)*max(height, 0)),
	}
}

// Resize reallocates the buffer if the dimensions changed.
// It reports whether a reallocation happened.
func (b *CharBuffer) Resize(width, height int) bool {
	if b.Width == width && b.Height == height {
		return false
	}
	*b = *NewCharBuffer(width, height)
	return true
}

// Clear resets every cell to Transparent.
func (b *CharBuffer) Clear() {
	b.Fill(Transparent)
}

// Fill sets every cell to r.
func (b *CharBuffer) Fill(r rune) {
	n := len(b.Cells)
	if n == 0 {
		return
	}
	b.Cells[0] = r
	for i := 1; i < n; i *= 2 {
		copy(b.Cells[i:], b.Cells[:i])
	}
}

// Set writes r at (x, y). Bounds checking is performed.
func (b *CharBuffer) Set(x, y int, r rune) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	b.Cells[y*b.Width+x] = r
}

// At returns the rune at (x, y), or Transparent if out of bounds.
func (b *CharBuffer) At(x, y int) rune {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Transparent
	}
	return b.Cells[y*b.Width+x]
}

// Lines returns each row as a string, with Transparent cells replaced by
// background.
func (b *CharBuffer) Lines(background rune) []string {
	lines := make([]string, b.Height)
	row := make([]rune, b.Width)
	for y := range b.Height {
		copy(row, b.Cells[y*b.Width:(y+1)*b.Width])
		for x, r := range row {
			if r == Transparent {
				row[x] = background
			}
		}
		lines[y] = string(row)
	}
	return lines
}

// String renders the buffer with spaces for Transparent cells.
func (b *CharBuffer) String() string {
	return strings.Join(b.Lines(' '), "\n")
}

// Offset returns a Canvas that writes into b shifted by (dx, dy).
func (b *CharBuffer) Offset(dx, dy int) Canvas {
	return offsetCanvas{b: b, dx: dx, dy: dy}
}

type offsetCanvas struct {
	b      *CharBuffer
	dx, dy int
}

func (o offsetCanvas) Set(x, y int, r rune) {
	o.b.Set(x+o.dx, y+o.dy, r)
}
