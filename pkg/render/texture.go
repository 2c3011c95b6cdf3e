// Package render provides the character-cell sphere renderer for globe.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Texture is a grid of characters sampled by the sphere renderer.
// Each row is one scanline and each rune one texel. Rows may differ in
// length; Width reports the first row's length and texel lookups on short
// rows report a miss.
type Texture struct {
	Rows [][]rune
}

// LoadTexture loads a texture from a text file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	defer f.Close()

	tex, err := ReadTexture(f)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return tex, nil
}

// ReadTexture reads a newline-delimited character grid.
// Trailing carriage returns are stripped.
func ReadTexture(r io.Reader) (*Texture, error) {
	var rows [][]rune
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		rows = append(rows, []rune(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	return &Texture{Rows: rows}, nil
}

// TextureFromLines creates a texture from in-memory rows.
func TextureFromLines(lines []string) *Texture {
	rows := make([][]rune, len(lines))
	for i, l := range lines {
		rows[i] = []rune(l)
	}
	return &Texture{Rows: rows}
}

// NewFillTexture creates a width x height texture filled with one rune.
func NewFillTexture(width, height int, r rune) *Texture {
	rows := make([][]rune, height)
	for y := range rows {
		row := make([]rune, width)
		for x := range row {
			row[x] = r
		}
		rows[y] = row
	}
	return &Texture{Rows: rows}
}

// NewCheckerTexture creates a procedural checkerboard of two runes.
func NewCheckerTexture(width, height, checkSize int, a, b rune) *Texture {
	if checkSize < 1 {
		checkSize = 1
	}
	tex := NewFillTexture(width, height, a)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 1 {
				tex.Rows[y][x] = b
			}
		}
	}
	return tex
}

// Width returns the length of the first row.
func (t *Texture) Width() int {
	if t == nil || len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Height returns the number of rows.
func (t *Texture) Height() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the texture has no rows or a zero-width first row.
func (t *Texture) Empty() bool {
	return t.Width() == 0 || t.Height() == 0
}

// Texel returns the rune at (x, y). ok is false when the coordinate falls
// outside the grid, including past the end of a short row.
func (t *Texture) Texel(x, y int) (r rune, ok bool) {
	if y < 0 || y >= len(t.Rows) {
		return 0, false
	}
	row := t.Rows[y]
	if x < 0 || x >= len(row) {
		return 0, false
	}
	return row[x], true
}

// WriteTo writes the texture in its file format.
func (t *Texture) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, row := range t.Rows {
		c, err := bw.WriteString(string(row) + "\n")
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
