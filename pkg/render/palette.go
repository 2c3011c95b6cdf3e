package render

// DefaultSymbols is the luminance ramp used by the bundled earth textures,
// ordered from dimmest to brightest.
const DefaultSymbols = " .:;',wiogOLXHWYV@"

// Palette maps characters to luminance indices and back.
// Index 0 is the dimmest symbol, Len()-1 the brightest.
type Palette struct {
	runes []rune
	index map[rune]int
}

// NewPalette builds a palette from an ordered symbol string.
// Duplicate runes keep their first (dimmest) position.
func NewPalette(symbols string) *Palette {
	p := &Palette{index: make(map[rune]int)}
	for _, r := range symbols {
		if _, dup := p.index[r]; dup {
			continue
		}
		p.index[r] = len(p.runes)
		p.runes = append(p.runes, r)
	}
	return p
}

// DefaultPalette returns a palette over DefaultSymbols.
func DefaultPalette() *Palette {
	return NewPalette(DefaultSymbols)
}

// Len returns the number of symbols.
func (p *Palette) Len() int {
	return len(p.runes)
}

// Index returns the luminance index of r, or -1 if r is not in the palette.
func (p *Palette) Index(r rune) int {
	if i, ok := p.index[r]; ok {
		return i
	}
	return -1
}

// Rune returns the symbol at index i, clamped into range.
func (p *Palette) Rune(i int) rune {
	if len(p.runes) == 0 {
		return ' '
	}
	if i < 0 {
		i = 0
	} else if i >= len(p.runes) {
		i = len(p.runes) - 1
	}
	return p.runes[i]
}

// Level returns the normalized brightness of r in [0, 1], or -1 if r is
// not in the palette.
func (p *Palette) Level(r rune) float64 {
	i := p.Index(r)
	if i < 0 {
		return -1
	}
	if len(p.runes) == 1 {
		return 1
	}
	return float64(i) / float64(len(p.runes)-1)
}

// Quantize returns the symbol whose index is nearest to level*(Len()-1).
func (p *Palette) Quantize(level float64) rune {
	n := len(p.runes)
	if n == 0 {
		return ' '
	}
	i := int(level*float64(n-1) + 0.5)
	return p.Rune(i)
}
