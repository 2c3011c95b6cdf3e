package sky

import (
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/globe/pkg/render"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestNewDensity(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{80, 24, 96},
		{10, 1, 0},
		{0, 50, 0},
		{400, 200, 500},
	}
	for _, tt := range tests {
		s := New(tt.w, tt.h, testRNG())
		if len(s.Stars) != tt.want {
			t.Errorf("%dx%d: %d stars, want %d", tt.w, tt.h, len(s.Stars), tt.want)
		}
	}
}

func TestStarRanges(t *testing.T) {
	s := New(120, 40, testRNG())
	for i, st := range s.Stars {
		if st.X < 0 || st.X >= 120 || st.Y < 0 || st.Y >= 40 {
			t.Fatalf("star %d at (%d, %d) outside grid", i, st.X, st.Y)
		}
		if st.Base < 1 || st.Base > 5 {
			t.Fatalf("star %d base %d outside 1..5", i, st.Base)
		}
		if st.Twinkle < 0.1 || st.Twinkle > 0.5 {
			t.Fatalf("star %d twinkle %v outside 0.1..0.5", i, st.Twinkle)
		}
	}
}

func TestLevel(t *testing.T) {
	st := Star{Base: 5, Twinkle: 0.5}

	tests := []struct {
		name    string
		elapsed float64
		want    int
	}{
		{"start is mid swing", 0, 4},                  // 5 * 0.9
		{"peak clamps", math.Pi / (0.5 * 0.5) / 2, 6}, // sin = 1, 5 * 1.8 = 9
		{"trough is dark", 3 * math.Pi / (0.5 * 0.5) / 2, 0},
		{"non-finite", math.Inf(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := st.Level(tt.elapsed); got != tt.want {
				t.Errorf("Level(%v) = %d, want %d", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestGlyph(t *testing.T) {
	want := map[int]rune{0: '·', 1: '·', 2: '•', 3: '•', 4: '✦', 6: '✦'}
	for lvl, r := range want {
		if got := Glyph(lvl); got != r {
			t.Errorf("Glyph(%d) = %q, want %q", lvl, got, r)
		}
	}
}

func TestShade(t *testing.T) {
	ramp := []color.Color{
		color.Gray{10}, color.Gray{20}, color.Gray{30}, color.Gray{40}, color.Gray{50},
	}
	tests := []struct {
		level int
		want  color.Color
	}{
		{0, color.Gray{10}},
		{1, color.Gray{10}},
		{2, color.Gray{20}},
		{4, color.Gray{40}},
		{5, color.Gray{50}},
		{6, color.Gray{50}},
	}
	for _, tt := range tests {
		if got := Shade(ramp, tt.level); got != tt.want {
			t.Errorf("Shade(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
	if Shade(nil, 3) != nil {
		t.Error("empty ramp should give nil")
	}
}

func TestResize(t *testing.T) {
	s := New(40, 20, testRNG())
	if s.Resize(40, 20) {
		t.Error("same size should not regenerate")
	}
	if !s.Resize(100, 30) {
		t.Fatal("new size should regenerate")
	}
	if s.Width != 100 || s.Height != 30 || len(s.Stars) != 150 {
		t.Errorf("after resize: %dx%d with %d stars", s.Width, s.Height, len(s.Stars))
	}
}

func TestDrawSkipsOccupied(t *testing.T) {
	s := &NightSky{
		Width:  4,
		Height: 1,
		Stars: []Star{
			{X: 0, Y: 0, Base: 1, Twinkle: 0.1},
			{X: 2, Y: 0, Base: 1, Twinkle: 0.1},
			{X: 9, Y: 0, Base: 1, Twinkle: 0.1},
		},
	}
	buf := render.NewCharBuffer(4, 1)
	buf.Set(2, 0, '@')

	s.Draw(buf, 0)

	if got := buf.At(0, 0); got != GlyphFaint {
		t.Errorf("free cell = %q, want star", got)
	}
	if got := buf.At(2, 0); got != '@' {
		t.Errorf("occupied cell = %q, want '@'", got)
	}
}

func TestVisitDeterministic(t *testing.T) {
	a := New(60, 20, testRNG())
	b := New(60, 20, testRNG())

	var la, lb []int
	a.Visit(1.5, nil, func(x, y, level int) { la = append(la, x, y, level) })
	b.Visit(1.5, nil, func(x, y, level int) { lb = append(lb, x, y, level) })

	if len(la) == 0 || len(la) != len(lb) {
		t.Fatalf("visited %d vs %d", len(la), len(lb))
	}
	for i := range la {
		if la[i] != lb[i] {
			t.Fatal("same seed produced different skies")
		}
	}
}
