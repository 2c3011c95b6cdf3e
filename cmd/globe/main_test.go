package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/globe/pkg/globe"
	"github.com/taigrr/globe/pkg/render"
)

// isolate keeps commands away from the user's real config directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)
	return dir
}

func writeTextureDir(t *testing.T, dir string) string {
	t.Helper()
	texDir := filepath.Join(dir, "tex")
	if err := os.MkdirAll(texDir, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(name string, tex *render.Texture) {
		f, err := os.Create(filepath.Join(texDir, name))
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if _, err := tex.WriteTo(f); err != nil {
			t.Fatal(err)
		}
	}
	write(globe.DayTextureName, render.NewFillTexture(16, 8, '@'))
	write(globe.NightTextureName, render.NewFillTexture(16, 8, '.'))
	return texDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderFrame(t *testing.T) {
	g, err := globe.NewFromTextures(
		render.NewFillTexture(8, 4, '@'),
		render.NewFillTexture(8, 4, ' '),
	)
	if err != nil {
		t.Fatal(err)
	}
	g.SetLighting(false)

	out := renderFrame(g, 20, 10, 0)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if !strings.Contains(lines[5], "@") {
		t.Errorf("middle line %q should show the globe", lines[5])
	}
	for i, l := range lines {
		if strings.HasSuffix(l, " ") {
			t.Errorf("line %d has trailing blanks", i)
		}
	}
}

func TestFrameCommand(t *testing.T) {
	dir := isolate(t)
	texDir := writeTextureDir(t, dir)

	out, err := execute(t, "frame",
		"--textures", texDir,
		"--width", "24", "--height", "12",
		"--lighting=false", "--at", "0.5",
	)
	if err != nil {
		t.Fatalf("frame: %v\n%s", err, out)
	}
	if !strings.Contains(out, "@") {
		t.Errorf("frame output missing globe:\n%s", out)
	}
}

func TestFrameCommandMissingTextures(t *testing.T) {
	dir := isolate(t)
	missing := filepath.Join(dir, "nowhere")

	_, err := execute(t, "frame", "--textures", missing)
	if err == nil {
		t.Fatal("expected error for missing textures")
	}
	if !strings.Contains(err.Error(), globe.DayTextureName) {
		t.Errorf("error %q should name the texture file", err)
	}
}

func TestFrameCommandInvalidSize(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "frame", "--width", "0"); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestConvertCommand(t *testing.T) {
	dir := isolate(t)

	img := image.NewGray(image.Rect(0, 0, 32, 16))
	for y := range 16 {
		for x := range 32 {
			if x >= 16 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	in := filepath.Join(dir, "map.png")
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	outPath := filepath.Join(dir, "earth.txt")
	if out, err := execute(t, "convert", in, "-o", outPath, "--width", "8", "--height", "4"); err != nil {
		t.Fatalf("convert: %v\n%s", err, out)
	}

	tex, err := render.LoadTexture(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width() != 8 || tex.Height() != 4 {
		t.Fatalf("texture %dx%d, want 8x4", tex.Width(), tex.Height())
	}
	if r, _ := tex.Texel(0, 0); r != ' ' {
		t.Errorf("dark texel = %q, want ' '", r)
	}
	if r, _ := tex.Texel(7, 0); r != '@' {
		t.Errorf("bright texel = %q, want '@'", r)
	}
}

func TestConvertCommandBadInput(t *testing.T) {
	dir := isolate(t)
	bad := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "convert", bad); err == nil {
		t.Fatal("expected decode error")
	}
}
