package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"
)

// ConvertOptions control TextureFromImage.
type ConvertOptions struct {
	Width   int      // Target texture width in texels
	Height  int      // Target texture height in texels
	Invert  bool     // Map dark pixels to bright symbols
	Palette *Palette // Output ramp (DefaultPalette if nil)
}

// LoadImage decodes a PNG, JPEG or BMP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// TextureFromImage resamples img to the target size and quantizes each
// pixel's luma onto the palette.
func TextureFromImage(img image.Image, opts ConvertOptions) (*Texture, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", opts.Width, opts.Height)
	}
	pal := opts.Palette
	if pal == nil {
		pal = DefaultPalette()
	}
	if pal.Len() == 0 {
		return nil, errors.New("empty palette")
	}

	dst := image.NewGray(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	tex := NewFillTexture(opts.Width, opts.Height, pal.Rune(0))
	for y := range opts.Height {
		for x := range opts.Width {
			level := float64(dst.GrayAt(x, y).Y) / 255
			if opts.Invert {
				level = 1 - level
			}
			tex.Rows[y][x] = pal.Quantize(level)
		}
	}
	return tex, nil
}
