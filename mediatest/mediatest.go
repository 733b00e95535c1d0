// Package mediatest provides on-disk image fixtures for component-media
// tests: real encoded GIF/JPEG/PNG files plus handcrafted WBMP and XBM
// headers.
package mediatest

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Gradient builds a w by h NRGBA image with per-pixel distinct colors and a
// horizontal alpha ramp, so crops and resizes can be checked pixel by pixel.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: uint8(255 - x%128),
			})
		}
	}
	return img
}

// Solid builds a w by h NRGBA image filled with a single opaque color.
func Solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// WritePNG encodes img as PNG under dir and returns the file path.
func WritePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding fixture %s: %v", path, err)
	}
	return path
}

// WriteJPEG encodes img as JPEG under dir and returns the file path.
func WriteJPEG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encoding fixture %s: %v", path, err)
	}
	return path
}

// WriteGIF encodes img as GIF under dir and returns the file path.
func WriteGIF(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture %s: %v", path, err)
	}
	defer f.Close()
	if err := gif.Encode(f, img, nil); err != nil {
		t.Fatalf("encoding fixture %s: %v", path, err)
	}
	return path
}

// WBMPBytes builds a minimal type-0 WBMP file for the given dimensions.
// Dimensions must fit in seven bits each.
func WBMPBytes(w, h int) []byte {
	data := []byte{0x00, 0x00, byte(w), byte(h)}
	rowBytes := (w + 7) / 8
	for i := 0; i < rowBytes*h; i++ {
		data = append(data, 0xFF)
	}
	return data
}

// XBMBytes builds a minimal XBM file for the given dimensions.
func XBMBytes(w, h int) []byte {
	return []byte(fmt.Sprintf(
		"#define fixture_width %d\n#define fixture_height %d\nstatic char fixture_bits[] = {\n};\n", w, h))
}

// WriteBytes writes raw fixture bytes under dir and returns the file path.
func WriteBytes(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}
