package image

import (
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eureka-framework/component-media/mediatest"
)

func TestCropSquareLandscape(t *testing.T) {
	dir := t.TempDir()
	im, err := Open(mediatest.WriteJPEG(t, dir, "wide.jpg", mediatest.Solid(100, 50, color.NRGBA{R: 200, A: 255})))
	require.NoError(t, err)

	require.NoError(t, im.CropSquare())
	require.Equal(t, 50, im.Width())
	require.Equal(t, 50, im.Height())
	require.True(t, im.IsSquare())
}

func TestCropSquareOffsetIsCentered(t *testing.T) {
	// 100x50 with a marker column at x=25: the centered crop starts there,
	// so the marker becomes column 0 of the result.
	src := mediatest.Solid(100, 50, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	marker := color.NRGBA{R: 250, G: 0, B: 0, A: 255}
	for y := 0; y < 50; y++ {
		src.SetNRGBA(25, y, marker)
	}

	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "wide.png", src))
	require.NoError(t, err)

	require.NoError(t, im.CropSquare())

	out := filepath.Join(dir, "cropped.png")
	_, err = im.SaveAsPNG(out, 0)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)

	got := color.NRGBAModel.Convert(decoded.At(0, 0)).(color.NRGBA)
	require.Equal(t, marker, got)
}

func TestCropSquarePortraitOffset(t *testing.T) {
	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "tall.png", mediatest.Gradient(30, 70)))
	require.NoError(t, err)

	require.NoError(t, im.CropSquare())
	require.Equal(t, 30, im.Width())
	require.Equal(t, 30, im.Height())
}

func TestCropSquareIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "wide.png", mediatest.Gradient(100, 50)))
	require.NoError(t, err)

	require.NoError(t, im.CropSquare())
	buf := im.pix
	require.NoError(t, im.CropSquare())

	require.Equal(t, 50, im.Width())
	require.Equal(t, 50, im.Height())
	// second call is a no-op, buffer untouched
	require.Same(t, buf, im.pix)
}

func TestCropSquareOnSquareImageDoesNotDecode(t *testing.T) {
	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "sq.png", mediatest.Gradient(40, 40)))
	require.NoError(t, err)

	require.NoError(t, im.CropSquare())
	require.False(t, im.decoded())
}

func TestResizeExactDimensions(t *testing.T) {
	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "a.png", mediatest.Gradient(123, 77)))
	require.NoError(t, err)

	require.NoError(t, im.Resize(50, 50, false))
	require.Equal(t, 50, im.Width())
	require.Equal(t, 50, im.Height())
}

func TestResizeKeepRatioLandscapeBias(t *testing.T) {
	// 200x100 into a 50x50 box: the height scaled to the target width is 25,
	// which fits the requested height, so the result is 50x25.
	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "a.png", mediatest.Gradient(200, 100)))
	require.NoError(t, err)

	require.NoError(t, im.Resize(50, 50, true))
	require.Equal(t, 50, im.Width())
	require.Equal(t, 25, im.Height())
}

func TestResizeKeepRatioPortrait(t *testing.T) {
	// 100x200 into a 50x50 box: symmetric rule, result 25x50.
	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "a.png", mediatest.Gradient(100, 200)))
	require.NoError(t, err)

	require.NoError(t, im.Resize(50, 50, true))
	require.Equal(t, 25, im.Width())
	require.Equal(t, 50, im.Height())
}

func TestResizeKeepRatioPreservesAspect(t *testing.T) {
	dir := t.TempDir()

	sizes := []struct{ w, h, boxW, boxH int }{
		{200, 100, 50, 50},
		{640, 480, 100, 100},
		{333, 777, 123, 45},
		{64, 64, 32, 48},
	}

	for _, s := range sizes {
		im, err := Open(mediatest.WritePNG(t, dir, "r.png", mediatest.Gradient(s.w, s.h)))
		require.NoError(t, err)

		orig := im.Ratio()
		require.NoError(t, im.Resize(s.boxW, s.boxH, true))

		// aspect ratio within rounding error of the original
		require.InDelta(t, orig, im.Ratio(), orig/float64(minInt(im.Width(), im.Height())))

		// the constrained axis never exceeds the box
		if im.IsLandscape() {
			require.LessOrEqual(t, im.Width(), s.boxW)
		} else {
			require.LessOrEqual(t, im.Height(), s.boxH)
		}
	}
}

func TestResizeNoOpOnMatchingDimensions(t *testing.T) {
	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "a.png", mediatest.Gradient(60, 40)))
	require.NoError(t, err)

	require.NoError(t, im.Resize(60, 40, true))
	require.False(t, im.decoded())
}

func TestResizeRejectsNonPositiveDimensions(t *testing.T) {
	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "a.png", mediatest.Gradient(60, 40)))
	require.NoError(t, err)

	require.Error(t, im.Resize(0, 40, false))
	require.Error(t, im.Resize(60, -1, false))
}

func TestResizeUsesInterpolation(t *testing.T) {
	// A black/white checkerboard downscaled with a resampling filter produces
	// intermediate gray values; nearest-neighbor duplication would not.
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{A: 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}

	dir := t.TempDir()
	im, err := Open(mediatest.WritePNG(t, dir, "checker.png", src))
	require.NoError(t, err)
	require.NoError(t, im.Resize(16, 16, false))

	gray := false
	b := im.pix.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !gray; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(im.pix.At(x, y)).(color.NRGBA)
			if c.R > 32 && c.R < 224 {
				gray = true
				break
			}
		}
	}
	require.True(t, gray, "expected interpolated gray pixels after downscale")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
