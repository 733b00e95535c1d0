package image

import (
	stdimage "image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/eureka-framework/component-media/errors"
)

// CropSquare crops the image to the largest centered square. Already-square
// images are left untouched without decoding. The crop offset is
// floor(|width-height|/2), applied to the longer axis only.
func (im *Image) CropSquare() error {
	const op = "image.CropSquare"

	if im.width == im.height {
		return nil
	}
	if err := im.decode(); err != nil {
		return err
	}

	side := im.width
	if im.height < side {
		side = im.height
	}

	var x0, y0 int
	if im.width > im.height {
		x0 = (im.width - im.height) / 2
	} else {
		y0 = (im.height - im.width) / 2
	}

	cropped := imaging.Crop(im.pix, stdimage.Rect(x0, y0, x0+side, y0+side))
	b := cropped.Bounds()
	if b.Dx() != side || b.Dy() != side {
		return errors.Newf(errors.KindTransform, "crop produced %dx%d, want %dx%d", b.Dx(), b.Dy(), side, side).
			WithOp(op).WithPath(im.path)
	}

	im.pix = cropped
	im.width = side
	im.height = side
	return nil
}

// Resize resamples the image to the requested dimensions using Lanczos
// interpolation. When keepRatio is true the image is fitted inside the
// requested box with the original aspect ratio kept: the height scaled to the
// target width and the width scaled to the target height are both computed,
// and landscape images take the scaled height when it fits the requested
// height (falling back to the scaled width otherwise), while non-landscape
// images apply the symmetric rule. Matching dimensions are a no-op.
func (im *Image) Resize(width, height int, keepRatio bool) error {
	const op = "image.Resize"

	if width <= 0 || height <= 0 {
		return errors.Newf(errors.KindInvalidInput, "dimensions must be positive, got %dx%d", width, height).
			WithOp(op)
	}
	if im.width == width && im.height == height {
		return nil
	}

	targetW, targetH := width, height
	if keepRatio {
		calcH := int(math.Round(float64(width) * float64(im.height) / float64(im.width)))
		calcW := int(math.Round(float64(height) * float64(im.width) / float64(im.height)))
		if im.IsLandscape() {
			if calcH <= height {
				targetW, targetH = width, calcH
			} else {
				targetW, targetH = calcW, height
			}
		} else {
			if calcW <= width {
				targetW, targetH = calcW, height
			} else {
				targetW, targetH = width, calcH
			}
		}
	}

	if im.width == targetW && im.height == targetH {
		return nil
	}
	if err := im.decode(); err != nil {
		return err
	}

	resized := resize.Resize(uint(targetW), uint(targetH), im.pix, resize.Lanczos3)
	b := resized.Bounds()
	if b.Dx() != targetW || b.Dy() != targetH {
		return errors.Newf(errors.KindTransform, "resample produced %dx%d, want %dx%d", b.Dx(), b.Dy(), targetW, targetH).
			WithOp(op).WithPath(im.path)
	}

	im.pix = resized
	im.width = targetW
	im.height = targetH
	return nil
}
