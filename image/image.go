// Package image wraps a single raster image file: header metadata at open
// time, a lazily decoded pixel buffer, centered square-crop and
// ratio-preserving resize transforms, and JPEG/PNG save targets including a
// content-addressed CDN layout.
//
// All pixel work is delegated to the imaging and resize libraries; this
// package contributes parameter validation, control flow and file-path
// bookkeeping around them.
package image

import (
	"fmt"
	stdimage "image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/eureka-framework/component-media/errors"
)

// Image is one open raster image file. The zero value is not usable; obtain
// an Image through Open. An Image is not safe for concurrent use.
type Image struct {
	path   string
	format Format
	width  int
	height int

	// pix is the decoded pixel buffer. It stays nil until the first
	// transform or save operation and is replaced, never accumulated,
	// by each transform.
	pix stdimage.Image
}

// Open reads the header metadata of the image at path without decoding pixel
// data. It fails with KindInvalidInput for an empty path, KindNotFound for a
// missing file and KindDecode when the file is not a recognized image.
func Open(path string) (*Image, error) {
	const op = "image.Open"

	if path == "" {
		return nil, errors.NewInvalidInput("path must not be empty").WithOp(op)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path).WithOp(op)
		}
		return nil, errors.NewIO("opening file", err).WithOp(op).WithPath(path)
	}
	defer f.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, errors.NewIO("reading file header", err).WithOp(op).WithPath(path)
	}
	header = header[:n]

	format, err := detectFormat(header)
	if err != nil {
		return nil, err.(*errors.Error).WithOp(op).WithPath(path)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.NewIO("rewinding file", err).WithOp(op).WithPath(path)
	}
	width, height, err := headerSize(format, header, f)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e.WithOp(op).WithPath(path)
		}
		return nil, errors.NewDecode("reading image header", err).WithOp(op).WithPath(path)
	}

	return &Image{
		path:   path,
		format: format,
		width:  width,
		height: height,
	}, nil
}

// Path returns the file path the handle was opened on.
func (im *Image) Path() string { return im.path }

// Format returns the detected image format.
func (im *Image) Format() Format { return im.format }

// Width returns the current pixel width.
func (im *Image) Width() int { return im.width }

// Height returns the current pixel height.
func (im *Image) Height() int { return im.height }

// MimeType returns the MIME type reported for the detected format.
func (im *Image) MimeType() string { return im.format.MimeType() }

// Extension returns the canonical file extension for the detected format.
// WBMP and XBM return the empty string.
func (im *Image) Extension() string { return im.format.Extension() }

// Filename returns the base name of the file, extension included.
func (im *Image) Filename() string { return filepath.Base(im.path) }

// Name returns the base name of the file without its extension.
func (im *Image) Name() string {
	base := filepath.Base(im.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Hash returns the lowercase hex MD5 of the raw file bytes. It re-reads the
// file at call time and fails with KindIO when it is no longer readable.
func (im *Image) Hash() (string, error) {
	hash, err := hashFile(im.path)
	if err != nil {
		return "", err.WithOp("image.Hash")
	}
	return hash, nil
}

// Ratio returns width divided by height. Height is positive for any image
// produced by Open, so the division is defined.
func (im *Image) Ratio() float64 {
	return float64(im.width) / float64(im.height)
}

// IsLandscape reports whether the ratio is strictly greater than 1.
func (im *Image) IsLandscape() bool { return im.Ratio() > 1 }

// IsPortrait reports whether the ratio is strictly less than 1.
func (im *Image) IsPortrait() bool { return im.Ratio() < 1 }

// IsSquare reports whether the ratio equals exactly 1. The exact float
// comparison is intentional.
func (im *Image) IsSquare() bool { return im.Ratio() == 1 }

// decoded reports whether the pixel buffer is present.
func (im *Image) decoded() bool { return im.pix != nil }

// decode populates the pixel buffer. It is idempotent: a present buffer is
// left untouched. WBMP and XBM have header support only; decoding them fails
// with KindDecode since no codec for them is registered.
func (im *Image) decode() error {
	const op = "image.decode"

	if im.decoded() {
		return nil
	}

	switch im.format {
	case FormatGIF, FormatJPEG, FormatPNG:
	default:
		return errors.Newf(errors.KindDecode, "no registered codec for %s", im.format).
			WithOp(op).WithPath(im.path)
	}

	pix, err := imaging.Open(im.path)
	if err != nil {
		return errors.NewDecode("decoding pixel data", err).WithOp(op).WithPath(im.path)
	}
	im.pix = pix
	return nil
}

func (im *Image) String() string {
	return fmt.Sprintf("%s %dx%d (%s)", im.path, im.width, im.height, im.format)
}
