package image

import (
	"crypto/md5"
	"encoding/hex"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/eureka-framework/component-media/errors"
)

// Encode defaults used by SaveForCDN.
const (
	DefaultJPEGQuality    = 100
	DefaultPNGCompression = 0
)

// SaveAsJPEG encodes the image as JPEG at the given quality (0-100), writes it
// to path and returns a freshly opened handle for the written file.
func (im *Image) SaveAsJPEG(path string, quality int) (*Image, error) {
	const op = "image.SaveAsJPEG"

	if path == "" {
		return nil, errors.NewInvalidInput("path must not be empty").WithOp(op)
	}
	if quality < 0 || quality > 100 {
		return nil, errors.Newf(errors.KindInvalidInput, "quality must be within 0-100, got %d", quality).WithOp(op)
	}
	if err := im.encodeToFile(path, FormatJPEG, quality, DefaultPNGCompression); err != nil {
		return nil, err
	}
	return Open(path)
}

// SaveAsPNG encodes the image as PNG at the given zlib compression level
// (0-9), writes it to path and returns a freshly opened handle. The alpha
// channel is always preserved.
func (im *Image) SaveAsPNG(path string, compression int) (*Image, error) {
	const op = "image.SaveAsPNG"

	if path == "" {
		return nil, errors.NewInvalidInput("path must not be empty").WithOp(op)
	}
	if compression < 0 || compression > 9 {
		return nil, errors.Newf(errors.KindInvalidInput, "compression must be within 0-9, got %d", compression).WithOp(op)
	}
	if err := im.encodeToFile(path, FormatPNG, DefaultJPEGQuality, compression); err != nil {
		return nil, err
	}
	return Open(path)
}

// SaveForCDN encodes the image in the given format (JPEG or PNG only), files
// it under basePath at a path derived from the MD5 of the encoded bytes
// (basePath/h0/h1/h2/hash.ext, first three hash characters as directory
// fan-out) and returns a handle opened on the final path. The intermediate
// temp file is removed on every failure path.
func (im *Image) SaveForCDN(basePath string, format Format) (*Image, error) {
	const op = "image.SaveForCDN"

	if basePath == "" {
		return nil, errors.NewInvalidInput("base path must not be empty").WithOp(op)
	}
	switch format {
	case FormatJPEG, FormatPNG:
	default:
		return nil, errors.NewUnsupportedFormat(string(format)).WithOp(op)
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, errors.NewIO("creating base directory", err).WithOp(op).WithPath(basePath)
	}

	tmpPath := filepath.Join(basePath, "tmp-"+uuid.NewString())
	if err := im.encodeToFile(tmpPath, format, DefaultJPEGQuality, DefaultPNGCompression); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	hash, err := hashFile(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, err.WithOp(op)
	}

	destPath := filepath.Join(basePath, CDNRelPath(hash, format))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		os.Remove(tmpPath)
		return nil, errors.NewIO("creating CDN directory", err).WithOp(op).WithPath(destPath)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return nil, errors.NewIO("moving file into CDN layout", err).WithOp(op).WithPath(destPath)
	}

	return Open(destPath)
}

// CDNRelPath returns the path of a content-addressed file relative to the CDN
// base: h0/h1/h2/hash.ext with the first three characters of the hash as
// directory fan-out. Only JPEG and PNG have CDN extensions.
func CDNRelPath(hash string, format Format) string {
	ext := "jpg"
	if format == FormatPNG {
		ext = "png"
	}
	return filepath.Join(hash[0:1], hash[1:2], hash[2:3], hash+"."+ext)
}

// encodeToFile decodes if needed and encodes the pixel buffer to path in the
// given format.
func (im *Image) encodeToFile(path string, format Format, quality, compression int) error {
	const op = "image.encode"

	if err := im.decode(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("creating output file", err).WithOp(op).WithPath(path)
	}

	var encErr error
	switch format {
	case FormatJPEG:
		encErr = imaging.Encode(f, im.pix, imaging.JPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		encErr = imaging.Encode(f, im.pix, imaging.PNG, imaging.PNGCompressionLevel(pngLevel(compression)))
	default:
		encErr = errors.NewUnsupportedFormat(string(format))
	}
	if encErr != nil {
		f.Close()
		os.Remove(path)
		if e, ok := encErr.(*errors.Error); ok {
			return e.WithOp(op).WithPath(path)
		}
		return errors.NewEncode("encoding image", encErr).WithOp(op).WithPath(path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errors.NewIO("closing output file", err).WithOp(op).WithPath(path)
	}
	return nil
}

// pngLevel maps the 0-9 zlib compression scale onto the levels the Go PNG
// encoder supports: 0 disables compression, 9 asks for the best compression,
// everything between trades between speed and the default level.
func pngLevel(compression int) png.CompressionLevel {
	switch {
	case compression == 0:
		return png.NoCompression
	case compression <= 3:
		return png.BestSpeed
	case compression <= 8:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// hashFile returns the lowercase hex MD5 of the file at path.
func hashFile(path string) (string, *errors.Error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewIO("opening file for hashing", err).WithPath(path)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.NewIO("hashing file", err).WithPath(path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
