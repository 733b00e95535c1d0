package image

import (
	"bytes"
	stdimage "image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"regexp"
	"strconv"

	"github.com/eureka-framework/component-media/errors"
)

// Format identifies a raster image format recognized by the component.
type Format string

const (
	FormatGIF  Format = "gif"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWBMP Format = "wbmp"
	FormatXBM  Format = "xbm"
)

// sniffLen is how many leading bytes are inspected for format detection and,
// for WBMP/XBM, header dimension parsing.
const sniffLen = 512

// MimeType returns the MIME type reported for the format.
func (f Format) MimeType() string {
	switch f {
	case FormatGIF:
		return "image/gif"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatWBMP:
		return "image/vnd.wap.wbmp"
	case FormatXBM:
		return "image/x-xbitmap"
	}
	return ""
}

// Extension returns the canonical file extension for the format.
// WBMP and XBM have no extension mapping and return the empty string.
func (f Format) Extension() string {
	switch f {
	case FormatGIF:
		return "gif"
	case FormatJPEG:
		return "jpg"
	case FormatPNG:
		return "png"
	}
	return ""
}

// String implements fmt.Stringer
func (f Format) String() string {
	return string(f)
}

// ParseFormat converts a format name ("jpeg", "jpg", "png", ...) to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "gif":
		return FormatGIF, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "wbmp":
		return FormatWBMP, nil
	case "xbm":
		return FormatXBM, nil
	}
	return "", errors.Newf(errors.KindUnsupportedFormat, "unknown format %q", name)
}

var (
	magicGIF  = []byte("GIF8")
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicPNG  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	magicXBM  = []byte("#define")
)

// detectFormat sniffs the leading bytes of a file and classifies them.
// WBMP is checked last: its two-zero-byte prologue is a weak signature, so a
// parseable dimension header is required before the file is accepted as WBMP.
func detectFormat(header []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(header, magicGIF):
		return FormatGIF, nil
	case bytes.HasPrefix(header, magicJPEG):
		return FormatJPEG, nil
	case bytes.HasPrefix(header, magicPNG):
		return FormatPNG, nil
	case bytes.HasPrefix(header, magicXBM):
		return FormatXBM, nil
	case len(header) >= 4 && header[0] == 0x00 && header[1] == 0x00:
		if _, _, err := parseWBMPHeader(header); err == nil {
			return FormatWBMP, nil
		}
	}
	return "", errors.New(errors.KindDecode, "unrecognized image header")
}

// headerSize extracts width and height from the sniffed header without a pixel
// decode. GIF/JPEG/PNG go through the registered stdlib codecs reading from r,
// which must be positioned at the start of the file; WBMP and XBM are parsed
// directly from the sniffed bytes since no codec for them is registered.
func headerSize(f Format, header []byte, r io.Reader) (int, int, error) {
	switch f {
	case FormatWBMP:
		return parseWBMPHeader(header)
	case FormatXBM:
		return parseXBMHeader(header)
	}
	cfg, _, err := stdimage.DecodeConfig(r)
	if err != nil {
		return 0, 0, errors.NewDecode("reading image header", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, errors.New(errors.KindDecode, "image header reports non-positive dimensions")
	}
	return cfg.Width, cfg.Height, nil
}

// parseWBMPHeader reads the WBMP type-0 fixed header: a multi-byte type field
// (must be zero), one fix-header byte, then width and height as multi-byte
// unsigned integers.
func parseWBMPHeader(data []byte) (int, int, error) {
	pos := 0
	typ, pos, err := wbmpUintvar(data, pos)
	if err != nil || typ != 0 {
		return 0, 0, errors.New(errors.KindDecode, "not a type-0 WBMP header")
	}
	pos++ // fix-header byte
	if pos >= len(data) {
		return 0, 0, errors.New(errors.KindDecode, "truncated WBMP header")
	}
	w, pos, err := wbmpUintvar(data, pos)
	if err != nil {
		return 0, 0, errors.New(errors.KindDecode, "truncated WBMP header")
	}
	h, _, err := wbmpUintvar(data, pos)
	if err != nil {
		return 0, 0, errors.New(errors.KindDecode, "truncated WBMP header")
	}
	if w == 0 || h == 0 {
		return 0, 0, errors.New(errors.KindDecode, "WBMP header reports zero dimensions")
	}
	return w, h, nil
}

// wbmpUintvar decodes a WAP multi-byte unsigned integer: seven value bits per
// byte, high bit set on all but the last byte.
func wbmpUintvar(data []byte, pos int) (int, int, error) {
	value := 0
	for i := 0; i < 5; i++ { // 5 bytes bound the value to 35 bits
		if pos >= len(data) {
			return 0, pos, errors.New(errors.KindDecode, "truncated multi-byte integer")
		}
		b := data[pos]
		pos++
		value = value<<7 | int(b&0x7F)
		if b&0x80 == 0 {
			return value, pos, nil
		}
	}
	return 0, pos, errors.New(errors.KindDecode, "oversized multi-byte integer")
}

var (
	xbmWidthRe  = regexp.MustCompile(`#define\s+\S*width\s+(\d+)`)
	xbmHeightRe = regexp.MustCompile(`#define\s+\S*height\s+(\d+)`)
)

// parseXBMHeader extracts dimensions from the #define lines at the top of an
// XBM file. The defines must appear within the sniff window.
func parseXBMHeader(data []byte) (int, int, error) {
	wm := xbmWidthRe.FindSubmatch(data)
	hm := xbmHeightRe.FindSubmatch(data)
	if wm == nil || hm == nil {
		return 0, 0, errors.New(errors.KindDecode, "missing XBM dimension defines")
	}
	w, err := strconv.Atoi(string(wm[1]))
	if err != nil {
		return 0, 0, errors.NewDecode("parsing XBM width", err)
	}
	h, err := strconv.Atoi(string(hm[1]))
	if err != nil {
		return 0, 0, errors.NewDecode("parsing XBM height", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New(errors.KindDecode, "XBM header reports non-positive dimensions")
	}
	return w, h, nil
}
