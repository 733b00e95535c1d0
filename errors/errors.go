package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a media error
type Kind string

const (
	// Input errors
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"

	// Filesystem errors
	KindIO Kind = "io"

	// Codec errors
	KindDecode            Kind = "decode"
	KindEncode            Kind = "encode"
	KindUnsupportedFormat Kind = "unsupported_format"

	// Pixel-buffer errors
	KindTransform Kind = "transform"

	KindUnknown Kind = "unknown"
)

// Error is the structured error returned by every component-media operation.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "image.Open"
	Path    string // file path involved, if any
	Message string
	Err     error // wrapped cause
}

// Error implements the error interface
func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return string(e.Kind)
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by kind, so callers can use errors.Is with a bare kind
// template such as &Error{Kind: KindNotFound}.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// WithOp records the failing operation
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithPath records the file path involved
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithCause wraps an underlying error
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// New creates a new Error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new Error with a formatted message
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an underlying error under the given kind and message
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, unwrapping as needed.
// Non-component errors report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind anywhere in its chain
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &Error{Kind: kind})
}

// Input errors

func NewInvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

func NewNotFound(path string) *Error {
	return New(KindNotFound, "file does not exist").WithPath(path)
}

// Filesystem errors

func NewIO(message string, err error) *Error {
	return Wrap(KindIO, message, err)
}

// Codec errors

func NewDecode(message string, err error) *Error {
	return Wrap(KindDecode, message, err)
}

func NewEncode(message string, err error) *Error {
	return Wrap(KindEncode, message, err)
}

func NewUnsupportedFormat(format string) *Error {
	return Newf(KindUnsupportedFormat, "format %q is not a supported encode target", format)
}

// Pixel-buffer errors

func NewTransform(message string, err error) *Error {
	return Wrap(KindTransform, message, err)
}
