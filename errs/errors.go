// Package errs defines the error taxonomy shared by all vtzero packages.
//
// Each category is a sentinel error; concrete failures wrap the sentinel
// with detail, so callers match categories with errors.Is:
//
//	_, err := value.IntValue()
//	if errors.Is(err, errs.ErrType) {
//	    // wrong accessor for this value kind
//	}
//
// Builder mis-sequencing is a programmer error, not part of this
// taxonomy; builders panic on precondition violations.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates the byte stream violates the vector tile wire
	// format grammar: truncated varint, wrong wire type for a known tag,
	// unpaired property indexes, unknown value tag, duplicate geometry
	// field, or missing layer name.
	ErrFormat = errors.New("format error")

	// ErrGeometry indicates the geometry command stream violates the
	// geometry grammar.
	ErrGeometry = errors.New("geometry error")

	// ErrVersion indicates a layer version other than 1 or 2.
	ErrVersion = errors.New("unknown vector tile version")

	// ErrType indicates a property value accessor for a kind other than
	// the value's actual kind.
	ErrType = errors.New("type error")

	// ErrOutOfRange indicates a property index outside the layer's key or
	// value table. The rest of the feature may still be read.
	ErrOutOfRange = errors.New("index out of range")
)

// Format returns a format error with the given detail message.
func Format(msg string) error {
	return fmt.Errorf("%w: %s", ErrFormat, msg)
}

// Formatf returns a format error with a formatted detail message.
func Formatf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

// Geometry returns a geometry error with the given detail message.
func Geometry(msg string) error {
	return fmt.Errorf("%w: %s", ErrGeometry, msg)
}

// Geometryf returns a geometry error with a formatted detail message.
func Geometryf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrGeometry, fmt.Sprintf(format, args...))
}

// Version returns a version error for the given layer version.
func Version(version uint32) error {
	return fmt.Errorf("%w: %d", ErrVersion, version)
}

// OutOfRange returns an out-of-range error for the given index.
func OutOfRange(index uint32) error {
	return fmt.Errorf("%w: %d", ErrOutOfRange, index)
}
