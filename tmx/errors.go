package tmx

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingProperty is returned when a required map property is not
	// set.
	ErrMissingProperty = errors.New("tmx: missing map property")
	// ErrInvalidProperty is returned when a map property has an unusable
	// value.
	ErrInvalidProperty = errors.New("tmx: invalid map property")
	// ErrFormat is matched by every *FormatError.
	ErrFormat = errors.New("tmx: invalid map data")
	// ErrUnsupportedEncoding is returned for layer data that is neither
	// csv nor plain XML.
	ErrUnsupportedEncoding = errors.New("tmx: unsupported layer encoding")
	// ErrChunkAttribute is returned for a chunk with a missing position or
	// size attribute, or a size that is not positive.
	ErrChunkAttribute = errors.New("tmx: invalid chunk attributes")
	// ErrCellCount is returned when layer or chunk data does not hold
	// width * height values.
	ErrCellCount = errors.New("tmx: wrong number of cells")
)

// PropertyError records a missing or invalid map property.
type PropertyError struct {
	Name string
	Err  error
}

func (e *PropertyError) Error() string {
	if errors.Is(e.Err, ErrMissingProperty) {
		return fmt.Sprintf("tmx: please set the %q custom property on the map", e.Name)
	}
	return fmt.Sprintf("tmx: map property %q: %v", e.Name, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }

// FormatError records map data that cannot be decoded. Chunk is -1 when the
// error is not specific to a chunk.
type FormatError struct {
	Layer string
	Chunk int
	Err   error
}

func (e *FormatError) Error() string {
	switch {
	case e.Layer == "":
		return fmt.Sprintf("tmx: %v", e.Err)
	case e.Chunk < 0:
		return fmt.Sprintf("tmx: layer %q: %v", e.Layer, e.Err)
	default:
		return fmt.Sprintf("tmx: layer %q chunk %d: %v", e.Layer, e.Chunk, e.Err)
	}
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is reports ErrFormat as a match for any *FormatError.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
