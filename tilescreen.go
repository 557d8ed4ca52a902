/*
Package tilescreen is a library for cutting Tiled maps into fixed-size
screens for 8-bit targets.

A map is loaded into a screen.Set, which can then be exported as one binary
file per screen, as a Boriel Basic module or as a PNG preview. Binary
exports can be verified against the map they came from.
*/
package tilescreen

import (
	"fmt"

	"github.com/bodgit/tilescreen/catalog"
	"go.uber.org/zap"
)

// Bounds selects how the export bounds of a map are found.
type Bounds int

const (
	// BoundsAuto picks BoundsChunks for infinite or chunked maps and
	// BoundsScan otherwise.
	BoundsAuto Bounds = iota
	// BoundsScan walks the first tile layer from (0, 0) until the first
	// empty cell along row 0 and then down the last column.
	BoundsScan
	// BoundsChunks uses the largest coordinates of any non-empty cell.
	BoundsChunks
)

func (b Bounds) String() string {
	switch b {
	case BoundsAuto:
		return "auto"
	case BoundsScan:
		return "scan"
	case BoundsChunks:
		return "chunks"
	default:
		return fmt.Sprintf("Bounds(%d)", int(b))
	}
}

// ParseBounds returns the Bounds named s.
func ParseBounds(s string) (Bounds, error) {
	switch s {
	case "auto", "":
		return BoundsAuto, nil
	case "scan":
		return BoundsScan, nil
	case "chunks":
		return BoundsChunks, nil
	default:
		return 0, fmt.Errorf("unknown bounds strategy %q", s)
	}
}

// Exporter loads maps and exports and verifies screens.
type Exporter struct {
	logger   *zap.Logger
	db       *catalog.DB
	workers  int
	bounds   Bounds
	localIDs bool
	progress func()
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger, by default nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithCatalog records every exported binary screen in db.
func WithCatalog(db *catalog.DB) Option {
	return func(e *Exporter) {
		e.db = db
	}
}

// WithWorkers sets how many screen files are written in parallel.
func WithWorkers(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithBounds sets the bounds strategy used when loading a map.
func WithBounds(b Bounds) Option {
	return func(e *Exporter) {
		e.bounds = b
	}
}

// WithLocalIDs exports tile ids relative to the first GID of their tileset
// instead of GIDs.
func WithLocalIDs(local bool) Option {
	return func(e *Exporter) {
		e.localIDs = local
	}
}

// WithProgress calls fn after each screen file is written. fn may be called
// from several goroutines at once.
func WithProgress(fn func()) Option {
	return func(e *Exporter) {
		e.progress = fn
	}
}

// New returns an Exporter.
func New(options ...Option) *Exporter {
	e := &Exporter{
		logger:  zap.NewNop(),
		workers: 1,
	}
	for _, o := range options {
		o(e)
	}
	return e
}
