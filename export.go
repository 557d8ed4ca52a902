package tilescreen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/tilescreen/basic"
	"github.com/bodgit/tilescreen/partition"
	"github.com/bodgit/tilescreen/preview"
	"github.com/bodgit/tilescreen/screen"
	"github.com/bodgit/tilescreen/tmx"
	"go.uber.org/zap"
)

// ErrNoLayers is returned when a map has no tile layers to scan.
var ErrNoLayers = errors.New("map has no tile layers")

// Load reads the TMX map in file and cuts it into screens.
func (e *Exporter) Load(file string) (*screen.Set, error) {
	m, err := tmx.Open(file)
	if err != nil {
		return nil, err
	}
	return e.Screens(m)
}

// Screens cuts m into screens using the configured bounds strategy. With
// BoundsAuto an infinite or chunked map uses BoundsChunks and any other map
// uses BoundsScan.
func (e *Exporter) Screens(m *tmx.Map) (*screen.Set, error) {
	w, h, err := m.ScreenSize()
	if err != nil {
		return nil, err
	}

	bounds := e.bounds
	if bounds == BoundsAuto {
		bounds = BoundsScan
		if m.Chunked() {
			bounds = BoundsChunks
		}
	}

	var set *screen.Set
	switch bounds {
	case BoundsChunks:
		sparse := m.Sparse()
		maxX, maxY, err := sparse.Bounds()
		if err != nil {
			return nil, err
		}
		layout, err := partition.New(w, h, maxX, maxY)
		if err != nil {
			return nil, err
		}
		if e.localIDs {
			set = screen.FromLayers(layout, m.TileLayers(true)...)
		} else {
			set = screen.FromSparse(layout, sparse)
		}
	default:
		layers := m.TileLayers(e.localIDs)
		if len(layers) == 0 {
			return nil, ErrNoLayers
		}

		maxX, maxY, err := screen.ScanBounds(layers[0])
		if err != nil {
			return nil, err
		}
		layout, err := partition.New(w, h, maxX, maxY)
		if err != nil {
			return nil, err
		}
		set = screen.FromLayers(layout, layers...)
	}

	e.logger.Info("partitioned map",
		zap.Stringer("bounds", bounds),
		zap.Int("maxX", set.Layout.MaxX),
		zap.Int("maxY", set.Layout.MaxY),
		zap.Int("screenWidth", w),
		zap.Int("screenHeight", h),
		zap.Int("screens", set.Len()))

	return set, nil
}

// writeFile writes file by way of a temporary file in the same directory
// so a failed write never leaves a partial file behind.
func writeFile(file string, fn func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = fn(f); err != nil {
		return err
	}
	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), file)
}

// ExportBinary writes every screen of set to its own file named after
// filename with any .bin extension replaced by _<index>.bin. Screen files
// left over from an earlier export with more screens are removed.
func (e *Exporter) ExportBinary(ctx context.Context, set *screen.Set, filename string) error {
	if set.Len() == 0 {
		return screen.ErrEmptyMap
	}
	if err := set.Check(); err != nil {
		return err
	}

	base := screen.Base(filename)

	if err := e.writeScreens(ctx, set, base); err != nil {
		return err
	}

	if err := e.removeStale(base, set.Len()); err != nil {
		return err
	}

	if e.db != nil {
		if err := e.record(set, base); err != nil {
			return fmt.Errorf("recording %s in catalog: %w", base, err)
		}
	}

	e.logger.Info("binary export completed", zap.String("base", base), zap.Int("screens", set.Len()))

	return nil
}

func (e *Exporter) removeStale(base string, n int) error {
	dir := filepath.Dir(base)
	files, err := findScreens(dir, filepath.Base(base))
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.Index < n {
			continue
		}
		if err := os.Remove(filepath.Join(dir, f.File)); err != nil {
			return err
		}
		e.logger.Info("removed stale screen file", zap.Int("screen", f.Index), zap.String("file", f.File))
	}
	return nil
}

func (e *Exporter) record(set *screen.Set, base string) error {
	if err := e.db.Reset(base); err != nil {
		return err
	}
	for _, s := range set.Screens {
		b, err := s.MarshalBinary()
		if err != nil {
			return err
		}
		sha, err := e.db.Record(base, s.Index, s.Width, s.Height, b)
		if err != nil {
			return err
		}
		e.logger.Debug("recorded screen", zap.Int("screen", s.Index), zap.String("sha1", sha))
	}
	return nil
}

// ExportText writes set to filename as a Boriel Basic module.
func (e *Exporter) ExportText(set *screen.Set, filename string) error {
	if err := writeFile(filename, func(w io.Writer) error {
		return basic.Encode(w, set)
	}); err != nil {
		return err
	}

	e.logger.Info("text export completed", zap.String("file", filename), zap.Int("screens", set.Len()))

	return nil
}

// ExportPreview writes a PNG preview of set to filename.
func (e *Exporter) ExportPreview(set *screen.Set, filename string, o preview.Options) error {
	if err := writeFile(filename, func(w io.Writer) error {
		return preview.Encode(w, set, o)
	}); err != nil {
		return err
	}

	e.logger.Info("preview export completed", zap.String("file", filename))

	return nil
}
