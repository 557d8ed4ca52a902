package tilescreen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bodgit/tilescreen/partition"
	"github.com/bodgit/tilescreen/screen"
	"github.com/bodgit/tilescreen/tmx"
	"go.uber.org/zap"
)

var (
	// ErrNoTileData is returned when the map holds no tiles to verify
	// against.
	ErrNoTileData = errors.New("map has no chunk or tile data")
	// ErrNoScreens is returned when no screen files are found.
	ErrNoScreens = errors.New("no exported screen files found")
)

// SizeError records a screen file whose length does not match the screen
// geometry.
type SizeError struct {
	File string
	Got  int
	Want int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: File size %d does not match expected %d", e.File, e.Got, e.Want)
}

// MismatchError records the first tile of a screen file that differs from
// the map.
type MismatchError struct {
	File   string
	Local  image.Point
	Global image.Point
	Got    int
	Want   int
}

// OffByOne reports whether the stored tile is one less than the map GID,
// which is what a tileset local id looks like for a tileset starting at
// GID 1.
func (e *MismatchError) OffByOne() bool {
	return e.Want != 0 && e.Got == e.Want-1
}

func (e *MismatchError) Error() string {
	s := fmt.Sprintf("%s at local(%d,%d) global(%d,%d): Value %d != Expected %d", e.File, e.Local.X, e.Local.Y, e.Global.X, e.Global.Y, e.Got, e.Want)
	if e.OffByOne() {
		s += ". (Looks like GID-1?)"
	}
	return s
}

// FileResult is the outcome of verifying one screen file.
type FileResult struct {
	File  string
	Index int
	Err   error
}

// Report is the outcome of verifying every screen file of an export.
type Report struct {
	Layout partition.Layout
	Min    image.Point
	Max    image.Point
	Files  []FileResult
}

// Passed reports whether every file matched.
func (r *Report) Passed() bool {
	for _, f := range r.Files {
		if f.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the results of the files that did not match.
func (r *Report) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// WriteTo writes a PASS or FAIL line per file followed by the overall
// status line.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, f := range r.Files {
		if f.Err != nil {
			fmt.Fprintf(&b, "[FAIL] %v\n", f.Err)
		} else {
			fmt.Fprintf(&b, "[PASS] %s verified.\n", f.File)
		}
	}
	if r.Passed() {
		b.WriteString("TYPE: SUCCESS. All binary files match TMX data.\n")
	} else {
		b.WriteString("TYPE: FAILURE. Some files did not match.\n")
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func findScreens(dir, base string) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []FileResult
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, base+"_") || !strings.HasSuffix(name, screen.Extension) {
			continue
		}
		index, ok := screen.ParseIndex(name)
		if !ok || name != screen.Filename(base, index) {
			continue
		}
		files = append(files, FileResult{File: name, Index: index})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Index < files[j].Index })

	return files, nil
}

func verifyScreen(layout partition.Layout, sparse *screen.Sparse, name string, index int, b []byte) error {
	s, err := screen.Decode(bytes.NewReader(b), layout.ScreenWidth, layout.ScreenHeight)
	switch {
	case errors.Is(err, screen.ErrNotEnough), errors.Is(err, screen.ErrTooMuch):
		return &SizeError{File: name, Got: len(b), Want: layout.ScreenLength()}
	case err != nil:
		return err
	}

	for ly := 0; ly < s.Height; ly++ {
		for lx := 0; lx < s.Width; lx++ {
			gx, gy := layout.Global(index, lx, ly)
			if got, want := s.At(lx, ly), sparse.Get(gx, gy); got != want {
				return &MismatchError{
					File:   name,
					Local:  image.Pt(lx, ly),
					Global: image.Pt(gx, gy),
					Got:    got,
					Want:   want,
				}
			}
		}
	}

	return nil
}

// Verify checks the screen files <base>_<index>.bin in dir against the
// cells of the TMX map in mapFile. A file of the wrong size or with a tile
// that differs from the map fails without stopping the run; only the first
// differing tile of each file is reported.
func (e *Exporter) Verify(mapFile, dir, base string) (*Report, error) {
	m, err := tmx.Open(mapFile)
	if err != nil {
		return nil, err
	}

	w, h, err := m.ScreenSize()
	if err != nil {
		return nil, err
	}
	e.logger.Info("expected screen size", zap.Int("screenWidth", w), zap.Int("screenHeight", h))

	sparse := m.Sparse()
	lo, hi, ok := sparse.Extent()
	if !ok {
		return nil, ErrNoTileData
	}
	e.logger.Info("map bounds",
		zap.Int("minX", lo.X), zap.Int("maxX", hi.X),
		zap.Int("minY", lo.Y), zap.Int("maxY", hi.Y))
	if lo.X < 0 || lo.Y < 0 {
		e.logger.Warn("map has tiles at negative coordinates which are never exported",
			zap.Int("minX", lo.X), zap.Int("minY", lo.Y))
	}

	layout, err := partition.New(w, h, max(0, hi.X), max(0, hi.Y))
	if err != nil {
		return nil, err
	}
	e.logger.Info("calculated screens per row", zap.Int("screensPerRow", layout.ScreensPerRow()))

	files, err := findScreens(dir, base)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoScreens, filepath.Join(dir, base+"_*"+screen.Extension))
	}
	e.logger.Info("verifying screen files", zap.Int("files", len(files)))

	report := &Report{
		Layout: layout,
		Min:    lo,
		Max:    hi,
		Files:  files,
	}

	for i := range report.Files {
		f := &report.Files[i]
		b, err := os.ReadFile(filepath.Join(dir, f.File))
		if err != nil {
			f.Err = err
			continue
		}
		f.Err = verifyScreen(layout, sparse, f.File, f.Index, b)
		if f.Err != nil {
			e.logger.Debug("screen file failed", zap.String("file", f.File), zap.Error(f.Err))
		}
	}

	return report, nil
}
