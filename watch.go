package tilescreen

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchDelay is how long a watched file must be left alone after a change
// before it is exported again.
var WatchDelay = 250 * time.Millisecond

type watcher struct {
	watcher *fsnotify.Watcher
	file    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// newWatcher watches the directory holding file rather than file itself as
// editors commonly save by replacing the file.
func newWatcher(file string) (*watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(filepath.Dir(file)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &watcher{
		watcher: w,
		file:    file,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

// Watch calls fn every time file changes until ctx is done. Errors
// returned by fn are logged and watching carries on.
func (e *Exporter) Watch(ctx context.Context, file string, fn func() error) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	w, err := newWatcher(abs)
	if err != nil {
		return err
	}
	defer w.Close()

	e.logger.Info("watching map", zap.String("file", abs))

	timer := time.NewTimer(WatchDelay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-w.Events:
			timer.Reset(WatchDelay)
		case <-timer.C:
			e.logger.Info("map changed, exporting", zap.String("file", abs))
			if err := fn(); err != nil {
				e.logger.Error("export failed", zap.String("file", abs), zap.Error(err))
			}
		case err := <-w.Errors:
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
