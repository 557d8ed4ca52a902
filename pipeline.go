package tilescreen

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/bodgit/tilescreen/screen"
	"go.uber.org/zap"
)

var errCancelled = errors.New("export cancelled")

func (e *Exporter) emitScreens(ctx context.Context, set *screen.Set) (<-chan *screen.Screen, <-chan error) {
	out := make(chan *screen.Screen)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, s := range set.Screens {
			select {
			case out <- s:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
		}
	}()
	return out, errc
}

func (e *Exporter) screenWorker(ctx context.Context, base string, in <-chan *screen.Screen) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for s := range in {
			if ctx.Err() != nil {
				continue
			}

			file := screen.Filename(base, s.Index)
			if err := writeFile(file, func(w io.Writer) error {
				return screen.Encode(w, s)
			}); err != nil {
				errc <- err
				return
			}

			e.logger.Debug("exported screen", zap.Int("screen", s.Index), zap.String("file", file))

			if e.progress != nil {
				e.progress()
			}
		}
	}()
	return errc
}

func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	var first error
	for err := range errc {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (e *Exporter) writeScreens(ctx context.Context, set *screen.Set, base string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var errcList []<-chan error

	screens, errc := e.emitScreens(ctx, set)
	errcList = append(errcList, errc)

	for i := 0; i < e.workers; i++ {
		errcList = append(errcList, e.screenWorker(ctx, base, screens))
	}

	return waitForPipeline(cancel, errcList...)
}
