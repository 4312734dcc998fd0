// Package watcher reruns the build whenever the source document changes.
//
// Overlapping triggers supersede each other: a change arriving while a pass
// is still running cancels that pass's context (which kills its compiler
// subprocesses) and a single fresh pass starts once it drains. At most one
// pending pass is queued, so a burst of editor events collapses into one
// rebuild.
package watcher

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/slidekit/spv/internal/logger"
)

// Watch runs one initial pass, then watches source's directory and reruns
// run on every change to the source file. It blocks until ctx is done.
func Watch(ctx context.Context, source string, run func(ctx context.Context) error, log *logger.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(source)); err != nil {
		return err
	}

	triggers := make(chan struct{}, 1)

	var mu sync.Mutex
	var cancelPass context.CancelFunc

	// Single pass runner; passes never overlap.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-triggers:
			}

			passCtx, cancel := context.WithCancel(ctx)
			mu.Lock()
			cancelPass = cancel
			mu.Unlock()

			if err := run(passCtx); err != nil && passCtx.Err() == nil {
				log.Errorf("Build failed: %v", err)
			}
			cancel()

			mu.Lock()
			cancelPass = nil
			mu.Unlock()

			if ctx.Err() == nil {
				log.Infof("Ready")
			}
		}
	}()

	triggers <- struct{}{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !matchesSource(event, source) {
				continue
			}

			mu.Lock()
			if cancelPass != nil {
				cancelPass()
			}
			mu.Unlock()

			select {
			case triggers <- struct{}{}:
			default:
				// a pass is already queued
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.Warnf("Watcher error: %v", err)
		}
	}
}

// matchesSource reports whether a filesystem event concerns the watched
// source file. Editors commonly save via rename, so create and rename
// events count alongside plain writes.
func matchesSource(event fsnotify.Event, source string) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	return filepath.Base(event.Name) == filepath.Base(source)
}
