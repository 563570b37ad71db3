package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch re-runs RunAll whenever one of paths is written or replaced. Bursts
// of events within debounce collapse into a single run. Run errors are
// logged and watching continues. It returns when ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, paths []string, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Directories are watched so atomic saves, which replace the file, are seen.
	targets := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return err
		}
	}
	r.log.Infof("watching %d files (debounce %s)", len(targets), debounce)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[abs]; !ok {
				continue
			}
			r.log.Debugf("change detected: %s", event)
			timer.Reset(debounce)

		case <-timer.C:
			if _, err := r.RunAll(ctx); err != nil {
				r.log.Warnf("watch run failed, waiting for next change: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Errorf("watcher error: %v", err)
		}
	}
}
