// Package watch runs a callback when watched files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is the quiet period after the last change before the
// callback runs.
const DefaultDelay = 100 * time.Millisecond

// Files watches the given files and calls onChange once per burst of
// writes. Parent directories are watched so that editors replacing a file
// by rename are noticed. Callback errors are logged and do not stop the
// watch. Files returns nil when ctx is done.
func Files(ctx context.Context, files []string, delay time.Duration, log *zap.Logger, onChange func(context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		log.Debug("watching directory", zap.String("dir", dir))
	}

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug("file changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			timer.Reset(delay)
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				log.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}
