package searchterm

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recdex/internal/domain/search/term"
)

// Watched serves a YAML catalog file and swaps in a new version whenever
// the file changes on disk. A file that fails to parse leaves the previous
// catalog in place.
type Watched struct {
	path    string
	current atomic.Pointer[File]
	logger  *zap.Logger
}

// NewWatched loads path. Call Run to start following changes.
func NewWatched(path string, logger *zap.Logger) (*Watched, error) {
	w := &Watched{path: filepath.Clean(path), logger: logger}
	if err := w.reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// SearchTerm resolves name against the current catalog.
func (w *Watched) SearchTerm(ctx context.Context, name string) (term.Definition, error) {
	return w.current.Load().SearchTerm(ctx, name)
}

// IndexTerm resolves id against the current catalog.
func (w *Watched) IndexTerm(ctx context.Context, id string) (term.IndexTerm, error) {
	return w.current.Load().IndexTerm(ctx, id)
}

// Ping always succeeds once the first load succeeded.
func (w *Watched) Ping(context.Context) error { return nil }

// Run watches the catalog's directory until ctx is cancelled. Editors
// often replace files instead of writing them, so the directory is watched
// rather than the file.
func (w *Watched) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("Watching term catalog", zap.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if err := w.reload(); err != nil {
				w.logger.Warn("Term catalog reload failed, keeping previous version",
					zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.logger.Info("Term catalog reloaded", zap.String("path", w.path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Term catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watched) reload() error {
	f, err := LoadFile(w.path)
	if err != nil {
		return err
	}
	if c := f.Catalog(); len(c.SearchTerms) == 0 && len(c.IndexTerms) == 0 {
		return fmt.Errorf("term catalog %s is empty", w.path)
	}
	w.current.Store(f)
	return nil
}
