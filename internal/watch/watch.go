// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch regenerates test shells when source files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/bartekus/jestspeck/internal/scanner"
)

// DefaultDebounce collapses bursts of events from editors saving a file.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called with the root-relative, slash-separated path of a changed source.
type Handler func(ctx context.Context, rel string)

// Watcher watches a source tree. Handler calls are sequential.
type Watcher struct {
	root     string
	opts     scanner.FilterOptions
	handler  Handler
	debounce time.Duration
	log      *zap.Logger

	fsw     *fsnotify.Watcher
	pending map[string]time.Time
}

// New starts watching every non-excluded directory below root.
func New(root string, opts scanner.FilterOptions, handler Handler, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		opts:     opts,
		handler:  handler,
		debounce: DefaultDebounce,
		log:      log,
		fsw:      fsw,
		pending:  make(map[string]time.Time),
	}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce changes the quiet period before a change is handled.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.excluded(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) excluded(name string) bool {
	for _, ex := range w.opts.ExcludeDirs {
		if name == ex {
			return true
		}
	}
	return false
}

// Run dispatches changes until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	tick := time.NewTicker(w.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.event(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("watch event overflow", zap.Error(err))
				continue
			}
			return fmt.Errorf("watching %s: %w", w.root, err)
		case now := <-tick.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) event(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.log.Warn("watching new directory", zap.String("dir", ev.Name), zap.Error(err))
			}
			return
		}
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if !scanner.Match(rel, w.opts) {
		return
	}
	w.pending[rel] = time.Now()
}

func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for rel, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, rel)
		}
	}
	sort.Strings(ready)
	for _, rel := range ready {
		delete(w.pending, rel)
		w.log.Debug("source changed", zap.String("file", rel))
		w.handler(ctx, rel)
	}
}
