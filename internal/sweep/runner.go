// Package sweep runs the shell engine over many source files in sequence.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bartekus/jestspeck/internal/logging"
	"github.com/bartekus/jestspeck/internal/shell"
	"github.com/bartekus/jestspeck/internal/speck"
)

// ErrFilesFailed is wrapped by Run when at least one file failed.
var ErrFilesFailed = errors.New("one or more files failed")

// Runner processes files one after another, capturing per-file errors.
type Runner struct {
	root     string
	engine   *shell.Engine
	store    *StateStore
	progress logging.Logger
	log      *zap.Logger
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress sets the logger handed to the engine for every file.
func WithProgress(l logging.Logger) Option {
	return func(r *Runner) { r.progress = l }
}

// WithZap sets the diagnostic logger.
func WithZap(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner creates a runner for files below root. store may be nil to skip
// persisting results.
func NewRunner(root string, engine *shell.Engine, store *StateStore, opts ...Option) *Runner {
	r := &Runner{
		root:     root,
		engine:   engine,
		store:    store,
		progress: logging.Console{},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes files (relative to root or absolute) in order.
// It continues past failures and returns an error wrapping ErrFilesFailed if any failed.
func (r *Runner) Run(ctx context.Context, files []string) (*LastRun, error) {
	last := &LastRun{
		RunID:     uuid.NewString(),
		Status:    "pass",
		Root:      r.root,
		StartedAt: r.now().UTC(),
		Files:     make([]FileResult, 0, len(files)),
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := r.processFile(file)
		r.log.Debug("processed source",
			zap.String("run", last.RunID),
			zap.String("file", res.File),
			zap.String("status", string(res.Status)),
			zap.Int("added", res.Added))

		last.Files = append(last.Files, res)
		if res.Status == StatusFailed {
			last.Failed = append(last.Failed, res.File)
			last.Status = "fail"
		}
	}

	if r.store != nil {
		if err := r.store.WriteLastRun(*last); err != nil {
			return last, fmt.Errorf("writing last run: %w", err)
		}
	}

	if len(last.Failed) > 0 {
		return last, fmt.Errorf("%w: %d of %d", ErrFilesFailed, len(last.Failed), len(files))
	}
	return last, nil
}

// Resume re-processes only the files that failed in the last stored run.
// With nothing to resume it returns a nil run.
func (r *Runner) Resume(ctx context.Context) (*LastRun, error) {
	if r.store == nil {
		return nil, errors.New("resume requires a state store")
	}
	failed, err := r.store.LoadFailedFiles()
	if err != nil {
		return nil, fmt.Errorf("loading failed files: %w", err)
	}
	if len(failed) == 0 {
		return nil, nil
	}
	return r.Run(ctx, failed)
}

func (r *Runner) processFile(file string) FileResult {
	res := FileResult{File: file}

	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}

	doc, err := speck.ExtractFile(path)
	if errors.Is(err, speck.ErrNoBlock) {
		res.Status = StatusSkipped
		res.Note = "no speck block"
		return res
	}
	if err != nil {
		res.Status = StatusFailed
		res.Note = err.Error()
		return res
	}

	out, err := r.engine.Generate(r.progress, path, doc)
	if err != nil {
		res.Status = StatusFailed
		res.Note = err.Error()
		return res
	}

	res.Added = len(out.Added)
	if out.Path != "" {
		res.Output = r.rel(out.Path)
	}
	switch out.Mode {
	case shell.ModeCreated:
		res.Status = StatusCreated
	case shell.ModeAppended:
		res.Status = StatusAppended
	case shell.ModeUnchanged:
		res.Status = StatusUnchanged
	default:
		res.Status = StatusSkipped
		res.Note = "no name or interactions"
	}
	return res
}

func (r *Runner) rel(p string) string {
	absRoot, err := filepath.Abs(r.root)
	if err != nil {
		return p
	}
	absP, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(absRoot, absP)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
