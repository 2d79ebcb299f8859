package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Scanner enumerates candidate source files below a project root.
type Scanner struct {
	root string

	mu           sync.Mutex
	trackedCache []string
}

// New creates a new Scanner for the given project root.
func New(root string) *Scanner {
	return &Scanner{
		root: root,
	}
}

// TrackedFiles returns all files tracked by git, caching the result for the instance lifetime.
// It respects .gitignore implicitly by asking git.
func (s *Scanner) TrackedFiles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trackedCache != nil {
		return s.trackedCache, nil
	}

	// git ls-files -z to avoid escaping issues
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = s.root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	if len(out) == 0 {
		s.trackedCache = []string{}
		return s.trackedCache, nil
	}

	sOut := strings.TrimSuffix(string(out), "\x00")
	s.trackedCache = strings.Split(sOut, "\x00")
	return s.trackedCache, nil
}

// WalkFiles lists files on disk, pruning excluded directories early.
// Paths are slash-separated and relative to the root.
func (s *Scanner) WalkFiles(ctx context.Context, opts FilterOptions) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.root && isExcludedDir(d.Name(), opts.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.root, err)
	}
	return FilterFiles(files, opts), nil
}

// TrackedFilesFiltered returns tracked files matching the filter options.
func (s *Scanner) TrackedFilesFiltered(ctx context.Context, opts FilterOptions) ([]string, error) {
	all, err := s.TrackedFiles(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFiles(all, opts), nil
}

// Sources returns matching files, preferring git's view of the tree and
// falling back to a filesystem walk when useGit is false or git fails.
// Cancellation is never masked by the fallback.
func (s *Scanner) Sources(ctx context.Context, opts FilterOptions, useGit bool) ([]string, error) {
	if useGit {
		files, err := s.TrackedFilesFiltered(ctx, opts)
		if err == nil {
			return files, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return s.WalkFiles(ctx, opts)
}
