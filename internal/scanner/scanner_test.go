package scanner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFiles(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		opts     FilterOptions
		expected []string
	}{
		{
			name:  "exclude node_modules",
			paths: []string{"a.js", "node_modules/bad.js", "src/good.js"},
			opts: FilterOptions{
				ExcludeDirs: []string{"node_modules"},
			},
			expected: []string{"a.js", "src/good.js"},
		},
		{
			name:  "exclude nested dist",
			paths: []string{"dist/a.js", "pkg/dist/b.js", "src/c.js"},
			opts: FilterOptions{
				ExcludeDirs: []string{"dist"},
			},
			expected: []string{"src/c.js"},
		},
		{
			name:  "segment matching only",
			paths: []string{"distance/a.js", "mydist/b.js"},
			opts: FilterOptions{
				ExcludeDirs: []string{"dist"},
			},
			expected: []string{"distance/a.js", "mydist/b.js"},
		},
		{
			name:  "extension filter",
			paths: []string{"a.js", "b.md", "c.jsx"},
			opts: FilterOptions{
				IncludeExtensions: []string{".js", ".jsx"},
			},
			expected: []string{"a.js", "c.jsx"},
		},
		{
			name:  "generated shells are skipped",
			paths: []string{"src/Widget.js", "src/Widget.spec.jsx", "src/util.test.js"},
			opts: FilterOptions{
				IncludeExtensions: []string{".js", ".jsx"},
				ExcludeSuffixes:   DefaultExcludeSuffixes(),
			},
			expected: []string{"src/Widget.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFiles(tt.paths, tt.opts)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func defaultOpts() FilterOptions {
	return FilterOptions{
		ExcludeDirs:       []string{"node_modules", "dist"},
		IncludeExtensions: []string{".js", ".jsx"},
		ExcludeSuffixes:   DefaultExcludeSuffixes(),
	}
}

func TestScanner_Tracked(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	ctx := context.Background()

	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	createFile(t, dir, "src/Widget.js")
	createFile(t, dir, "src/Widget.spec.jsx")
	createFile(t, dir, "node_modules/react/index.js")
	createFile(t, dir, ".gitignore", "ignored.js\n")
	createFile(t, dir, "ignored.js")
	createFile(t, dir, "lib/util.jsx")

	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	s := New(dir)

	tracked, err := s.TrackedFiles(ctx)
	require.NoError(t, err)
	assert.Contains(t, tracked, "src/Widget.js")
	assert.NotContains(t, tracked, "ignored.js")

	sources, err := s.Sources(ctx, defaultOpts(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/util.jsx", "src/Widget.js"}, sources)
}

func TestScanner_WalkFiles(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "src/Widget.js")
	createFile(t, dir, "src/Widget.spec.jsx")
	createFile(t, dir, "node_modules/react/index.js")
	createFile(t, dir, "dist/bundle.js")
	createFile(t, dir, "README.md")

	s := New(dir)
	got, err := s.WalkFiles(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Widget.js"}, got)
}

func TestScanner_SourcesFallsBackWithoutGit(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "Widget.jsx")

	got, err := New(dir).Sources(context.Background(), defaultOpts(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Widget.jsx"}, got)
}

func TestScanner_WalkCancelled(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "Widget.js")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(dir).WalkFiles(ctx, defaultOpts())
	assert.ErrorIs(t, err, context.Canceled)
}

func runGit(t *testing.T, dir string, args ...string) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}

func createFile(t *testing.T, dir, path string, content ...string) {
	fullPath := filepath.Join(dir, path)
	err := os.MkdirAll(filepath.Dir(fullPath), 0755)
	require.NoError(t, err)

	data := ""
	if len(content) > 0 {
		data = content[0]
	}
	err = os.WriteFile(fullPath, []byte(data), 0644)
	require.NoError(t, err)
}
