package scanner

import (
	"path"
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding files.
type FilterOptions struct {
	// ExcludeDirs is a list of directory names to exclude.
	// Matching is segment-aware: "dist" excludes "dist/a.js" and "pkg/dist/b.js",
	// but not "distance/a.js".
	ExcludeDirs []string

	// IncludeExtensions is a list of extensions to include (e.g., ".js").
	// If empty, all extensions are included.
	IncludeExtensions []string

	// ExcludeSuffixes drops files whose name ends with any suffix, such as
	// generated ".spec.jsx" shells.
	ExcludeSuffixes []string
}

// DefaultExcludeSuffixes returns name suffixes of test files that never get shells.
func DefaultExcludeSuffixes() []string {
	return []string{".spec.js", ".spec.jsx", ".test.js", ".test.jsx"}
}

// FilterFiles applies the filter options to a list of slash-separated paths.
// It returns a new slice of strings, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}

	var filtered []string
	for _, p := range paths {
		if Match(p, opts) {
			filtered = append(filtered, p)
		}
	}

	sort.Strings(filtered)
	return filtered
}

// Match reports whether a single slash-separated path passes opts.
func Match(p string, opts FilterOptions) bool {
	if shouldExclude(path.Dir(p), opts.ExcludeDirs) {
		return false
	}
	if hasSuffix(path.Base(p), opts.ExcludeSuffixes) {
		return false
	}
	return len(opts.IncludeExtensions) == 0 || hasSuffix(p, opts.IncludeExtensions)
}

// shouldExclude returns true if the directory contains any of the excluded segments.
func shouldExclude(dir string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}
	for _, part := range strings.Split(dir, "/") {
		if isExcludedDir(part, excludes) {
			return true
		}
	}
	return false
}

func isExcludedDir(name string, excludes []string) bool {
	for _, exclude := range excludes {
		if name == exclude {
			return true
		}
	}
	return false
}

func hasSuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
