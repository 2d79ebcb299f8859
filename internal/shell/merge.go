// SPDX-License-Identifier: AGPL-3.0-or-later
package shell

import (
	"fmt"
	"path/filepath"
	"strings"
)

// StripClosing removes the closing line of an existing shell.
// When the file ends with a newline the last two lines (the closing line and
// the empty remainder) are dropped; otherwise only the last line is.
func StripClosing(code string) string {
	lines := strings.Split(code, "\n")
	end := len(lines) - 1

	keep := end
	if lines[end] == "" {
		keep = end - 1
	}
	if keep < 0 {
		keep = 0
	}
	return strings.Join(lines[:keep], "\n")
}

// Missing returns the titles that do not occur anywhere in body, in order
// and without repeats. Matching is a case-sensitive substring test, so a
// title contained in unrelated text counts as present.
func Missing(body string, titles []string) []string {
	var out []string
	seen := make(map[string]bool, len(titles))
	for _, title := range titles {
		if seen[title] || strings.Contains(body, title) {
			continue
		}
		seen[title] = true
		out = append(out, title)
	}
	return out
}

func unique(titles []string) []string {
	out := make([]string, 0, len(titles))
	seen := make(map[string]bool, len(titles))
	for _, title := range titles {
		if seen[title] {
			continue
		}
		seen[title] = true
		out = append(out, title)
	}
	return out
}

// RelativeImport returns the import path of source as seen from outDir,
// using forward slashes and a "./" prefix unless it starts with "..".
func RelativeImport(outDir, source string) (string, error) {
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", outDir, err)
	}
	absSrc, err := filepath.Abs(filepath.Dir(source))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", source, err)
	}
	rel, err := filepath.Rel(absOut, absSrc)
	if err != nil {
		return "", fmt.Errorf("relating %s to %s: %w", source, outDir, err)
	}

	p := filepath.ToSlash(filepath.Join(rel, filepath.Base(source)))
	if strings.Split(p, "/")[0] == ".." {
		return p, nil
	}
	return "./" + p, nil
}

// RelativeLibPath returns one "../" per directory between source and the
// nearest enclosing directory named hint. Without such a directory it climbs
// every segment of the source's directory, so callers pass root-relative
// paths to stay inside the project.
func RelativeLibPath(source, hint string) string {
	dir := filepath.ToSlash(filepath.Dir(source))
	segments := strings.Split(dir, "/")

	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || seg == "." {
			continue
		}
		if seg == hint {
			break
		}
		b.WriteString("../")
	}
	return b.String()
}
