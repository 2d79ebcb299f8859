// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the root of the project being scaffolded.
package projectroot

import (
	"fmt"
	"os"
	"path/filepath"
)

// Markers identify a project root, checked in order in each directory.
var Markers = []string{".jestspeck.yaml", "package.json", ".git"}

// Find walks upwards from start until a directory holding one of Markers is
// found. When none is, the absolute start directory is returned.
func Find(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for dir := abs; ; {
		for _, m := range Markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}
