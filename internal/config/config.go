// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the project configuration from .jestspeck.yaml.
// A missing file yields the defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/jestspeck/internal/shell"
	"github.com/bartekus/jestspeck/internal/templates"
)

// FileName is the configuration file looked up in the project root.
const FileName = ".jestspeck.yaml"

// Config is the project configuration.
type Config struct {
	// Location is "base" to co-locate shells with sources, or a directory.
	Location string `yaml:"location"`
	// RootHint is the directory name the header's lib path climbs to.
	RootHint string `yaml:"root_hint"`
	// Extensions selects source files by suffix.
	Extensions []string `yaml:"extensions"`
	// ExcludeDirs are path segments never scanned.
	ExcludeDirs []string `yaml:"exclude_dirs"`
	// Sections lists auxiliary sections for new shells.
	Sections []string `yaml:"sections"`
	// TemplatesDir holds <name>.stub overrides.
	TemplatesDir string `yaml:"templates_dir"`
	// StateDir stores sweep results, relative to the project root.
	StateDir string `yaml:"state_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Location:    shell.CoLocate,
		RootHint:    shell.DefaultRootHint,
		Extensions:  []string{".js", ".jsx"},
		ExcludeDirs: DefaultExcludeDirs(),
		Sections:    templates.DefaultSections(),
		StateDir:    filepath.Join(".jestspeck", "run"),
	}
}

// DefaultExcludeDirs returns directories skipped while scanning for sources.
func DefaultExcludeDirs() []string {
	return []string{
		"node_modules",
		".git",
		"dist",
		"build",
		"coverage",
		"vendor",
		".jestspeck",
	}
}

// Load reads dir/.jestspeck.yaml over the defaults.
func Load(dir string) (Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if len(c.Extensions) == 0 {
		return errors.New("extensions must not be empty")
	}
	for _, s := range c.Sections {
		if !templates.IsSection(s) {
			return fmt.Errorf("unknown section %q", s)
		}
	}
	return nil
}

// Templates loads the template set, honoring TemplatesDir relative to root.
func (c Config) Templates(root string) (*templates.Set, error) {
	if c.TemplatesDir == "" {
		return templates.Default(), nil
	}
	return templates.Load(c.resolve(root, c.TemplatesDir))
}

// Engine builds a shell engine. A relative Location is resolved against root.
func (c Config) Engine(root string) (*shell.Engine, error) {
	tmpl, err := c.Templates(root)
	if err != nil {
		return nil, err
	}
	location := c.Location
	if location != "" && location != shell.CoLocate {
		location = c.resolve(root, location)
	}
	sections := c.Sections
	if sections == nil {
		sections = []string{}
	}
	return shell.New(shell.Config{
		Location:  location,
		RootHint:  c.RootHint,
		Root:      root,
		Sections:  sections,
		Templates: tmpl,
	})
}

// StatePath returns StateDir resolved against root.
func (c Config) StatePath(root string) string {
	return c.resolve(root, c.StateDir)
}

func (c Config) resolve(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
