// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell creates and incrementally extends Jest test shells.
//
// A shell is created once with a header, auxiliary sections, one pending
// stub per interaction and a closing line. Later runs only strip the closing
// line, append stubs for interactions not yet present and close the file
// again, so hand-written test bodies are never touched.
package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartekus/jestspeck/internal/interactions"
	"github.com/bartekus/jestspeck/internal/logging"
	"github.com/bartekus/jestspeck/internal/projection"
	"github.com/bartekus/jestspeck/internal/speck"
	"github.com/bartekus/jestspeck/internal/templates"
)

const (
	// Suffix is appended to the source stem to name its shell.
	Suffix = ".spec.jsx"

	// CoLocate places each shell next to its source file.
	CoLocate = "base"

	// DefaultRootHint is the directory name RelativeLibPath climbs to.
	DefaultRootHint = "lib"
)

// Mode is what Generate did to the shell file.
type Mode string

const (
	ModeSkipped   Mode = "skipped"
	ModeCreated   Mode = "created"
	ModeAppended  Mode = "appended"
	ModeUnchanged Mode = "unchanged"
)

// Result describes one Generate call. Content is empty unless a file was written.
type Result struct {
	Mode    Mode
	Path    string
	Content string
	Added   []string
}

// Config is fixed for the lifetime of an Engine.
type Config struct {
	// Location is CoLocate (or empty) or a directory receiving every shell flat.
	Location string
	// RootHint is the directory name used to compute RelativeLibPath.
	RootHint string
	// Root bounds RelativeLibPath for sources below it. Empty means unbounded.
	Root string
	// Sections lists auxiliary sections for new shells. Nil means the defaults.
	Sections []string
	// Templates defaults to the embedded set.
	Templates *templates.Set
}

// Engine generates shells. Calls targeting the same output path must be serialized.
type Engine struct {
	location string
	rootHint string
	root     string
	sections []string
	tmpl     *templates.Set
}

// New validates cfg and returns an Engine.
func New(cfg Config) (*Engine, error) {
	e := &Engine{
		location: cfg.Location,
		rootHint: cfg.RootHint,
		sections: cfg.Sections,
		tmpl:     cfg.Templates,
	}
	if e.location == "" {
		e.location = CoLocate
	}
	if e.rootHint == "" {
		e.rootHint = DefaultRootHint
	}
	if cfg.Root != "" {
		root, err := filepath.Abs(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("resolving root %s: %w", cfg.Root, err)
		}
		e.root = root
	}
	if e.sections == nil {
		e.sections = templates.DefaultSections()
	}
	for _, s := range e.sections {
		if !templates.IsSection(s) {
			return nil, fmt.Errorf("unknown section %q", s)
		}
	}
	if e.tmpl == nil {
		e.tmpl = templates.Default()
	}
	return e, nil
}

// Location returns the configured output location.
func (e *Engine) Location() string { return e.location }

// Stem strips the extension from source, keeping its directory.
func Stem(source string) string {
	base := filepath.Base(source)
	return filepath.Join(filepath.Dir(source), strings.TrimSuffix(base, filepath.Ext(base)))
}

// OutputPath returns where the shell for source lives.
func (e *Engine) OutputPath(source string) string {
	stem := Stem(source)
	if e.location == CoLocate {
		return stem + Suffix
	}
	return filepath.Join(e.location, filepath.Base(stem)+Suffix)
}

// Generate creates or extends the shell for source. A doc with neither name
// nor interactions is skipped without side effects. A nil logger is replaced
// by a console logger for the duration of the call.
func (e *Engine) Generate(l logging.Logger, source string, doc speck.Doc) (Result, error) {
	if doc.Empty() {
		return Result{Mode: ModeSkipped}, nil
	}
	l = logging.OrDefault(l)
	l.Log(fmt.Sprintf("Generating test file for %s.", doc.Name))

	titles, err := interactions.NormalizeAll(doc.Interactions)
	if err != nil {
		return Result{}, err
	}

	out := e.OutputPath(source)
	exists, err := regularFileExists(out)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return e.create(l, source, out, doc.Name, titles)
	}
	return e.appendTo(l, out, titles)
}

// underRoot returns source relative to the engine root, so the lib path never
// climbs above it. Sources outside the root are returned unchanged.
func (e *Engine) underRoot(source string) string {
	if e.root == "" {
		return source
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return source
	}
	rel, err := filepath.Rel(e.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return source
	}
	return rel
}

// regularFileExists treats not-found and non-regular entries as absent.
// Any other stat failure is returned.
func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

func (e *Engine) create(l logging.Logger, source, out, name string, titles []string) (Result, error) {
	l.Log(fmt.Sprintf("Writing new test file %s", out))
	l.Skip()

	rel, err := RelativeImport(filepath.Dir(out), source)
	if err != nil {
		return Result{}, err
	}

	header, err := e.tmpl.Header(templates.HeaderData{
		Name:            name,
		ClassName:       name,
		RelativePath:    rel,
		RelativeLibPath: RelativeLibPath(e.underRoot(source), e.rootHint),
	})
	if err != nil {
		return Result{}, err
	}

	blocks := []string{header}
	for _, s := range e.sections {
		section, err := e.tmpl.Section(s, name)
		if err != nil {
			return Result{}, err
		}
		blocks = append(blocks, section)
	}

	added := unique(titles)
	stubs, err := e.stubs(added)
	if err != nil {
		return Result{}, err
	}
	blocks = append(blocks, stubs...)

	closing, err := e.tmpl.Closing()
	if err != nil {
		return Result{}, err
	}
	blocks = append(blocks, closing)

	content := strings.Join(blocks, "\n")
	if err := e.write(l, out, content, 0o644); err != nil {
		return Result{}, err
	}
	return Result{Mode: ModeCreated, Path: out, Content: content, Added: added}, nil
}

func (e *Engine) appendTo(l logging.Logger, out string, titles []string) (Result, error) {
	l.Log(fmt.Sprintf("Appending to test file %s", out))
	l.Skip()

	info, err := os.Stat(out)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", out, err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", out, err)
	}

	body := StripClosing(string(raw))
	added := Missing(body, titles)
	if len(added) == 0 {
		return Result{Mode: ModeUnchanged, Path: out}, nil
	}

	stubs, err := e.stubs(added)
	if err != nil {
		return Result{}, err
	}
	closing, err := e.tmpl.Closing()
	if err != nil {
		return Result{}, err
	}

	blocks := append([]string{body}, stubs...)
	blocks = append(blocks, closing)

	content := strings.Join(blocks, "\n")
	if err := e.write(l, out, content, info.Mode().Perm()); err != nil {
		return Result{}, err
	}
	return Result{Mode: ModeAppended, Path: out, Content: content, Added: added}, nil
}

func (e *Engine) stubs(titles []string) ([]string, error) {
	out := make([]string, 0, len(titles))
	for _, title := range titles {
		stub, err := e.tmpl.Stub(title)
		if err != nil {
			return nil, err
		}
		out = append(out, stub)
	}
	return out, nil
}

func (e *Engine) write(l logging.Logger, out, content string, perm fs.FileMode) error {
	l.Write(out)

	if e.location != CoLocate {
		if err := projection.EnsureDir(filepath.Dir(out)); err != nil {
			return err
		}
	}
	if err := projection.AtomicWrite(out, []byte(content), perm); err != nil {
		return err
	}

	l.Pass()
	return nil
}
