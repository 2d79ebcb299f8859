// SPDX-License-Identifier: AGPL-3.0-or-later

// Package templates renders the blocks that make up a Jest test shell.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed stubs/*.stub
var stubs embed.FS

// Template names. Each maps to a <name>.stub file.
const (
	Header  = "describe-shell-start"
	Stub    = "it-shell"
	Closing = "describe-shell-end"

	SectionRender        = "render"
	SectionSubcomponents = "subcomponents"
	SectionDefaultProps  = "default-props"
	SectionPropTypes     = "prop-types"
)

// DefaultSections lists the auxiliary sections emitted for a new shell, in order.
func DefaultSections() []string {
	return []string{SectionRender, SectionSubcomponents, SectionDefaultProps, SectionPropTypes}
}

// IsSection reports whether name is a known auxiliary section.
func IsSection(name string) bool {
	switch name {
	case SectionRender, SectionSubcomponents, SectionDefaultProps, SectionPropTypes:
		return true
	}
	return false
}

func names() []string {
	return append([]string{Header, Stub, Closing}, DefaultSections()...)
}

// HeaderData parameterizes the opening block.
type HeaderData struct {
	Name            string
	ClassName       string
	RelativePath    string
	RelativeLibPath string
}

// Set is a parsed collection of block templates.
type Set struct {
	byName map[string]*template.Template
}

var funcs = template.FuncMap{
	"quote": Quote,
}

// Default returns the embedded templates.
func Default() *Set {
	s, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return s
}

// Load parses the embedded templates, replacing any that have a matching
// <name>.stub file in overrideDir. An empty overrideDir uses only the embedded set.
func Load(overrideDir string) (*Set, error) {
	s := &Set{byName: make(map[string]*template.Template)}
	for _, name := range names() {
		text, err := readStub(overrideDir, name)
		if err != nil {
			return nil, err
		}
		// Only template text is expanded; interpolated titles stay byte-for-byte.
		text = strings.ReplaceAll(text, "\t", "    ")
		t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		s.byName[name] = t
	}

	closing, err := s.Closing()
	if err != nil {
		return nil, err
	}
	if strings.Count(closing, "\n") != 1 {
		return nil, fmt.Errorf("template %s must render to a single line", Closing)
	}
	return s, nil
}

func readStub(dir, name string) (string, error) {
	file := name + ".stub"
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reading template override %s: %w", file, err)
		}
	}
	data, err := stubs.ReadFile("stubs/" + file)
	if err != nil {
		return "", fmt.Errorf("reading embedded template %s: %w", file, err)
	}
	return string(data), nil
}

func (s *Set) render(name string, data any) (string, error) {
	t, ok := s.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Header renders the opening describe block.
func (s *Set) Header(data HeaderData) (string, error) {
	return s.render(Header, data)
}

// Section renders one auxiliary section for className.
func (s *Set) Section(name, className string) (string, error) {
	if !IsSection(name) {
		return "", fmt.Errorf("unknown section %q", name)
	}
	return s.render(name, struct{ ClassName string }{className})
}

// Stub renders one pending test for title.
func (s *Set) Stub(title string) (string, error) {
	return s.render(Stub, struct{ Interaction string }{title})
}

// Closing renders the closing block, always terminated by a single newline.
func (s *Set) Closing() (string, error) {
	out, err := s.render(Closing, nil)
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}

// Quote wraps title in a JavaScript string delimiter it does not contain.
// The title itself is never escaped so it stays findable in the file.
func Quote(title string) string {
	for _, q := range []string{"'", `"`, "`"} {
		if !strings.Contains(title, q) {
			return q + title + q
		}
	}
	return "'" + title + "'"
}
