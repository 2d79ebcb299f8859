// SPDX-License-Identifier: AGPL-3.0-or-later
package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Stub(t *testing.T) {
	s := Default()

	got, err := s.Stub("should render")
	require.NoError(t, err)
	assert.Equal(t, "\n    it('should render', () => {\n        throw new Error('Not implemented.');\n    });", got)
}

func TestStub_ExpandsTemplateTabsOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Stub+".stub"), []byte("\tit({{quote .Interaction}});\n"), 0o644))
	s, err := Load(dir)
	require.NoError(t, err)

	got, err := s.Stub("should a\tb")
	require.NoError(t, err)
	assert.Equal(t, "    it('should a\tb');", got)
}

func TestDefault_Header(t *testing.T) {
	s := Default()

	got, err := s.Header(HeaderData{
		Name:            "Widget",
		ClassName:       "Widget",
		RelativePath:    "./Widget.js",
		RelativeLibPath: "../",
	})
	require.NoError(t, err)
	assert.Contains(t, got, "import Widget from './Widget.js';")
	assert.Contains(t, got, "import '../setupTests';")
	assert.Contains(t, got, "describe('Widget', () => {")
	assert.NotContains(t, got, "\t")
}

func TestDefault_Closing(t *testing.T) {
	got, err := Default().Closing()
	require.NoError(t, err)
	assert.Equal(t, "});\n", got)
}

func TestSection(t *testing.T) {
	s := Default()

	for _, name := range DefaultSections() {
		got, err := s.Section(name, "Widget")
		require.NoError(t, err, name)
		assert.Contains(t, got, "Widget", name)
	}

	_, err := s.Section("snapshot", "Widget")
	assert.Error(t, err)
}

func TestLoad_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "it-shell.stub"), []byte("\ntest({{quote .Interaction}}, () => {});\n"), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	got, err := s.Stub("should work")
	require.NoError(t, err)
	assert.Equal(t, "\ntest('should work', () => {});", got)

	closing, err := s.Closing()
	require.NoError(t, err)
	assert.Equal(t, "});\n", closing)
}

func TestLoad_RejectsMultiLineClosing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "describe-shell-end.stub"), []byte("  });\n});\n"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_BadTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "render.stub"), []byte("{{ .ClassName "), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'plain'", Quote("plain"))
	assert.Equal(t, `"shouldn't"`, Quote("shouldn't"))
	assert.Equal(t, "`a 'b' \"c\"`", Quote(`a 'b' "c"`))
	assert.Equal(t, "'a'\"`'", Quote("a'\"`"))
}
