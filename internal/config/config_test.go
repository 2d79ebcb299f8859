package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/jestspeck/internal/shell"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, shell.CoLocate, cfg.Location)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
location: spec
root_hint: src
extensions: [.jsx]
sections: [render]
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "spec", cfg.Location)
	assert.Equal(t, "src", cfg.RootHint)
	assert.Equal(t, []string{".jsx"}, cfg.Extensions)
	assert.Equal(t, []string{"render"}, cfg.Sections)
	assert.Equal(t, DefaultExcludeDirs(), cfg.ExcludeDirs)
}

func TestLoad_RejectsUnknownSection(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "sections: [snapshot]\n")

	_, err := Load(dir)
	assert.ErrorContains(t, err, "unknown section")
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "location: [\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEngine_ResolvesLocationAgainstRoot(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Location = "spec"

	e, err := cfg.Engine(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "spec"), e.Location())
	assert.Equal(t, filepath.Join(root, "spec", "Widget.spec.jsx"), e.OutputPath(filepath.Join(root, "src", "Widget.js")))
}

func TestEngine_CoLocate(t *testing.T) {
	e, err := Default().Engine(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, shell.CoLocate, e.Location())
}

func TestTemplates_Override(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "stubs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stubs", "it-shell.stub"), []byte("\ntest({{quote .Interaction}});\n"), 0o644))

	cfg := Default()
	cfg.TemplatesDir = "stubs"
	set, err := cfg.Templates(root)
	require.NoError(t, err)

	got, err := set.Stub("should x")
	require.NoError(t, err)
	assert.Equal(t, "\ntest('should x');", got)
}

func TestStatePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", ".jestspeck", "run"), Default().StatePath("/repo"))
}
