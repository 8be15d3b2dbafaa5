package gqlgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStringList(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte("schema: schema.graphql"), &cfg))
	assert.Equal(t, StringList{"schema.graphql"}, cfg.SchemaFilename)

	require.NoError(t, yaml.Unmarshal([]byte("schema: [a.graphql, b.graphql]"), &cfg))
	assert.Equal(t, StringList{"a.graphql", "b.graphql"}, cfg.SchemaFilename)

	assert.Error(t, yaml.Unmarshal([]byte("schema: {a: b}"), &cfg))

	out, err := yaml.Marshal(Config{SchemaFilename: StringList{"only.graphql"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "schema: only.graphql")
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "gqlgen.yml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.SchemaFilename)
	assert.NotNil(t, cfg.Models)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api", "gqlgen.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
schema:
  - extra.graphql
exec:
  filename: generated.go
  package: api
models:
  ID:
    model: github.com/99designs/gqlgen/graphql.ID
`), 0o644))

	require.NoError(t, Update(path, "schema.graphql", "example.com/blog/models"))
	// Repeated updates are idempotent.
	require.NoError(t, Update(path, "schema.graphql", "example.com/blog/models"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StringList{"extra.graphql", "schema.graphql"}, cfg.SchemaFilename)
	assert.Equal(t, []string{"example.com/blog/models"}, cfg.Autobind)
	assert.Equal(t, "generated.go", cfg.Exec.Filename)
	assert.Equal(t, StringList{IDModel}, cfg.Models["ID"].Model)
	assert.Equal(t, StringList{TimeModel}, cfg.Models["DateTime"].Model)
	assert.Equal(t, StringList{MapModel}, cfg.Models["JSON"].Model)
}

func TestBindWithoutTypes(t *testing.T) {
	cfg := &Config{}
	cfg.Bind("schema.graphql", "")
	assert.Empty(t, cfg.Autobind)
	assert.Len(t, cfg.Models, 3)
}

func TestGenerateMissingConfig(t *testing.T) {
	err := Generate(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "load gqlgen config")
}
