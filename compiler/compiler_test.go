package compiler_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler"
	"github.com/syssam/loom/compiler/load"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
)

func blog() *schema.Config {
	return &schema.Config{
		Models: []*schema.ModelConfig{
			{
				Key: "Post",
				Fields: []schema.Field{
					{Key: "title", Func: field.Text(field.TextConfig{})},
					{Key: "author", Func: field.Relationship(field.RelationshipConfig{Ref: "User.posts"})},
				},
			},
			{
				Key: "User",
				Fields: []schema.Field{
					{Key: "name", Func: field.Text(field.TextConfig{})},
					{Key: "posts", Func: field.Relationship(field.RelationshipConfig{Ref: "Post.author", Many: true})},
				},
			},
		},
	}
}

func TestCompile(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	res, err := compiler.Compile(context.Background(), blog(), compiler.WithLogger(zap.New(obs)), compiler.WithPackage("blog"))
	require.NoError(t, err)

	assert.Equal(t, schema.ProviderSQLite, res.Provider())
	assert.True(t, res.Registry.Sealed())
	assert.Len(t, res.AdminMeta.Models, 2)
	assert.Contains(t, res.Schema.SDL, "type Post {")
	assert.NotEmpty(t, res.Migration)
	assert.Contains(t, string(res.Types), "package blog")
	assert.Equal(t, 1, logs.FilterMessage("compiled").Len())
	assert.NotZero(t, logs.FilterMessage("planning migration").Len())
}

func TestCompileStopsAtFirstFailingPhase(t *testing.T) {
	cfg := blog()
	cfg.Models[1].UI.SearchFields = []string{"id"}
	_, err := compiler.Compile(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, loom.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "User")
}

func TestWriteArtifacts(t *testing.T) {
	ctx := context.Background()
	res, err := compiler.Compile(ctx, blog())
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, res.WriteArtifacts(ctx, dir))

	sdl, err := os.ReadFile(filepath.Join(dir, compiler.SchemaFile))
	require.NoError(t, err)
	assert.Equal(t, res.Schema.SDL, string(sdl))

	raw, err := os.ReadFile(filepath.Join(dir, compiler.AdminMetaFile))
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Contains(t, meta, "models")

	assert.FileExists(t, filepath.Join(dir, compiler.TypesFile))
	assert.Equal(t, filepath.Join("migrations", "sqlite.sql"), res.MigrationFile())
	script, err := os.ReadFile(filepath.Join(dir, res.MigrationFile()))
	require.NoError(t, err)
	assert.Contains(t, string(script), "CREATE TABLE `Post`")
}

func TestWriteArtifactsWithoutTypes(t *testing.T) {
	ctx := context.Background()
	cfg := blog()
	cfg.DB.Provider = schema.ProviderPostgres
	res, err := compiler.Compile(ctx, cfg, compiler.WithoutTypes())
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, res.WriteArtifacts(ctx, dir))
	assert.NoFileExists(t, filepath.Join(dir, compiler.TypesFile))
	assert.FileExists(t, filepath.Join(dir, "migrations", "postgresql.sql"))
}

func TestWriteArtifactsCanceled(t *testing.T) {
	res, err := compiler.Compile(context.Background(), blog())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, res.WriteArtifacts(ctx, t.TempDir()), context.Canceled)
}

func TestCompileBlogExample(t *testing.T) {
	cfg, err := load.LoadFile(filepath.Join("..", "examples", "blog", "models.yaml"))
	require.NoError(t, err)
	res, err := compiler.Compile(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, res.Registry.Models(), 3)
	assert.Contains(t, res.Schema.SDL, "type Tag {")
	assert.Contains(t, dbmapTables(res), "_Post_tags")
}

func dbmapTables(res *compiler.Result) []string {
	var names []string
	for _, s := range res.Realm.Schemas {
		for _, t := range s.Tables {
			names = append(names, t.Name)
		}
	}
	return names
}
