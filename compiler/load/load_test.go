package load_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/compiler/load"
	"github.com/syssam/loom/privacy"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
)

func fieldKeys(m *schema.ModelConfig) []string {
	var out []string
	for _, f := range m.Fields {
		out = append(out, f.Key)
	}
	return out
}

func TestLoadFile(t *testing.T) {
	cfg, err := load.LoadFile(filepath.Join("testdata", "blog.yaml"))
	require.NoError(t, err)

	assert.Equal(t, schema.ProviderPostgres, cfg.DB.Provider)
	assert.Equal(t, schema.IDUUID, cfg.DB.IDField.Kind)
	require.NotNil(t, cfg.Session)
	assert.Equal(t, "User", cfg.Session.Model)

	require.Len(t, cfg.Models, 2)
	post, user := cfg.Models[0], cfg.Models[1]
	assert.Equal(t, "Post", post.Key)
	assert.Equal(t, "Blog posts", post.Description)
	assert.Equal(t, "AllPosts", post.GraphQL.Plural)
	assert.Equal(t, 100, post.GraphQL.MaxResults)
	assert.Equal(t, []string{"title"}, post.UI.SearchFields)
	assert.Equal(t, []string{"createdAt", "updatedAt", "title", "status", "views", "author", "notes"}, fieldKeys(post))
	assert.Equal(t, []string{"name", "email", "posts"}, fieldKeys(user))

	require.Contains(t, post.Access.Operation, loom.OpDelete)
	assert.Len(t, post.Access.Operation[loom.OpDelete], 3)
	assert.Contains(t, post.Access.Filter, loom.OpUpdate)

	reg, err := core.InitialiseModels(cfg)
	require.NoError(t, err)
	m, ok := reg.Model("Post")
	require.True(t, ok)
	assert.Equal(t, "AllPosts", m.PluralGraphQLName)
	assert.Equal(t, 100, m.MaxResults)
	assert.False(t, m.Field("views").Enabled.Filter.Enabled())

	status := m.Field("status")
	require.NotNil(t, status)
	meta, err := status.Def.AdminMeta(nil)
	require.NoError(t, err)
	assert.Equal(t, field.SelectString, meta.(field.SelectMeta).Type)

	ok, err = m.Field("notes").Access.Eval(context.Background(), privacy.Request{Operation: loom.OpRead, Model: "Post"})
	require.NoError(t, err)
	assert.False(t, ok, "notes are hidden from viewers without the editor role")
	ok, err = m.Field("notes").Access.Eval(
		privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "1", Roles: []string{"editor"}}),
		privacy.Request{Operation: loom.OpRead, Model: "Post"},
	)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Access.EvalOperation(context.Background(), privacy.Request{Operation: loom.OpDelete, Model: "Post"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
		msg  string
	}{
		{
			name: "unknown type",
			doc:  "models: {Post: {fields: {title: {type: markdown}}}}",
			path: "Post.title",
			msg:  `unknown field type "markdown"`,
		},
		{
			name: "missing type",
			doc:  "models: {Post: {fields: {title: {label: Title}}}}",
			path: "Post.title",
			msg:  "must name a type",
		},
		{
			name: "unknown mixin",
			doc:  "models: {Post: {mixins: [audit], fields: {title: {type: text}}}}",
			path: "Post.mixins",
			msg:  `unknown mixin "audit"`,
		},
		{
			name: "bad rule",
			doc:  "models: {Post: {access: {operation: {query: [sometimes]}}, fields: {title: {type: text}}}}",
			path: "Post.access.operation.query",
			msg:  `unknown rule "sometimes"`,
		},
		{
			name: "bad filter",
			doc:  "models: {Post: {access: {filter: {query: mine}}, fields: {title: {type: text}}}}",
			path: "Post.access.filter",
			msg:  `unknown filter "mine"`,
		},
		{
			name: "models not a mapping",
			doc:  "models: [Post]",
			path: "models",
			msg:  "must be a mapping",
		},
		{
			name: "invalid field config",
			doc:  "models: {Post: {fields: {views: {type: integer, defaultValue: many}}}}",
			path: "Post.views",
			msg:  "invalid integer field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load.Load([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, loom.IsConfigurationError(err))
			assert.Equal(t, tt.path, loom.ConfigurationPath(err))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestLoadNullField(t *testing.T) {
	cfg, err := load.Load([]byte("models: {Post: {fields: {title: null}}}"))
	require.NoError(t, err)
	require.Len(t, cfg.Models[0].Fields, 1)
	assert.Nil(t, cfg.Models[0].Fields[0].Func)

	_, err = core.InitialiseModels(cfg)
	assert.ErrorContains(t, err, "does not provide a function")
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := load.Load([]byte("models: {Post: [unclosed"))
	require.Error(t, err)
	assert.False(t, loom.IsConfigurationError(err))
}

func TestRegisterType(t *testing.T) {
	l := load.New()
	l.RegisterType("slug", func(node *yaml.Node) (schema.FieldFunc, error) {
		var cfg struct {
			Unique bool `yaml:"unique"`
		}
		if err := node.Decode(&cfg); err != nil {
			return nil, err
		}
		idx := schema.IndexIndex
		if cfg.Unique {
			idx = schema.IndexUnique
		}
		return field.Text(field.TextConfig{IsIndexed: idx}), nil
	})
	assert.Contains(t, l.Types(), "slug")

	cfg, err := l.Load([]byte("models: {Post: {fields: {slug: {type: slug, unique: true}}}}"))
	require.NoError(t, err)
	reg, err := core.InitialiseModels(cfg)
	require.NoError(t, err)
	m, _ := reg.Model("Post")
	assert.NotNil(t, m.Types.UniqueWhere.Field("slug"))
}
