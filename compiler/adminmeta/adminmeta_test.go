package adminmeta_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler/adminmeta"
	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
)

func build(t *testing.T, cfg *schema.Config) (*schema.AdminMeta, error) {
	t.Helper()
	reg, err := core.InitialiseModels(cfg)
	require.NoError(t, err)
	return adminmeta.Build(reg, cfg)
}

func blog() *schema.Config {
	return &schema.Config{
		DB: schema.DBConfig{Provider: schema.ProviderPostgres},
		Models: []*schema.ModelConfig{
			{
				Key: "Post",
				Fields: []schema.Field{
					{Key: "title", Func: field.Text(field.TextConfig{})},
					{Key: "views", Func: field.Integer(field.IntegerConfig{})},
					{Key: "published", Func: field.Checkbox(field.CheckboxConfig{})},
					{Key: "body", Func: field.Text(field.TextConfig{Common: field.Common{
						Label: "Content",
						UI:    schema.FieldUI{Description: "Markdown", Views: "./views/markdown"},
					}})},
					{Key: "author", Func: field.Relationship(field.RelationshipConfig{Ref: "User.posts"})},
				},
			},
			{
				Key: "User",
				UI:  schema.ModelUI{SearchFields: []string{"name", "email"}, ListView: schema.ListView{PageSize: 10}},
				Fields: []schema.Field{
					{Key: "name", Func: field.Text(field.TextConfig{})},
					{Key: "email", Func: field.Text(field.TextConfig{IsIndexed: schema.IndexUnique})},
					{Key: "posts", Func: field.Relationship(field.RelationshipConfig{Ref: "Post.author", Many: true})},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	meta, err := build(t, blog())
	require.NoError(t, err)
	require.Len(t, meta.Models, 2)
	assert.False(t, meta.EnableSignout)

	post := meta.ModelByKey["Post"]
	require.NotNil(t, post)
	assert.Equal(t, "title", post.LabelField)
	assert.Equal(t, []string{"title", "views", "published"}, post.InitialColumns)
	assert.Equal(t, adminmeta.DefaultPageSize, post.PageSize)
	assert.Equal(t, "Post", post.ItemQueryName)
	assert.Equal(t, "Posts", post.ModelQueryName)
	assert.Nil(t, post.Description)

	title := post.Field("title")
	require.NotNil(t, title)
	assert.Equal(t, "Title", title.Label)
	require.NotNil(t, title.Search)
	assert.Equal(t, schema.SearchInsensitive, *title.Search)
	assert.Equal(t, schema.FieldModeEdit, title.CreateView.FieldMode)
	assert.Nil(t, post.Field("views").Search)

	body := post.Field("body")
	assert.Equal(t, "Content", body.Label)
	require.NotNil(t, body.Description)
	assert.Equal(t, "Markdown", *body.Description)
	require.NotNil(t, body.CustomViewsIndex)
	assert.Equal(t, "./views/markdown", meta.Views[*body.CustomViewsIndex])
	assert.Equal(t, title.ViewsIndex, body.ViewsIndex, "views are deduplicated")

	id := post.Field("id")
	assert.Equal(t, schema.FieldModeHidden, id.CreateView.FieldMode)
	assert.Equal(t, schema.FieldModeHidden, id.ItemView.FieldMode)

	user := meta.ModelByKey["User"]
	assert.Equal(t, "name", user.LabelField)
	assert.Equal(t, 10, user.PageSize)
	assert.NotNil(t, user.Field("name").Search)
	assert.NotNil(t, user.Field("email").Search)

	author, ok := post.Field("author").FieldMeta.(field.RelationshipMeta)
	require.True(t, ok)
	assert.Equal(t, "User", author.RefModelKey)
	assert.Equal(t, "name", author.RefLabelField)
	require.NotNil(t, author.RefFieldKey)
	assert.Equal(t, "posts", *author.RefFieldKey)
}

func TestViewsOrderedByFirstUse(t *testing.T) {
	meta, err := build(t, blog())
	require.NoError(t, err)
	assert.Equal(t, []string{field.ViewsID, field.ViewsText, field.ViewsInteger, field.ViewsCheckbox, "./views/markdown", field.ViewsRelationship}, meta.Views)

	v := adminmeta.NewViews()
	assert.Equal(t, []string{}, v.List())
	assert.Equal(t, 0, v.ID("a"))
	assert.Equal(t, 1, v.ID("b"))
	assert.Equal(t, 0, v.ID("a"))
	assert.Equal(t, []string{"a", "b"}, v.List())
}

func TestBuildSkipsOmittedModels(t *testing.T) {
	cfg := blog()
	cfg.Models[1].GraphQL.Omit = loom.OmitOps(loom.OpQuery)
	cfg.Session = &schema.SessionConfig{Model: "User"}
	meta, err := build(t, cfg)
	require.NoError(t, err)

	assert.True(t, meta.EnableSignout)
	assert.Len(t, meta.Models, 1)
	assert.NotContains(t, meta.ModelByKey, "User")
	assert.Nil(t, meta.ModelByKey["Post"].Field("author"))
}

func TestBuildWithoutQueryableModels(t *testing.T) {
	cfg := blog()
	for _, m := range cfg.Models {
		m.GraphQL.Omit = loom.OmitOps(loom.OpQuery)
	}
	meta, err := build(t, cfg)
	require.NoError(t, err)
	assert.Empty(t, meta.Models)
	assert.NotNil(t, meta.Views)
	assert.Empty(t, meta.Views)

	raw, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"views":[]`)
	assert.NotContains(t, string(raw), `"views":null`)
}

func TestBuildDefaults(t *testing.T) {
	cfg := &schema.Config{Models: []*schema.ModelConfig{{
		Key:         "Setting",
		Description: "Site settings",
		Fields: []schema.Field{
			{Key: "value", Func: field.Integer(field.IntegerConfig{})},
			{Key: "enabled", Func: field.Checkbox(field.CheckboxConfig{})},
			{Key: "hidden", Func: field.Integer(field.IntegerConfig{Common: field.Common{
				GraphQL: schema.FieldGraphQL{Omit: loom.OmitOps(loom.OpRead)},
			}})},
		},
	}}}
	meta, err := build(t, cfg)
	require.NoError(t, err)
	s := meta.ModelByKey["Setting"]
	assert.Equal(t, "id", s.LabelField)
	assert.Equal(t, []string{"id", "value", "enabled"}, s.InitialColumns)
	require.NotNil(t, s.Description)
	assert.Equal(t, "Site settings", *s.Description)
	assert.Nil(t, s.Field("hidden"))
	assert.Nil(t, s.Field("id").Search, "integer ids are not searchable")

	raw, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"path":"value"`)
}

func TestSearchFieldErrors(t *testing.T) {
	t.Run("id", func(t *testing.T) {
		cfg := blog()
		cfg.Models[1].UI.SearchFields = []string{"id"}
		_, err := build(t, cfg)
		require.Error(t, err)
		assert.True(t, loom.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "User")
		assert.Contains(t, err.Error(), "'id'")
	})

	t.Run("no contains filter", func(t *testing.T) {
		cfg := blog()
		cfg.Models[0].UI.SearchFields = []string{"views"}
		_, err := build(t, cfg)
		require.Error(t, err)
		assert.Equal(t, "Post.views", loom.ConfigurationPath(err))
		assert.Contains(t, err.Error(), "contains filter")
	})

	t.Run("unknown field", func(t *testing.T) {
		cfg := blog()
		cfg.Models[0].UI.SearchFields = []string{"summary"}
		_, err := build(t, cfg)
		assert.ErrorContains(t, err, `"summary"`)
	})
}

func TestRelationshipMetaValidation(t *testing.T) {
	cfg := blog()
	cfg.Models[1].Fields[2] = schema.Field{Key: "posts", Func: field.Relationship(field.RelationshipConfig{
		Ref:         "Post.author",
		Many:        true,
		DisplayMode: field.DisplayCards,
		Cards:       field.CardsConfig{CardFields: []string{"title", "subtitle"}},
	})}
	_, err := build(t, cfg)
	require.Error(t, err)
	assert.Equal(t, "User.posts", loom.ConfigurationPath(err))
	assert.Contains(t, err.Error(), `"subtitle"`)
}
