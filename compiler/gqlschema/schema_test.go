package gqlschema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/compiler/gqlschema"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/privacy"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
)

func registry(t *testing.T, models ...*schema.ModelConfig) *core.Registry {
	t.Helper()
	reg, err := core.InitialiseModels(&schema.Config{Models: models, DB: schema.DBConfig{Provider: schema.ProviderPostgres}})
	require.NoError(t, err)
	return reg
}

func blog() []*schema.ModelConfig {
	return []*schema.ModelConfig{
		{
			Key: "Post",
			Fields: []schema.Field{
				{Key: "title", Func: field.Text(field.TextConfig{})},
				{Key: "publishedAt", Func: field.Timestamp(field.TimestampConfig{})},
				{Key: "author", Func: field.Relationship(field.RelationshipConfig{Ref: "User.posts"})},
				{Key: "tags", Func: field.Relationship(field.RelationshipConfig{Ref: "Tag", Many: true})},
			},
		},
		{
			Key: "User",
			Fields: []schema.Field{
				{Key: "name", Func: field.Text(field.TextConfig{})},
				{Key: "posts", Func: field.Relationship(field.RelationshipConfig{Ref: "Post.author", Many: true})},
			},
		},
		{
			Key:     "Tag",
			GraphQL: schema.ModelGraphQL{Omit: loom.OmitOps(loom.OpCreate, loom.OpDelete)},
			Fields:  []schema.Field{{Key: "name", Func: field.Text(field.TextConfig{})}},
		},
	}
}

func names(fields []*graphql.Field) []string {
	var out []string
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

func TestBuild(t *testing.T) {
	s, err := gqlschema.Build(registry(t, blog()...))
	require.NoError(t, err)

	assert.Equal(t, []string{"post", "posts", "postsCount", "user", "users", "usersCount", "tag", "tags", "tagsCount"}, names(s.Query.Fields()))
	require.NotNil(t, s.Mutation)
	muts := names(s.Mutation.Fields())
	assert.Contains(t, muts, "createPost")
	assert.Contains(t, muts, "updatePosts")
	assert.Contains(t, muts, "updateTag")
	assert.NotContains(t, muts, "createTag")
	assert.NotContains(t, muts, "deleteTags")

	require.NotNil(t, s.AST)
	post := s.AST.Types["Post"]
	require.NotNil(t, post)
	assert.NotNil(t, post.Fields.ForName("tagsCount"))
	assert.NotNil(t, s.AST.Types["PostWhereUniqueInput"])
	assert.NotNil(t, s.AST.Types["DateTime"])
	assert.Nil(t, s.AST.Types["TagCreateInput"], "unreachable types are not emitted")

	relateTag := s.AST.Types["TagRelateToManyForCreateInput"]
	require.NotNil(t, relateTag)
	assert.Nil(t, relateTag.Fields.ForName("create"))
	assert.NotNil(t, relateTag.Fields.ForName("connect"))

	assert.Contains(t, s.SDL, "type Query {")
	assert.Contains(t, s.SDL, "input PostWhereInput {")
	assert.Contains(t, s.SDL, "skip: Int! = 0")
	assert.NotContains(t, s.SDL, "scalar String")
}

func TestBuildWithoutQueries(t *testing.T) {
	m := blog()[2]
	m.GraphQL.Omit = loom.OmitAll()
	_, err := gqlschema.Build(registry(t, m))
	assert.True(t, loom.IsConfigurationError(err))
}

func TestBuildWithModelDefaultsDisabled(t *testing.T) {
	post := &schema.ModelConfig{
		Key:                 "Post",
		DefaultIsFilterable: false,
		DefaultIsOrderable:  false,
		Fields:              []schema.Field{{Key: "title", Func: field.Text(field.TextConfig{})}},
	}
	reg := registry(t, post)
	s, err := gqlschema.Build(reg)
	require.NoError(t, err)
	assert.Contains(t, s.SDL, "input PostWhereUniqueInput {")
	assert.Contains(t, s.SDL, "input PostOrderByInput {")

	m, ok := reg.Model("Post")
	require.True(t, ok)
	tests := []struct {
		name string
		in   *graphql.InputObject
	}{
		{"unique where", m.Types.UniqueWhere},
		{"order by", m.Types.OrderBy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var keys []string
			for _, a := range tt.in.Fields() {
				keys = append(keys, a.Name)
			}
			assert.Equal(t, []string{"id"}, keys)
		})
	}
}

type memSource struct {
	items map[string][]any
}

func (s *memSource) FindOne(_ context.Context, model string, where map[string]any) (any, error) {
	for _, it := range s.items[model] {
		if it.(map[string]any)["id"] == where["id"] {
			return it, nil
		}
	}
	return nil, nil
}

func (s *memSource) FindMany(_ context.Context, model string, _ map[string]any) ([]any, error) {
	return s.items[model], nil
}

func (s *memSource) Count(_ context.Context, model string, _ map[string]any) (int, error) {
	return len(s.items[model]), nil
}

func (s *memSource) Create(_ context.Context, model string, data map[string]any) (any, error) {
	s.items[model] = append(s.items[model], data)
	return data, nil
}

func (s *memSource) Update(_ context.Context, _ string, _, data map[string]any) (any, error) {
	return data, nil
}

func (s *memSource) Delete(_ context.Context, _ string, where map[string]any) (any, error) {
	return where, nil
}

func TestRootResolvers(t *testing.T) {
	models := blog()
	models[0].GraphQL.MaxResults = 2
	models[1].Access.Operation = map[loom.Operation]privacy.Policy{
		loom.OpCreate: {privacy.AlwaysDenyRule()},
	}
	src := &memSource{items: map[string][]any{"Post": {map[string]any{"id": "1", "title": "Hello"}}}}
	s, err := gqlschema.Build(registry(t, models...), gqlschema.WithSource(src))
	require.NoError(t, err)
	ctx := context.Background()

	item, err := s.Query.Field("post").Resolve(ctx, graphql.ResolveParams{Args: map[string]any{"where": map[string]any{"id": "1"}}})
	require.NoError(t, err)
	assert.Equal(t, "Hello", item.(map[string]any)["title"])

	_, err = s.Query.Field("posts").Resolve(ctx, graphql.ResolveParams{Args: map[string]any{"take": 5}})
	assert.True(t, loom.IsUserInputError(err))
	list, err := s.Query.Field("posts").Resolve(ctx, graphql.ResolveParams{Args: map[string]any{"take": 2}})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	count, err := s.Query.Field("usersCount").Resolve(ctx, graphql.ResolveParams{Args: map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = s.Mutation.Field("createUser").Resolve(ctx, graphql.ResolveParams{Args: map[string]any{"data": map[string]any{"name": "A"}}})
	assert.True(t, errors.Is(err, gqlschema.ErrAccessDenied))

	created, err := s.Mutation.Field("createPosts").Resolve(ctx, graphql.ResolveParams{Args: map[string]any{
		"data": []any{map[string]any{"title": "a"}, map[string]any{"title": "b"}},
	}})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, src.items["Post"], 3)
}

func TestRootResolversWithoutSource(t *testing.T) {
	s, err := gqlschema.Build(registry(t, blog()...))
	require.NoError(t, err)
	_, err = s.Query.Field("posts").Resolve(context.Background(), graphql.ResolveParams{})
	assert.ErrorIs(t, err, gqlschema.ErrNoSource)
}
