package typegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/compiler/typegen"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
)

func TestRender(t *testing.T) {
	reg, err := core.InitialiseModels(&schema.Config{Models: []*schema.ModelConfig{
		{
			Key: "Post",
			Fields: []schema.Field{
				{Key: "title", Func: field.Text(field.TextConfig{})},
				{Key: "publishedAt", Func: field.Timestamp(field.TimestampConfig{})},
				{Key: "author", Func: field.Relationship(field.RelationshipConfig{Ref: "User.posts"})},
			},
		},
		{
			Key:     "User",
			GraphQL: schema.ModelGraphQL{Omit: loom.OmitOps(loom.OpUpdate)},
			Fields: []schema.Field{
				{Key: "name", Func: field.Text(field.TextConfig{})},
				{Key: "posts", Func: field.Relationship(field.RelationshipConfig{Ref: "Post.author", Many: true})},
			},
		},
	}})
	require.NoError(t, err)

	out, err := typegen.Render(reg, "models")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "// "+typegen.Header)
	assert.Contains(t, src, "package models")
	assert.Contains(t, src, "type Post struct {")
	assert.Contains(t, src, "type PostCreateInput struct {")
	assert.Contains(t, src, "type PostUpdateInput struct {")
	assert.Contains(t, src, "type UserCreateInput struct {")
	assert.NotContains(t, src, "type UserUpdateInput struct {")
	assert.Contains(t, src, "type OrderDirection string")
	assert.Contains(t, src, `OrderDirectionAsc OrderDirection = "asc"`)

	assert.Regexp(t, `ID\s+string\s+`+"`"+`json:"id"`+"`", src)
	assert.Regexp(t, `Title\s+\*string\s+`+"`"+`json:"title,omitempty"`+"`", src)
	assert.Regexp(t, `PublishedAt\s+\*time\.Time`, src)
	assert.Regexp(t, `Author\s+\*User\s+`, src)
	assert.Regexp(t, `Posts\s+\[\]\*Post\s+`, src)
	assert.Contains(t, src, `"time"`)
}

func TestGenerateRequiresSealedRegistry(t *testing.T) {
	_, err := typegen.Generate(&core.Registry{}, "models")
	assert.Error(t, err)
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"id":             "ID",
		"title":          "Title",
		"authorId":       "AuthorID",
		"AND":            "AND",
		"from_Post_tags": "FromPostTags",
		"_count":         "Count",
		"insensitive":    "Insensitive",
	}
	for in, want := range tests {
		assert.Equal(t, want, typegen.GoName(in), in)
	}
}
