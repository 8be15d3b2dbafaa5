package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/loom"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
	"github.com/syssam/loom/schema/mixin"
)

func keys(fields []schema.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Key
	}
	return out
}

func build(t *testing.T, f schema.Field) *schema.FieldDef {
	t.Helper()
	def, err := f.Func(schema.FieldContext{ModelKey: "Post", FieldKey: f.Key, Provider: schema.ProviderSQLite})
	require.NoError(t, err)
	return def
}

// TestSchemaBaseMixin tests the base Schema mixin.
func TestSchemaBaseMixin(t *testing.T) {
	assert.Nil(t, mixin.Schema{}.Fields())
	var _ mixin.Mixin = mixin.Schema{}
}

func TestBuiltinMixins(t *testing.T) {
	tests := []struct {
		name  string
		mixin mixin.Mixin
		keys  []string
	}{
		{"time", mixin.Time{}, []string{"createdAt", "updatedAt"}},
		{"create_time", mixin.CreateTime{}, []string{"createdAt"}},
		{"update_time", mixin.UpdateTime{}, []string{"updatedAt"}},
		{"soft_delete", mixin.SoftDelete{}, []string{"deletedAt"}},
		{"time_soft_delete", mixin.TimeSoftDelete{}, []string{"createdAt", "updatedAt", "deletedAt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, keys(tt.mixin.Fields()))
		})
	}
}

func TestTimeFields(t *testing.T) {
	fields := mixin.Time{}.Fields()

	created := build(t, fields[0])
	assert.Equal(t, schema.DefaultNow, created.DB.Default.Kind)
	assert.False(t, created.DB.UpdatedAt)
	assert.True(t, created.GraphQL.Omit.Has(loom.OpCreate))
	assert.True(t, created.GraphQL.Omit.Has(loom.OpUpdate))
	assert.False(t, created.GraphQL.Omit.Has(loom.OpRead))
	assert.Equal(t, schema.FieldModeRead, created.UI.ItemView)

	updated := build(t, fields[1])
	assert.True(t, updated.DB.UpdatedAt)

	deleted := build(t, mixin.SoftDelete{}.Fields()[0])
	assert.Equal(t, schema.ModeOptional, deleted.DB.Mode)
	assert.Nil(t, deleted.DB.Default)
}

type audit struct {
	mixin.Schema
}

func (audit) Fields() []schema.Field {
	return []schema.Field{
		{Key: "createdBy", Func: field.Text(field.TextConfig{})},
		{Key: "createdAt", Func: field.Text(field.TextConfig{})},
	}
}

func TestApply(t *testing.T) {
	own := field.Timestamp(field.TimestampConfig{})
	m := &schema.ModelConfig{Key: "Post", Fields: []schema.Field{
		{Key: "title", Func: field.Text(field.TextConfig{})},
		{Key: "updatedAt", Func: own},
	}}
	mixin.Apply(m, mixin.Time{}, audit{})
	assert.Equal(t, []string{"createdAt", "createdBy", "title", "updatedAt"}, keys(m.Fields))

	def := build(t, m.Fields[3])
	assert.False(t, def.DB.UpdatedAt)
	def = build(t, m.Fields[0])
	assert.Equal(t, schema.ScalarDateTime, def.DB.Scalar)
}

func TestWithUI(t *testing.T) {
	fields := mixin.WithUI(mixin.Time{}, schema.FieldUI{ListView: schema.FieldModeHidden}).Fields()
	require.Len(t, fields, 2)
	for _, f := range fields {
		def := build(t, f)
		assert.Equal(t, schema.FieldModeHidden, def.UI.ListView)
		assert.Equal(t, schema.FieldModeRead, def.UI.ItemView)
	}
}
