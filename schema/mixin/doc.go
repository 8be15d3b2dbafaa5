// Package mixin provides reusable field sets for loom models.
//
// A mixin contributes fields to every model it is applied to. Fields the
// model declares itself take precedence over mixin fields with the same key.
//
// # Built-in Mixins
//
//	mixin.Time{}           // createdAt, updatedAt
//	mixin.CreateTime{}     // createdAt
//	mixin.UpdateTime{}     // updatedAt
//	mixin.SoftDelete{}     // deletedAt
//	mixin.TimeSoftDelete{} // createdAt, updatedAt, deletedAt
//
// # Custom Mixins
//
// Embed Schema and override Fields:
//
//	type Audit struct {
//	    mixin.Schema
//	}
//
//	func (Audit) Fields() []schema.Field {
//	    return []schema.Field{
//	        {Key: "createdBy", Func: field.Text(field.TextConfig{})},
//	    }
//	}
//
//	mixin.Apply(post, mixin.Time{}, Audit{})
//
// The YAML loader in compiler/load applies built-in mixins named in a
// model's mixins list.
package mixin
