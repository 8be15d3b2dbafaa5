package mixin

import (
	"github.com/syssam/loom"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
)

// Mixin is a reusable set of fields shared by several models.
type Mixin interface {
	Fields() []schema.Field
}

// Schema is the default implementation of Mixin. Embed it in custom
// mixins and override Fields.
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []schema.Field { return nil }

var _ Mixin = (*Schema)(nil)

// Apply prepends the fields of the mixins to the model. A field the model
// already declares wins over a mixin field with the same key.
func Apply(m *schema.ModelConfig, mixins ...Mixin) {
	own := make(map[string]bool, len(m.Fields))
	for _, f := range m.Fields {
		own[f.Key] = true
	}
	var fields []schema.Field
	for _, mx := range mixins {
		for _, f := range mx.Fields() {
			if own[f.Key] {
				continue
			}
			own[f.Key] = true
			fields = append(fields, f)
		}
	}
	m.Fields = append(fields, m.Fields...)
}

// readOnly hides a managed field from create and update inputs and shows it
// read-only in the item view.
func readOnly() field.Common {
	return field.Common{
		GraphQL: schema.FieldGraphQL{Omit: loom.OmitOps(loom.OpCreate, loom.OpUpdate)},
		UI: schema.FieldUI{
			CreateView: schema.FieldModeHidden,
			ItemView:   schema.FieldModeRead,
		},
	}
}

// Time adds createdAt and updatedAt timestamps.
//
//	mixin.Apply(post, mixin.Time{})
type Time struct {
	Schema
}

// Fields returns the time tracking fields.
func (Time) Fields() []schema.Field {
	return append(CreateTime{}.Fields(), UpdateTime{}.Fields()...)
}

// CreateTime adds only the createdAt timestamp.
type CreateTime struct {
	Schema
}

// Fields returns the createdAt field.
func (CreateTime) Fields() []schema.Field {
	return []schema.Field{{
		Key:  "createdAt",
		Func: field.Timestamp(field.TimestampConfig{Common: readOnly(), DefaultNow: true}),
	}}
}

// UpdateTime adds only the updatedAt timestamp, refreshed on every update.
type UpdateTime struct {
	Schema
}

// Fields returns the updatedAt field.
func (UpdateTime) Fields() []schema.Field {
	cfg := field.TimestampConfig{Common: readOnly(), DefaultNow: true}
	cfg.DB.UpdatedAt = true
	return []schema.Field{{Key: "updatedAt", Func: field.Timestamp(cfg)}}
}

// SoftDelete adds a nullable deletedAt timestamp. Items with a value are
// considered deleted.
type SoftDelete struct {
	Schema
}

// Fields returns the soft delete field.
func (SoftDelete) Fields() []schema.Field {
	cfg := field.TimestampConfig{Common: field.Common{
		UI: schema.FieldUI{CreateView: schema.FieldModeHidden, ListView: schema.FieldModeHidden},
	}}
	cfg.DB.IsNullable = true
	return []schema.Field{{Key: "deletedAt", Func: field.Timestamp(cfg)}}
}

// TimeSoftDelete combines Time and SoftDelete.
type TimeSoftDelete struct {
	Schema
}

// Fields returns all timestamp and soft delete fields.
func (TimeSoftDelete) Fields() []schema.Field {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// WithUI wraps a mixin and applies ui to every field it returns. Empty
// modes keep the field's own value.
//
//	mixin.WithUI(mixin.Time{}, schema.FieldUI{ListView: schema.FieldModeHidden})
func WithUI(m Mixin, ui schema.FieldUI) Mixin {
	return uiOverride{Mixin: m, ui: ui}
}

type uiOverride struct {
	Mixin
	ui schema.FieldUI
}

func (o uiOverride) Fields() []schema.Field {
	fields := o.Mixin.Fields()
	for i := range fields {
		next := fields[i].Func
		fields[i].Func = func(fc schema.FieldContext) (*schema.FieldDef, error) {
			def, err := next(fc)
			if err != nil {
				return nil, err
			}
			if o.ui.Description != "" {
				def.UI.Description = o.ui.Description
			}
			if o.ui.CreateView != "" {
				def.UI.CreateView = o.ui.CreateView
			}
			if o.ui.ItemView != "" {
				def.UI.ItemView = o.ui.ItemView
			}
			if o.ui.ListView != "" {
				def.UI.ListView = o.ui.ListView
			}
			return def, nil
		}
	}
	return fields
}
