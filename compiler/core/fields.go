package core

import (
	"slices"

	"github.com/syssam/loom"
	"github.com/syssam/loom/schema"
	"github.com/syssam/loom/schema/field"
)

// fieldList returns the fields of a model with an id field first when the
// model does not declare one.
func fieldList(cfg *schema.ModelConfig, kind schema.IDKind) []schema.Field {
	if slices.ContainsFunc(cfg.Fields, func(f schema.Field) bool { return f.Key == IDFieldKey }) {
		return cfg.Fields
	}
	return append([]schema.Field{{Key: IDFieldKey, Func: field.ID(kind)}}, cfg.Fields...)
}

// initialiseFields calls the field constructors of a model and computes
// their enablement.
func (r *Registry) initialiseFields(cfg *schema.Config, m *schema.ModelConfig, en *schema.ModelEnablement) ([]*Field, error) {
	idField := cfg.DB.IDField
	if m.DB.IDField != nil {
		idField = *m.DB.IDField
	}
	storage := func(name string) (schema.StorageConfig, bool) {
		s, ok := cfg.Storage[name]
		return s, ok
	}
	list := fieldList(m, idField.Kind)
	fields := make([]*Field, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, f := range list {
		path := m.Key + "." + f.Key
		if seen[f.Key] {
			return nil, loom.NewConfigurationError(path, "the field %s is declared more than once", path)
		}
		seen[f.Key] = true
		if f.Func == nil {
			return nil, loom.NewConfigurationError(path, "the field at %s does not provide a function", path)
		}
		def, err := f.Func(schema.FieldContext{
			FieldKey: f.Key,
			ModelKey: m.Key,
			Models:   r.refs,
			Provider: cfg.DB.Provider,
			IDField:  idField,
			Storage:  storage,
		})
		if err != nil {
			if loom.IsConfigurationError(err) {
				return nil, err
			}
			return nil, loom.WrapConfigurationError(path, err, "the field at %s failed to initialise", path)
		}
		if def == nil {
			return nil, loom.NewConfigurationError(path, "the field at %s returned no definition", path)
		}
		enabled, err := fieldEnablement(def, path, en)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &Field{
			Key:       f.Key,
			ModelKey:  m.Key,
			Def:       def,
			Access:    def.Access,
			Hooks:     def.Hooks,
			Enabled:   enabled,
			CacheHint: def.GraphQL.CacheHint,
		})
	}
	return fields, nil
}

// guardEmptyInputs disables model-level create and update when no field
// takes part in them. A GraphQL input object cannot have zero fields.
func (r *Registry) guardEmptyInputs(m *Model) {
	create, update := false, false
	for _, f := range m.Fields {
		if r.excluded(f) {
			continue
		}
		create = create || (f.Def.Input.Create != nil && f.Enabled.Create)
		update = update || (f.Def.Input.Update != nil && f.Enabled.Update)
	}
	if m.Enabled.Create && !create {
		m.Enabled.Create = false
		r.log.Info("create disabled: no field accepts create input", zapModel(m.Key))
	}
	if m.Enabled.Update && !update {
		m.Enabled.Update = false
		r.log.Info("update disabled: no field accepts update input", zapModel(m.Key))
	}
}
