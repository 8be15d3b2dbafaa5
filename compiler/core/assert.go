package core

import (
	"errors"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
)

// IDFieldKey is the key of the identifier field every model has.
const IDFieldKey = "id"

// assertFieldsValid checks the field set of a model for combinations the
// type builder cannot express.
func assertFieldsValid(m *Model) error {
	var errs []error
	outputs := make(map[string]string, len(m.Fields))
	for _, f := range m.Fields {
		outputs[f.Key] = f.Key
	}
	for _, f := range m.Fields {
		switch {
		case f.Key == "AND" || f.Key == "OR" || f.Key == "NOT":
			errs = append(errs, loom.NewConfigurationError(f.Path(), "the field key %s is reserved", f.Key))
		case !graphql.ValidName(f.Key):
			errs = append(errs, loom.NewConfigurationError(f.Path(), "the field key %q is not a valid GraphQL name", f.Key))
		}
		for _, extra := range f.Def.ExtraOutputFields {
			if owner, ok := outputs[extra.Name]; ok {
				errs = append(errs, loom.NewConfigurationError(f.Path(),
					"the field %s tries to add an extra output field named %s but %s.%s already uses that name", f.Path(), extra.Name, m.Key, owner))
				continue
			}
			outputs[extra.Name] = f.Key
		}
		if in := f.Def.Input.UniqueWhere; in != nil {
			if _, nonNull := in.Type.(*graphql.NonNull); nonNull {
				errs = append(errs, loom.NewConfigurationError(f.Path(), "the uniqueWhere input of %s must be nullable", f.Path()))
			}
			if in.HasDefault {
				errs = append(errs, loom.NewConfigurationError(f.Path(), "the uniqueWhere input of %s must not have a default value", f.Path()))
			}
		}
	}
	if err := assertIDField(m); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func assertIDField(m *Model) error {
	id := m.Field(IDFieldKey)
	if id == nil {
		return loom.NewConfigurationError(m.Key, "the model has no id field")
	}
	def := id.Def
	switch {
	case def.Input.UniqueWhere == nil || graphql.NamedOf(def.Input.UniqueWhere.Type) != graphql.ID:
		return loom.NewConfigurationError(id.Path(), "the id field must have a uniqueWhere input of type ID")
	case def.Input.Where == nil:
		return loom.NewConfigurationError(id.Path(), "the id field must have a where input")
	case def.Output == nil:
		return loom.NewConfigurationError(id.Path(), "the id field must have an output field")
	case !id.Enabled.Read:
		return loom.NewConfigurationError(id.Path(), "the id field cannot be omitted from read")
	}
	return nil
}
