package field

import (
	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// VirtualConfig configures a virtual field.
type VirtualConfig struct {
	Common
	// Field builds the output field. It receives the model registry so the
	// output may reference other models' types.
	Field func(schema.TypeRegistry) *graphql.Field
	// Query is the GraphQL selection the admin UI uses to fetch the value.
	Query string
}

// Virtual returns a read-only field computed by its resolver. Virtual
// fields have no database column.
func Virtual(cfg VirtualConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		if cfg.Field == nil {
			return nil, loom.NewConfigurationError(fc.Path(), "virtual fields require a field function")
		}
		out := cfg.Field(fc.Models)
		if out == nil || out.Type == nil || out.Resolve == nil {
			return nil, loom.NewConfigurationError(fc.Path(), "virtual fields require an output type and a resolver")
		}
		for _, opt := range []struct {
			name  string
			value any
		}{{"isFilterable", cfg.IsFilterable}, {"isOrderable", cfg.IsOrderable}} {
			if opt.value != nil {
				return nil, loom.NewConfigurationError(fc.Path(), "virtual fields do not support %s", opt.name)
			}
		}
		def := &schema.FieldDef{
			DB:     schema.DBField{Kind: schema.DBNone},
			Output: out,
			Views:  ViewsVirtual,
			UI: schema.FieldUI{
				CreateView: schema.FieldModeHidden,
				ItemView:   schema.FieldModeRead,
			},
			AdminMeta: func(*schema.AdminMeta) (any, error) {
				return map[string]any{"query": cfg.Query}, nil
			},
		}
		def = cfg.Common.apply(def)
		if def.UI.CreateView == schema.FieldModeEdit || def.UI.ItemView == schema.FieldModeEdit {
			return nil, loom.NewConfigurationError(fc.Path(), "virtual fields cannot be edited in the admin UI")
		}
		return def, nil
	}
}
