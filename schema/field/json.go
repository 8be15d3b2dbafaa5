package field

import (
	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// JSONConfig configures a JSON field.
type JSONConfig struct {
	Common       `yaml:",inline"`
	DefaultValue any `yaml:"defaultValue"`
	DB           struct {
		Map string `yaml:"map"`
	} `yaml:"db"`
}

// JSON returns a field storing an arbitrary JSON value. JSON fields cannot
// be filtered or ordered by.
func JSON(cfg JSONConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		if b, ok := cfg.IsFilterable.(bool); ok && b {
			return nil, loom.NewConfigurationError(fc.Path(), "JSON fields cannot be filterable")
		}
		if b, ok := cfg.IsOrderable.(bool); ok && b {
			return nil, loom.NewConfigurationError(fc.Path(), "JSON fields cannot be orderable")
		}
		dv := cfg.DefaultValue
		def := &schema.FieldDef{
			DB: schema.DBField{
				Kind:   schema.DBScalar,
				Scalar: schema.ScalarJSON,
				Mode:   schema.ModeOptional,
				Map:    cfg.DB.Map,
			},
			Input: schema.FieldInput{
				Create: &schema.InputArg{Type: graphql.JSON, Resolve: defaultIfNil(&dv)},
				Update: input(graphql.JSON),
			},
			Output: output(graphql.JSON),
			Views:  ViewsJSON,
			AdminMeta: func(*schema.AdminMeta) (any, error) {
				return map[string]any{"defaultValue": dv}, nil
			},
		}
		if dv != nil {
			def.DB.Default = &schema.DBDefault{Kind: schema.DefaultLiteral, Value: dv}
		}
		return cfg.Common.apply(def), nil
	}
}
