package field

import (
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// CheckboxConfig configures a checkbox field.
type CheckboxConfig struct {
	Common       `yaml:",inline"`
	DefaultValue bool `yaml:"defaultValue"`
	DB           struct {
		Map string `yaml:"map"`
	} `yaml:"db"`
}

// Checkbox returns a required boolean field.
func Checkbox(cfg CheckboxConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		dv := cfg.DefaultValue
		def := &schema.FieldDef{
			DB: schema.DBField{
				Kind:    schema.DBScalar,
				Scalar:  schema.ScalarBoolean,
				Mode:    schema.ModeRequired,
				Default: &schema.DBDefault{Kind: schema.DefaultLiteral, Value: dv},
				Map:     cfg.DB.Map,
			},
			Input: schema.FieldInput{
				Where:   input(BooleanFilter),
				Create:  &schema.InputArg{Type: graphql.Boolean, Resolve: defaultIfNil(&dv)},
				Update:  input(graphql.Boolean),
				OrderBy: input(graphql.OrderDirection),
			},
			Output: output(graphql.Boolean),
			Views:  ViewsCheckbox,
			AdminMeta: func(*schema.AdminMeta) (any, error) {
				return map[string]any{"defaultValue": dv}, nil
			},
		}
		return cfg.Common.apply(def), nil
	}
}
