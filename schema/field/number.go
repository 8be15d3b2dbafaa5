package field

import (
	"context"
	"fmt"
	"math"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// IntegerConfig configures an integer field.
type IntegerConfig struct {
	Common    `yaml:",inline"`
	IsIndexed schema.IndexKind `yaml:"isIndexed"`
	// DefaultValue is ignored when Autoincrement is set.
	DefaultValue  *int              `yaml:"defaultValue"`
	Autoincrement bool              `yaml:"autoincrement"`
	Validation    IntegerValidation `yaml:"validation"`
	DB            ScalarDB          `yaml:"db"`
}

// IntegerValidation holds the validation rules of an integer field.
type IntegerValidation struct {
	IsRequired bool `yaml:"isRequired" json:"isRequired"`
	Min        *int `yaml:"min" json:"min"`
	Max        *int `yaml:"max" json:"max"`
}

// NumberMeta is the admin metadata of integer and float fields.
type NumberMeta struct {
	Validation   any  `json:"validation"`
	DefaultValue any  `json:"defaultValue"`
	IsNullable   bool `json:"isNullable"`
}

// Integer returns a 32-bit integer field.
func Integer(cfg IntegerConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		v := cfg.Validation
		for name, bound := range map[string]*int{"min": v.Min, "max": v.Max} {
			if bound != nil && (*bound < math.MinInt32 || *bound > math.MaxInt32) {
				return nil, loom.NewConfigurationError(fc.Path(), "validation.%s must be a 32-bit integer", name)
			}
		}
		if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
			return nil, loom.NewConfigurationError(fc.Path(), "validation.max cannot be less than validation.min")
		}
		if cfg.Autoincrement && cfg.DB.IsNullable {
			return nil, loom.NewConfigurationError(fc.Path(), "an autoincrement field cannot be nullable")
		}
		def := &schema.FieldDef{
			DB: schema.DBField{
				Kind:   schema.DBScalar,
				Scalar: schema.ScalarInt,
				Mode:   optionalMode(cfg.DB.IsNullable),
				Index:  cfg.IsIndexed,
				Map:    cfg.DB.Map,
			},
			Input: schema.FieldInput{
				Where:   input(IntFilter),
				Create:  &schema.InputArg{Type: graphql.Int, Resolve: defaultIfNil(cfg.DefaultValue)},
				Update:  input(graphql.Int),
				OrderBy: input(graphql.OrderDirection),
			},
			Output: output(graphql.Int),
			Views:  ViewsInteger,
			Hooks: schema.FieldHooks{
				ValidateInput: func(_ context.Context, args schema.HookArgs, addError func(string)) error {
					validateNumber(args, labelOf(cfg.Common, fc), v.IsRequired && !cfg.Autoincrement, intBound(v.Min), intBound(v.Max), addError)
					return nil
				},
			},
		}
		switch {
		case cfg.Autoincrement:
			def.DB.Default = &schema.DBDefault{Kind: schema.DefaultAutoincrement}
			def.Input.Create.Resolve = nil
		case cfg.DefaultValue != nil:
			def.DB.Default = &schema.DBDefault{Kind: schema.DefaultLiteral, Value: *cfg.DefaultValue}
		}
		if cfg.IsIndexed == schema.IndexUnique {
			def.Input.UniqueWhere = input(graphql.Int)
		}
		def.AdminMeta = func(*schema.AdminMeta) (any, error) {
			var dv any
			if cfg.Autoincrement {
				dv = map[string]string{"kind": "autoincrement"}
			} else if cfg.DefaultValue != nil {
				dv = *cfg.DefaultValue
			}
			return NumberMeta{Validation: v, DefaultValue: dv, IsNullable: cfg.DB.IsNullable}, nil
		}
		return cfg.Common.apply(def), nil
	}
}

// FloatConfig configures a float field.
type FloatConfig struct {
	Common       `yaml:",inline"`
	IsIndexed    schema.IndexKind `yaml:"isIndexed"`
	DefaultValue *float64         `yaml:"defaultValue"`
	Validation   FloatValidation  `yaml:"validation"`
	DB           ScalarDB         `yaml:"db"`
}

// FloatValidation holds the validation rules of a float field.
type FloatValidation struct {
	IsRequired bool     `yaml:"isRequired" json:"isRequired"`
	Min        *float64 `yaml:"min" json:"min"`
	Max        *float64 `yaml:"max" json:"max"`
}

// Float returns a float field.
func Float(cfg FloatConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		v := cfg.Validation
		for name, bound := range map[string]*float64{"min": v.Min, "max": v.Max} {
			if bound != nil && (math.IsNaN(*bound) || math.IsInf(*bound, 0)) {
				return nil, loom.NewConfigurationError(fc.Path(), "validation.%s must be a finite number", name)
			}
		}
		if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
			return nil, loom.NewConfigurationError(fc.Path(), "validation.max cannot be less than validation.min")
		}
		def := &schema.FieldDef{
			DB: schema.DBField{
				Kind:   schema.DBScalar,
				Scalar: schema.ScalarFloat,
				Mode:   optionalMode(cfg.DB.IsNullable),
				Index:  cfg.IsIndexed,
				Map:    cfg.DB.Map,
			},
			Input: schema.FieldInput{
				Where:   input(FloatFilter),
				Create:  &schema.InputArg{Type: graphql.Float, Resolve: defaultIfNil(cfg.DefaultValue)},
				Update:  input(graphql.Float),
				OrderBy: input(graphql.OrderDirection),
			},
			Output: output(graphql.Float),
			Views:  ViewsFloat,
			Hooks: schema.FieldHooks{
				ValidateInput: func(_ context.Context, args schema.HookArgs, addError func(string)) error {
					validateNumber(args, labelOf(cfg.Common, fc), v.IsRequired, v.Min, v.Max, addError)
					return nil
				},
			},
		}
		if cfg.DefaultValue != nil {
			def.DB.Default = &schema.DBDefault{Kind: schema.DefaultLiteral, Value: *cfg.DefaultValue}
		}
		if cfg.IsIndexed == schema.IndexUnique {
			def.Input.UniqueWhere = input(graphql.Float)
		}
		def.AdminMeta = func(*schema.AdminMeta) (any, error) {
			var dv any
			if cfg.DefaultValue != nil {
				dv = *cfg.DefaultValue
			}
			return NumberMeta{Validation: v, DefaultValue: dv, IsNullable: cfg.DB.IsNullable}, nil
		}
		return cfg.Common.apply(def), nil
	}
}

func intBound(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}

func labelOf(c Common, fc schema.FieldContext) string {
	if c.Label != "" {
		return c.Label
	}
	return graphql.Humanize(fc.FieldKey)
}

func validateNumber(args schema.HookArgs, label string, required bool, min, max *float64, addError func(string)) {
	if args.Operation != loom.OpCreate && args.Operation != loom.OpUpdate {
		return
	}
	var n float64
	switch v := args.Resolved.(type) {
	case nil:
		if required && args.Operation == loom.OpCreate {
			addError(fmt.Sprintf("%s is required", label))
		}
		return
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		n = v
	default:
		addError(fmt.Sprintf("%s must be a number", label))
		return
	}
	if min != nil && n < *min {
		addError(fmt.Sprintf("%s must be greater than or equal to %v", label, *min))
	}
	if max != nil && n > *max {
		addError(fmt.Sprintf("%s must be less than or equal to %v", label, *max))
	}
}
