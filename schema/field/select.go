package field

import (
	"context"
	"fmt"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// SelectType is the storage type of a select field.
type SelectType string

// Select types.
const (
	SelectString  SelectType = "string"
	SelectEnum    SelectType = "enum"
	SelectInteger SelectType = "integer"
)

// SelectOption is one choice of a select field.
type SelectOption struct {
	Label string `yaml:"label" json:"label"`
	Value any    `yaml:"value" json:"value"`
}

// SelectConfig configures a select field.
type SelectConfig struct {
	Common       `yaml:",inline"`
	Type         SelectType       `yaml:"dataType"`
	Options      []SelectOption   `yaml:"options"`
	IsIndexed    schema.IndexKind `yaml:"isIndexed"`
	DefaultValue any              `yaml:"defaultValue"`
	Validation   struct {
		IsRequired bool `yaml:"isRequired"`
	} `yaml:"validation"`
	DB ScalarDB `yaml:"db"`
	// DisplayMode is "select" (default), "segmented-control" or "radio".
	DisplayMode string `yaml:"displayMode"`
}

// SelectMeta is the admin metadata of a select field.
type SelectMeta struct {
	Options      []SelectOption `json:"options"`
	Type         SelectType     `json:"type"`
	DisplayMode  string         `json:"displayMode"`
	IsRequired   bool           `json:"isRequired"`
	DefaultValue any            `json:"defaultValue"`
}

// Select returns a field restricted to a fixed set of options. Enum
// selects get a GraphQL enum named "<Model><Field>Type".
func Select(cfg SelectConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		typ := cfg.Type
		if typ == "" {
			typ = SelectString
		}
		if len(cfg.Options) == 0 {
			return nil, loom.NewConfigurationError(fc.Path(), "select fields require at least one option")
		}
		values := make(map[any]bool, len(cfg.Options))
		for _, o := range cfg.Options {
			v, err := normalizeOption(typ, o.Value)
			if err != nil {
				return nil, loom.WrapConfigurationError(fc.Path(), err, "invalid option %q", o.Label)
			}
			if values[v] {
				return nil, loom.NewConfigurationError(fc.Path(), "duplicate option value %v", o.Value)
			}
			values[v] = true
		}
		var dv any
		if cfg.DefaultValue != nil {
			v, err := normalizeOption(typ, cfg.DefaultValue)
			if err != nil || !values[v] {
				return nil, loom.NewConfigurationError(fc.Path(), "defaultValue %v is not one of the options", cfg.DefaultValue)
			}
			dv = v
		}
		displayMode := cfg.DisplayMode
		switch displayMode {
		case "":
			displayMode = "select"
		case "select", "segmented-control", "radio":
		default:
			return nil, loom.NewConfigurationError(fc.Path(), "unknown ui.displayMode %q", cfg.DisplayMode)
		}

		var (
			gqlType graphql.Type
			filter  *graphql.InputObject
			scalar  = schema.ScalarString
		)
		switch typ {
		case SelectString:
			gqlType, filter = graphql.String, StringFilter(fc.Provider)
		case SelectInteger:
			gqlType, filter, scalar = graphql.Int, IntFilter, schema.ScalarInt
		case SelectEnum:
			name := fc.ModelKey + graphql.LabelToClass(graphql.Humanize(fc.FieldKey)) + "Type"
			evs := make([]graphql.EnumValue, 0, len(cfg.Options))
			for _, o := range cfg.Options {
				evs = append(evs, graphql.EnumValue{Name: o.Value.(string), Description: o.Label})
			}
			enum := graphql.NewEnum(name, "", evs...)
			gqlType, filter = enum, enumFilter(enum)
		}

		resolve := func(_ context.Context, value any) (any, error) {
			if value == nil {
				return nil, nil
			}
			v, err := normalizeOption(typ, value)
			if err != nil || !values[v] {
				return nil, loom.NewUserInputError(fc.Path(), "%v is not a valid option", value)
			}
			return v, nil
		}
		createResolve := func(ctx context.Context, value any) (any, error) {
			if value == nil {
				return dv, nil
			}
			return resolve(ctx, value)
		}
		label := labelOf(cfg.Common, fc)

		def := &schema.FieldDef{
			DB: schema.DBField{
				Kind:   schema.DBScalar,
				Scalar: scalar,
				Mode:   optionalMode(cfg.DB.IsNullable),
				Index:  cfg.IsIndexed,
				Map:    cfg.DB.Map,
			},
			Input: schema.FieldInput{
				Where:   input(filter),
				Create:  &schema.InputArg{Type: gqlType, Resolve: createResolve},
				Update:  &schema.InputArg{Type: gqlType, Resolve: resolve},
				OrderBy: input(graphql.OrderDirection),
			},
			Output: output(gqlType),
			Views:  ViewsSelect,
			Hooks: schema.FieldHooks{
				ValidateInput: func(_ context.Context, args schema.HookArgs, addError func(string)) error {
					if cfg.Validation.IsRequired && args.Operation == loom.OpCreate && args.Resolved == nil {
						addError(fmt.Sprintf("%s is required", label))
					}
					return nil
				},
			},
			AdminMeta: func(*schema.AdminMeta) (any, error) {
				return SelectMeta{
					Options:      cfg.Options,
					Type:         typ,
					DisplayMode:  displayMode,
					IsRequired:   cfg.Validation.IsRequired,
					DefaultValue: dv,
				}, nil
			},
		}
		if dv != nil {
			def.DB.Default = &schema.DBDefault{Kind: schema.DefaultLiteral, Value: dv}
		}
		if cfg.IsIndexed == schema.IndexUnique {
			def.Input.UniqueWhere = input(gqlType)
		}
		return cfg.Common.apply(def), nil
	}
}

func normalizeOption(typ SelectType, v any) (any, error) {
	switch typ {
	case SelectInteger:
		switch n := v.(type) {
		case int:
			if n < -1<<31 || n > 1<<31-1 {
				return nil, fmt.Errorf("%d is not a 32-bit integer", n)
			}
			return n, nil
		case int64:
			return normalizeOption(typ, int(n))
		case float64:
			if n != float64(int(n)) {
				return nil, fmt.Errorf("%v is not an integer", n)
			}
			return normalizeOption(typ, int(n))
		default:
			return nil, fmt.Errorf("expected an integer, got %T", v)
		}
	case SelectEnum:
		s, ok := v.(string)
		if !ok || !graphql.ValidName(s) {
			return nil, fmt.Errorf("enum values must be valid GraphQL names, got %v", v)
		}
		return s, nil
	default:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		return s, nil
	}
}

func enumFilter(enum *graphql.Enum) *graphql.InputObject {
	var self *graphql.InputObject
	self = graphql.NewInputObject(enum.Name()+"Filter", "", func() []*graphql.Argument {
		list := graphql.ListOf(graphql.NonNullOf(enum))
		return []*graphql.Argument{
			graphql.Arg("equals", enum),
			graphql.Arg("in", list),
			graphql.Arg("notIn", list),
			graphql.Arg("not", self),
		}
	})
	return self
}
