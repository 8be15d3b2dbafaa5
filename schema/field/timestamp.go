package field

import (
	"context"
	"fmt"
	"time"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// TimestampConfig configures a timestamp field.
type TimestampConfig struct {
	Common    `yaml:",inline"`
	IsIndexed schema.IndexKind `yaml:"isIndexed"`
	// DefaultValue is an RFC 3339 timestamp.
	DefaultValue *string `yaml:"defaultValue"`
	DefaultNow   bool    `yaml:"defaultNow"`
	Validation   struct {
		IsRequired bool `yaml:"isRequired" json:"isRequired"`
	} `yaml:"validation"`
	DB struct {
		ScalarDB  `yaml:",inline"`
		UpdatedAt bool `yaml:"updatedAt"`
	} `yaml:"db"`
}

// Timestamp returns a date-time field.
func Timestamp(cfg TimestampConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		var dv *time.Time
		if cfg.DefaultValue != nil {
			t, err := time.Parse(time.RFC3339, *cfg.DefaultValue)
			if err != nil {
				return nil, loom.WrapConfigurationError(fc.Path(), err, "defaultValue must be an RFC 3339 timestamp")
			}
			dv = &t
		}
		if cfg.DefaultNow && dv != nil {
			return nil, loom.NewConfigurationError(fc.Path(), "defaultValue and defaultNow cannot both be set")
		}
		label := labelOf(cfg.Common, fc)
		def := &schema.FieldDef{
			DB: schema.DBField{
				Kind:      schema.DBScalar,
				Scalar:    schema.ScalarDateTime,
				Mode:      optionalMode(cfg.DB.IsNullable),
				Index:     cfg.IsIndexed,
				Map:       cfg.DB.Map,
				UpdatedAt: cfg.DB.UpdatedAt,
			},
			Input: schema.FieldInput{
				Where: input(DateTimeFilter),
				Create: &schema.InputArg{Type: graphql.DateTime, Resolve: func(ctx context.Context, value any) (any, error) {
					if value == nil && dv != nil {
						return *dv, nil
					}
					return parseTimestamp(fc.Path(), value)
				}},
				Update: &schema.InputArg{Type: graphql.DateTime, Resolve: func(_ context.Context, value any) (any, error) {
					return parseTimestamp(fc.Path(), value)
				}},
				OrderBy: input(graphql.OrderDirection),
			},
			Output: output(graphql.DateTime),
			Views:  ViewsTimestamp,
			Hooks: schema.FieldHooks{
				ValidateInput: func(_ context.Context, args schema.HookArgs, addError func(string)) error {
					if cfg.Validation.IsRequired && args.Operation == loom.OpCreate && args.Resolved == nil && !cfg.DefaultNow {
						addError(fmt.Sprintf("%s is required", label))
					}
					return nil
				},
			},
		}
		switch {
		case cfg.DefaultNow:
			def.DB.Default = &schema.DBDefault{Kind: schema.DefaultNow}
		case dv != nil:
			def.DB.Default = &schema.DBDefault{Kind: schema.DefaultLiteral, Value: *dv}
		}
		if cfg.IsIndexed == schema.IndexUnique {
			def.Input.UniqueWhere = input(graphql.DateTime)
		}
		def.AdminMeta = func(*schema.AdminMeta) (any, error) {
			var d any
			switch {
			case cfg.DefaultNow:
				d = map[string]string{"kind": "now"}
			case cfg.DefaultValue != nil:
				d = *cfg.DefaultValue
			}
			return map[string]any{
				"defaultValue": d,
				"isRequired":   cfg.Validation.IsRequired,
				"updatedAt":    cfg.DB.UpdatedAt,
			}, nil
		}
		return cfg.Common.apply(def), nil
	}
}

func parseTimestamp(path string, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, loom.NewUserInputError(path, "%q is not an RFC 3339 timestamp", v)
		}
		return t, nil
	default:
		return nil, loom.NewUserInputError(path, "expected a timestamp, got %T", value)
	}
}
