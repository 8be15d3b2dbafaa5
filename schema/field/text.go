package field

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// TextConfig configures a text field.
type TextConfig struct {
	Common       `yaml:",inline"`
	IsIndexed    schema.IndexKind `yaml:"isIndexed"`
	DefaultValue *string          `yaml:"defaultValue"`
	Validation   TextValidation   `yaml:"validation"`
	DB           ScalarDB         `yaml:"db"`
	// DisplayMode is "input" (default) or "textarea".
	DisplayMode string `yaml:"displayMode"`
}

// TextValidation holds the validation rules of a text field.
type TextValidation struct {
	IsRequired bool        `yaml:"isRequired"`
	Length     LengthRange `yaml:"length"`
	Match      *Match      `yaml:"match"`
}

// LengthRange bounds the length of a string.
type LengthRange struct {
	Min *int `yaml:"min" json:"min"`
	Max *int `yaml:"max" json:"max"`
}

// Match requires a string to match a regular expression.
type Match struct {
	Regex       string `yaml:"regex" json:"regex"`
	Explanation string `yaml:"explanation" json:"explanation"`
}

// ScalarDB holds database options of scalar fields.
type ScalarDB struct {
	IsNullable bool   `yaml:"isNullable"`
	Map        string `yaml:"map"`
}

// TextMeta is the admin metadata of a text field.
type TextMeta struct {
	DisplayMode              string             `json:"displayMode"`
	ShouldUseModeInsensitive bool               `json:"shouldUseModeInsensitive"`
	IsNullable               bool               `json:"isNullable"`
	Validation               TextValidationMeta `json:"validation"`
	DefaultValue             *string            `json:"defaultValue"`
}

// TextValidationMeta is the validation part of TextMeta.
type TextValidationMeta struct {
	IsRequired bool        `json:"isRequired"`
	Match      *Match      `json:"match"`
	Length     LengthRange `json:"length"`
}

// Text returns a text field.
func Text(cfg TextConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		v := cfg.Validation
		if min := v.Length.Min; min != nil && *min < 0 {
			return nil, loom.NewConfigurationError(fc.Path(), "validation.length.min must be positive")
		}
		if max := v.Length.Max; max != nil && *max < 0 {
			return nil, loom.NewConfigurationError(fc.Path(), "validation.length.max must be positive")
		}
		if v.Length.Min != nil && v.Length.Max != nil && *v.Length.Min > *v.Length.Max {
			return nil, loom.NewConfigurationError(fc.Path(), "validation.length.max cannot be less than validation.length.min")
		}
		var re *regexp.Regexp
		if v.Match != nil {
			var err error
			if re, err = regexp.Compile(v.Match.Regex); err != nil {
				return nil, loom.WrapConfigurationError(fc.Path(), err, "validation.match.regex is invalid")
			}
		}
		switch cfg.DisplayMode {
		case "", "input", "textarea":
		default:
			return nil, loom.NewConfigurationError(fc.Path(), "unknown ui.displayMode %q", cfg.DisplayMode)
		}
		nullable := cfg.DB.IsNullable
		defaultValue := cfg.DefaultValue
		if defaultValue == nil && !nullable {
			empty := ""
			defaultValue = &empty
		}

		def := &schema.FieldDef{
			DB: schema.DBField{
				Kind:   schema.DBScalar,
				Scalar: schema.ScalarString,
				Mode:   optionalMode(nullable),
				Index:  cfg.IsIndexed,
				Map:    cfg.DB.Map,
			},
			Input: schema.FieldInput{
				Where: input(StringFilter(fc.Provider)),
				Create: &schema.InputArg{
					Type:    graphql.String,
					Resolve: defaultIfNil(defaultValue),
				},
				Update:  input(graphql.String),
				OrderBy: input(graphql.OrderDirection),
			},
			Output: output(graphql.String),
			Views:  ViewsText,
			Hooks: schema.FieldHooks{
				ValidateInput: func(_ context.Context, args schema.HookArgs, addError func(string)) error {
					validateText(args, cfg.Label, fc.FieldKey, v, re, nullable, addError)
					return nil
				},
			},
		}
		if defaultValue != nil {
			def.DB.Default = &schema.DBDefault{Kind: schema.DefaultLiteral, Value: *defaultValue}
		}
		if cfg.IsIndexed == schema.IndexUnique {
			def.Input.UniqueWhere = input(graphql.String)
		}
		displayMode := cfg.DisplayMode
		if displayMode == "" {
			displayMode = "input"
		}
		def.AdminMeta = func(*schema.AdminMeta) (any, error) {
			return TextMeta{
				DisplayMode:              displayMode,
				ShouldUseModeInsensitive: fc.Provider == schema.ProviderPostgres,
				IsNullable:               nullable,
				Validation: TextValidationMeta{
					IsRequired: v.IsRequired,
					Match:      v.Match,
					Length:     v.Length,
				},
				DefaultValue: defaultValue,
			}, nil
		}
		return cfg.Common.apply(def), nil
	}
}

func validateText(args schema.HookArgs, label, key string, v TextValidation, re *regexp.Regexp, nullable bool, addError func(string)) {
	if label == "" {
		label = graphql.Humanize(key)
	}
	if args.Operation != loom.OpCreate && args.Operation != loom.OpUpdate {
		return
	}
	s, ok := args.Resolved.(string)
	if !ok {
		// Nil on update means the field is not being changed.
		if args.Resolved == nil && args.Operation == loom.OpCreate && (v.IsRequired || !nullable) {
			addError(fmt.Sprintf("%s is required", label))
		}
		return
	}
	n := utf8.RuneCountInString(s)
	if v.IsRequired && n == 0 && (v.Length.Min == nil || *v.Length.Min == 0) {
		addError(fmt.Sprintf("%s must not be empty", label))
	}
	if min := v.Length.Min; min != nil && n < *min {
		if *min == 1 {
			addError(fmt.Sprintf("%s must not be empty", label))
		} else {
			addError(fmt.Sprintf("%s must be at least %d characters long", label, *min))
		}
	}
	if max := v.Length.Max; max != nil && n > *max {
		addError(fmt.Sprintf("%s must be no longer than %d characters", label, *max))
	}
	if re != nil && !re.MatchString(s) {
		msg := v.Match.Explanation
		if msg == "" {
			msg = fmt.Sprintf("%s must match %s", label, v.Match.Regex)
		}
		addError(msg)
	}
}

// defaultIfNil resolves a missing create value to the field default.
func defaultIfNil[T any](def *T) schema.InputResolver {
	return func(_ context.Context, value any) (any, error) {
		if value == nil {
			if def == nil {
				return nil, nil
			}
			return *def, nil
		}
		return value, nil
	}
}
