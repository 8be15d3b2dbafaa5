package field

import (
	"context"
	"strings"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// Relationship display modes.
const (
	DisplaySelect = "select"
	DisplayCards  = "cards"
	DisplayCount  = "count"
)

// RelationshipConfig configures a relationship field.
type RelationshipConfig struct {
	Common `yaml:",inline"`
	// Ref is "Model" for a one-sided relation or "Model.field" for a
	// two-sided one.
	Ref  string `yaml:"ref"`
	Many bool   `yaml:"many"`
	// DisplayMode is "select" (default), "cards" or "count" (many only).
	DisplayMode string      `yaml:"displayMode"`
	HideCreate  bool        `yaml:"hideCreate"`
	LabelField  string      `yaml:"labelField"`
	Cards       CardsConfig `yaml:"cards"`
	DB          RelationDB  `yaml:"db"`
}

// CardsConfig configures the cards display mode.
type CardsConfig struct {
	CardFields    []string      `yaml:"cardFields" json:"cardFields"`
	LinkToItem    bool          `yaml:"linkToItem" json:"linkToItem"`
	RemoveMode    string        `yaml:"removeMode" json:"removeMode"`
	InlineCreate  *InlineFields `yaml:"inlineCreate" json:"inlineCreate"`
	InlineEdit    *InlineFields `yaml:"inlineEdit" json:"inlineEdit"`
	InlineConnect bool          `yaml:"inlineConnect" json:"inlineConnect"`
}

// InlineFields lists the fields shown by inline create and edit forms.
type InlineFields struct {
	Fields []string `yaml:"fields" json:"fields"`
}

// RelationDB holds database options of a relationship.
type RelationDB struct {
	// ForeignKey places the foreign key of a one-to-one relation on this side.
	ForeignKey   *schema.ForeignKey `yaml:"foreignKey"`
	RelationName string             `yaml:"relationName"`
}

// RelationshipMeta is the admin metadata of a relationship field.
type RelationshipMeta struct {
	RefModelKey   string  `json:"refModelKey"`
	RefFieldKey   *string `json:"refFieldKey"`
	Many          bool    `json:"many"`
	HideCreate    bool    `json:"hideCreate"`
	DisplayMode   string  `json:"displayMode"`
	RefLabelField string  `json:"refLabelField,omitempty"`
	*CardsConfig
}

// Relationship returns a field relating items of this model to items of
// another model.
func Relationship(cfg RelationshipConfig) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		refModel, refField, _ := strings.Cut(cfg.Ref, ".")
		ref, ok := fc.Models.Model(refModel)
		if !ok {
			return nil, loom.NewConfigurationError(fc.Path(), "unable to resolve related model %q from ref %q", refModel, cfg.Ref)
		}
		mode := cfg.DisplayMode
		switch mode {
		case "":
			mode = DisplaySelect
		case DisplaySelect, DisplayCards:
		case DisplayCount:
			if !cfg.Many {
				return nil, loom.NewConfigurationError(fc.Path(), "the count display mode is only supported on many relationships")
			}
		default:
			return nil, loom.NewConfigurationError(fc.Path(), "unknown ui.displayMode %q", cfg.DisplayMode)
		}
		if cfg.Many && cfg.DB.ForeignKey != nil {
			return nil, loom.NewConfigurationError(fc.Path(), "db.foreignKey is only supported on one relationships")
		}
		if !cfg.Many && cfg.DB.RelationName != "" {
			return nil, loom.NewConfigurationError(fc.Path(), "db.relationName is only supported on many relationships")
		}

		def := &schema.FieldDef{
			DB: schema.DBField{
				Kind:         schema.DBRelation,
				RelationMode: schema.RelationOne,
				Ref:          cfg.Ref,
				RelationName: cfg.DB.RelationName,
				ForeignKey:   cfg.DB.ForeignKey,
			},
			Views:     ViewsRelationship,
			AdminMeta: relationshipAdminMeta(cfg, fc, refModel, refField, mode),
		}
		types := ref.Types
		if cfg.Many {
			def.DB.RelationMode = schema.RelationMany
			def.Input.Where = input(types.ManyRelationFilter)
			if t := types.RelateTo.Many.Create; t != nil {
				def.Input.Create = input(t)
			}
			if t := types.RelateTo.Many.Update; t != nil {
				def.Input.Update = input(t)
			}
			def.Output = &graphql.Field{
				Type:    graphql.ListOf(graphql.NonNullOf(types.Output)),
				Args:    types.FindManyArgs,
				Resolve: resolveMany,
			}
			def.ExtraOutputFields = []*graphql.Field{{
				Name: fc.FieldKey + "Count",
				Type: graphql.Int,
				Args: []*graphql.Argument{
					graphql.ArgWithDefault("where", graphql.NonNullOf(types.Where), map[string]any{}),
				},
				Resolve: resolveCount,
			}}
		} else {
			def.Input.Where = input(types.Where)
			if t := types.RelateTo.One.Create; t != nil {
				def.Input.Create = input(t)
			}
			if t := types.RelateTo.One.Update; t != nil {
				def.Input.Update = input(t)
			}
			def.Output = &graphql.Field{Type: types.Output, Resolve: resolveOne}
		}
		return cfg.Common.apply(def), nil
	}
}

func relationshipAdminMeta(cfg RelationshipConfig, fc schema.FieldContext, refModel, refField, mode string) func(*schema.AdminMeta) (any, error) {
	return func(meta *schema.AdminMeta) (any, error) {
		target, ok := meta.ModelByKey[refModel]
		if !ok {
			return nil, loom.NewConfigurationError(fc.Path(), "the ref [%s] on relationship [%s] is invalid", cfg.Ref, fc.Path())
		}
		m := RelationshipMeta{
			RefModelKey: refModel,
			Many:        cfg.Many,
			HideCreate:  cfg.HideCreate,
			DisplayMode: mode,
		}
		if refField != "" {
			m.RefFieldKey = &refField
		}
		if mode == DisplayCount {
			return m, nil
		}
		m.RefLabelField = target.LabelField
		if cfg.LabelField != "" {
			if target.Field(cfg.LabelField) == nil {
				return nil, loom.NewConfigurationError(fc.Path(),
					"the ui.labelField option includes the %q field but that field does not exist on the %q model", cfg.LabelField, refModel)
			}
			m.RefLabelField = cfg.LabelField
		}
		if mode != DisplayCards {
			return m, nil
		}
		if current := meta.ModelByKey[fc.ModelKey]; current != nil && current.Field(fc.FieldKey) != nil {
			checks := []struct {
				option string
				fields []string
			}{
				{"ui.cardFields", cfg.Cards.CardFields},
				{"ui.inlineCreate.fields", inlineFields(cfg.Cards.InlineCreate)},
				{"ui.inlineEdit.fields", inlineFields(cfg.Cards.InlineEdit)},
			}
			for _, c := range checks {
				for _, f := range c.fields {
					if target.Field(f) == nil {
						return nil, loom.NewConfigurationError(fc.Path(),
							"the %s option on the relationship field at %s includes the %q field but that field does not exist on the %q model",
							c.option, fc.Path(), f, refModel)
					}
				}
			}
		}
		cards := cfg.Cards
		if cards.RemoveMode == "" {
			cards.RemoveMode = "disconnect"
		}
		m.CardsConfig = &cards
		return m, nil
	}
}

func inlineFields(f *InlineFields) []string {
	if f == nil {
		return nil
	}
	return f.Fields
}

// ManyRelation is the stored value of a many relationship.
type ManyRelation interface {
	FindMany(ctx context.Context, args map[string]any) (any, error)
	Count(ctx context.Context, where any) (int, error)
}

// OneRelation is the stored value of a one relationship.
type OneRelation interface {
	FindOne(ctx context.Context) (any, error)
}

func resolveMany(ctx context.Context, p graphql.ResolveParams) (any, error) {
	rel, ok := fieldValue(p).(ManyRelation)
	if !ok {
		return nil, nil
	}
	return rel.FindMany(ctx, p.Args)
}

func resolveCount(ctx context.Context, p graphql.ResolveParams) (any, error) {
	rel, ok := fieldValue(p).(ManyRelation)
	if !ok {
		return nil, nil
	}
	return rel.Count(ctx, p.Args["where"])
}

func resolveOne(ctx context.Context, p graphql.ResolveParams) (any, error) {
	rel, ok := fieldValue(p).(OneRelation)
	if !ok {
		return nil, nil
	}
	return rel.FindOne(ctx)
}

func fieldValue(p graphql.ResolveParams) any {
	fv, _ := p.Source.(schema.FieldValue)
	return fv.Value
}
