package core

import (
	"regexp"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/privacy"
	"github.com/syssam/loom/schema"
)

// modelEnablement derives the operations a model exposes from its omit
// option. The filter and order-by defaults of an omitted model are not
// validated.
func modelEnablement(cfg *schema.ModelConfig) (*schema.ModelEnablement, error) {
	omit := cfg.GraphQL.Omit
	if omit != nil && omit.All {
		return &schema.ModelEnablement{}, nil
	}
	filter, err := gateOrDefault(cfg.DefaultIsFilterable, cfg.Key, "defaultIsFilterable", privacy.StaticGate(true))
	if err != nil {
		return nil, err
	}
	orderBy, err := gateOrDefault(cfg.DefaultIsOrderable, cfg.Key, "defaultIsOrderable", privacy.StaticGate(true))
	if err != nil {
		return nil, err
	}
	return &schema.ModelEnablement{
		Type:    true,
		Query:   !omit.Has(loom.OpQuery),
		Create:  !omit.Has(loom.OpCreate),
		Update:  !omit.Has(loom.OpUpdate),
		Delete:  !omit.Has(loom.OpDelete),
		Filter:  filter,
		OrderBy: orderBy,
	}, nil
}

// fieldEnablement derives the operations a field takes part in. Filter and
// order-by fall back to the model defaults and require read.
func fieldEnablement(def *schema.FieldDef, path string, model *schema.ModelEnablement) (FieldEnablement, error) {
	omit := def.GraphQL.Omit
	all := omit != nil && omit.All
	read := !all && !omit.Has(loom.OpRead)
	filter, err := gateOrDefault(def.IsFilterable, path, "isFilterable", model.Filter)
	if err != nil {
		return FieldEnablement{}, err
	}
	orderBy, err := gateOrDefault(def.IsOrderable, path, "isOrderable", model.OrderBy)
	if err != nil {
		return FieldEnablement{}, err
	}
	return FieldEnablement{
		Read:    read,
		Create:  !all && !omit.Has(loom.OpCreate),
		Update:  !all && !omit.Has(loom.OpUpdate),
		Filter:  filter.When(read),
		OrderBy: orderBy.When(read),
	}, nil
}

func gateOrDefault(v any, path, option string, def privacy.Gate) (privacy.Gate, error) {
	g, ok, err := privacy.ParseGate(v, path, option)
	if err != nil {
		return privacy.Gate{}, err
	}
	if !ok {
		return def, nil
	}
	return g, nil
}

var adminPath = regexp.MustCompile(`^[a-z\-_][a-z0-9\-_]*$`)

// modelNames derives the labels and the plural GraphQL name of a model.
func modelNames(cfg *schema.ModelConfig) (Labels, string, error) {
	singular := graphql.Humanize(cfg.Key)
	plural := graphql.Pluralize(singular)
	ui := cfg.UI
	if ui.Path != "" && !adminPath.MatchString(ui.Path) {
		return Labels{}, "", loom.NewConfigurationError(cfg.Key,
			"ui.path is %q but it must only contain lowercase letters, numbers, dashes, and underscores and not start with a number", ui.Path)
	}
	labels := Labels{
		Label:    or(ui.Label, plural),
		Singular: or(ui.Singular, singular),
		Plural:   or(ui.Plural, plural),
		Path:     or(ui.Path, graphql.LabelToPath(plural)),
	}
	gqlPlural := or(cfg.GraphQL.Plural, graphql.LabelToClass(plural))
	if gqlPlural == cfg.Key {
		return Labels{}, "", loom.NewConfigurationError(cfg.Key,
			"the model key and the plural name used in GraphQL must be different but the model key %s is the same as the plural GraphQL name, please specify graphql.plural", cfg.Key)
	}
	if !graphql.ValidName(gqlPlural) {
		return Labels{}, "", loom.NewConfigurationError(cfg.Key, "graphql.plural %q is not a valid GraphQL name", gqlPlural)
	}
	return labels, gqlPlural, nil
}

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
