package field

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

var cuidPattern = regexp.MustCompile(`^c[a-z0-9]{7,}$`)

// ID returns the id field injected into every model. Values are exposed as
// GraphQL IDs and parsed according to the id kind when used in filters.
func ID(kind schema.IDKind) schema.FieldFunc {
	return func(fc schema.FieldContext) (*schema.FieldDef, error) {
		if kind == "" {
			kind = schema.IDAutoincrement
		}
		db := schema.DBField{
			Kind:       schema.DBScalar,
			Mode:       schema.ModeRequired,
			PrimaryKey: true,
		}
		switch kind {
		case schema.IDAutoincrement:
			db.Scalar = schema.ScalarInt
			db.Default = &schema.DBDefault{Kind: schema.DefaultAutoincrement}
		case schema.IDUUID:
			db.Scalar = schema.ScalarString
			db.Default = &schema.DBDefault{Kind: schema.DefaultUUID}
		case schema.IDCUID:
			db.Scalar = schema.ScalarString
			db.Default = &schema.DBDefault{Kind: schema.DefaultCUID}
		default:
			return nil, loom.NewConfigurationError(fc.Path(), "unknown id kind %q", kind)
		}
		parse := func(v any) (any, error) { return parseID(fc.Path(), kind, v) }
		return &schema.FieldDef{
			DB:           db,
			IsFilterable: true,
			IsOrderable:  true,
			Input: schema.FieldInput{
				Where: &schema.InputArg{Type: IDFilter, Resolve: func(_ context.Context, v any) (any, error) {
					return resolveIDFilter(v, parse)
				}},
				UniqueWhere: &schema.InputArg{Type: graphql.ID, Resolve: func(_ context.Context, v any) (any, error) {
					return parse(v)
				}},
				OrderBy: input(graphql.OrderDirection),
			},
			Output: &graphql.Field{
				Type: graphql.NonNullOf(graphql.ID),
				Resolve: func(_ context.Context, p graphql.ResolveParams) (any, error) {
					fv, _ := p.Source.(schema.FieldValue)
					if fv.Value == nil {
						return nil, nil
					}
					return fmt.Sprint(fv.Value), nil
				},
			},
			Views: ViewsID,
			UI: schema.FieldUI{
				CreateView: schema.FieldModeHidden,
				ItemView:   schema.FieldModeHidden,
				ListView:   schema.FieldModeHidden,
			},
			AdminMeta: func(*schema.AdminMeta) (any, error) {
				return map[string]any{"kind": kind}, nil
			},
		}, nil
	}
}

func parseID(path string, kind schema.IDKind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case schema.IDAutoincrement:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case string:
			i, err := strconv.Atoi(n)
			if err != nil {
				return nil, loom.NewUserInputError(path, "only an integer can be passed to id filters, got %q", n)
			}
			return i, nil
		}
	case schema.IDUUID:
		if s, ok := v.(string); ok {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, loom.NewUserInputError(path, "only a uuid can be passed to id filters, got %q", s)
			}
			return id.String(), nil
		}
	case schema.IDCUID:
		if s, ok := v.(string); ok {
			if !cuidPattern.MatchString(s) {
				return nil, loom.NewUserInputError(path, "only a cuid can be passed to id filters, got %q", s)
			}
			return s, nil
		}
	}
	return nil, loom.NewUserInputError(path, "unexpected id value of type %T", v)
}

// resolveIDFilter parses every id in an IDFilter value.
func resolveIDFilter(v any, parse func(any) (any, error)) (any, error) {
	if v == nil {
		return nil, nil
	}
	in, ok := v.(map[string]any)
	if !ok {
		return nil, loom.NewUserInputError("", "expected an IDFilter object, got %T", v)
	}
	out := make(map[string]any, len(in))
	for k, val := range in {
		switch k {
		case "equals", "lt", "lte", "gt", "gte":
			id, err := parse(val)
			if err != nil {
				return nil, err
			}
			out[k] = id
		case "in", "notIn":
			list, ok := val.([]any)
			if !ok && val != nil {
				return nil, loom.NewUserInputError("", "%s expects a list of ids", k)
			}
			ids := make([]any, 0, len(list))
			for _, item := range list {
				id, err := parse(item)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
			out[k] = ids
		case "not":
			not, err := resolveIDFilter(val, parse)
			if err != nil {
				return nil, err
			}
			out[k] = not
		default:
			return nil, loom.NewUserInputError("", "unknown id filter %q", k)
		}
	}
	return out, nil
}
