package core

import (
	"context"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/privacy"
	"github.com/syssam/loom/schema"
)

// buildTypes creates the type bundle of a model. Every field set is a lazy
// function over the sealed registry.
func (r *Registry) buildTypes(cfg *schema.ModelConfig, names graphql.Names, en *schema.ModelEnablement) *schema.ModelTypes {
	key := cfg.Key
	fields := func() []*Field { return r.sealedModel(key).Fields }
	t := &schema.ModelTypes{}

	desc := or(cfg.GraphQL.Description, cfg.Description)
	t.Output = graphql.NewObject(names.Output, desc, func() []*graphql.Field {
		var out []*graphql.Field
		for _, f := range fields() {
			if f.Def.Output == nil || !f.Enabled.Read || r.excluded(f) {
				continue
			}
			out = append(out, outputField(f, f.Key, f.Def.Output))
			for _, extra := range f.Def.ExtraOutputFields {
				out = append(out, outputField(f, extra.Name, extra))
			}
		}
		return out
	})

	t.UniqueWhere = graphql.NewInputObject(names.WhereUniqueInput, "", func() []*graphql.Argument {
		var args []*graphql.Argument
		for _, f := range fields() {
			if in := f.Def.Input.UniqueWhere; in != nil && f.Enabled.Read && f.Enabled.Filter.Enabled() && !r.excluded(f) {
				args = append(args, argument(f.Key, in))
			}
		}
		return args
	})

	var where *graphql.InputObject
	where = graphql.NewInputObject(names.WhereInput, "", func() []*graphql.Argument {
		list := graphql.ListOf(graphql.NonNullOf(where))
		args := []*graphql.Argument{
			graphql.Arg("AND", list),
			graphql.Arg("OR", list),
			graphql.Arg("NOT", list),
		}
		for _, f := range fields() {
			if in := f.Def.Input.Where; in != nil && f.Enabled.Read && f.Enabled.Filter.Enabled() && !r.excluded(f) {
				args = append(args, argument(f.Key, in))
			}
		}
		return args
	})
	t.Where = where

	t.Create = graphql.NewInputObject(names.CreateInput, "", func() []*graphql.Argument {
		var args []*graphql.Argument
		for _, f := range fields() {
			if in := f.Def.Input.Create; in != nil && f.Enabled.Create && !r.excluded(f) {
				args = append(args, argument(f.Key, in))
			}
		}
		return args
	})

	t.Update = graphql.NewInputObject(names.UpdateInput, "", func() []*graphql.Argument {
		var args []*graphql.Argument
		for _, f := range fields() {
			if in := f.Def.Input.Update; in != nil && f.Enabled.Update && !r.excluded(f) {
				args = append(args, argument(f.Key, in))
			}
		}
		return args
	})

	t.OrderBy = graphql.NewInputObject(names.OrderByInput, "", func() []*graphql.Argument {
		var args []*graphql.Argument
		for _, f := range fields() {
			if in := f.Def.Input.OrderBy; in != nil && f.Enabled.Read && f.Enabled.OrderBy.Enabled() && !r.excluded(f) {
				args = append(args, argument(f.Key, in))
			}
		}
		return args
	})

	t.FindManyArgs = []*graphql.Argument{
		graphql.ArgWithDefault("where", graphql.NonNullOf(t.Where), map[string]any{}),
		graphql.ArgWithDefault("orderBy", graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(t.OrderBy))), []any{}),
		graphql.Arg("take", graphql.Int),
		graphql.ArgWithDefault("skip", graphql.NonNullOf(graphql.Int), 0),
	}

	t.ManyRelationFilter = graphql.NewInputObject(names.ManyRelationFilter, "", func() []*graphql.Argument {
		return []*graphql.Argument{
			graphql.Arg("every", t.Where),
			graphql.Arg("some", t.Where),
			graphql.Arg("none", t.Where),
		}
	})
	t.RelateTo.Many.Where = t.ManyRelationFilter

	if !en.Type {
		return t
	}
	// en.Create is read lazily: the zero-field guard may still clear it.
	uniqueList := graphql.ListOf(graphql.NonNullOf(t.UniqueWhere))
	t.RelateTo.Many.Create = graphql.NewInputObject(names.RelateToManyForCreateInput, "", func() []*graphql.Argument {
		var args []*graphql.Argument
		if en.Create {
			args = append(args, graphql.Arg("create", graphql.ListOf(graphql.NonNullOf(t.Create))))
		}
		return append(args, graphql.Arg("connect", uniqueList))
	})
	// Update fields are listed in the order they are applied.
	t.RelateTo.Many.Update = graphql.NewInputObject(names.RelateToManyForUpdateInput, "", func() []*graphql.Argument {
		args := []*graphql.Argument{
			graphql.Arg("disconnect", uniqueList),
			graphql.Arg("set", uniqueList),
		}
		if en.Create {
			args = append(args, graphql.Arg("create", graphql.ListOf(graphql.NonNullOf(t.Create))))
		}
		return append(args, graphql.Arg("connect", uniqueList))
	})
	t.RelateTo.One.Create = graphql.NewInputObject(names.RelateToOneForCreateInput, "", func() []*graphql.Argument {
		var args []*graphql.Argument
		if en.Create {
			args = append(args, graphql.Arg("create", t.Create))
		}
		return append(args, graphql.Arg("connect", t.UniqueWhere))
	})
	t.RelateTo.One.Update = graphql.NewInputObject(names.RelateToOneForUpdateInput, "", func() []*graphql.Argument {
		var args []*graphql.Argument
		if en.Create {
			args = append(args, graphql.Arg("create", t.Create))
		}
		return append(args,
			graphql.Arg("connect", t.UniqueWhere),
			graphql.Arg("disconnect", graphql.Boolean),
		)
	})
	return t
}

func argument(name string, in *schema.InputArg) *graphql.Argument {
	return &graphql.Argument{
		Name:         name,
		Type:         in.Type,
		DefaultValue: in.DefaultValue,
		HasDefault:   in.HasDefault,
	}
}

// outputField copies of under name and guards its resolver with the
// field's read access. A denied read resolves to null without an error.
func outputField(f *Field, name string, of *graphql.Field) *graphql.Field {
	out := *of
	out.Name = name
	if out.Description == "" {
		out.Description = f.Def.UI.Description
	}
	inner := of.Resolve
	out.Resolve = func(ctx context.Context, p graphql.ResolveParams) (any, error) {
		ok, err := f.Access.Eval(ctx, privacy.Request{
			Operation: loom.OpRead,
			Model:     f.ModelKey,
			Field:     f.Key,
			Item:      p.Source,
		})
		if err != nil || !ok {
			return nil, err
		}
		fv := schema.FieldValue{Item: p.Source, Value: itemValue(p.Source, f.Key)}
		if inner == nil {
			return fv.Value, nil
		}
		p.Source = fv
		return inner(ctx, p)
	}
	return &out
}

// ItemValuer is implemented by items that are not plain maps.
type ItemValuer interface {
	FieldValue(key string) any
}

func itemValue(item any, key string) any {
	switch item := item.(type) {
	case map[string]any:
		return item[key]
	case ItemValuer:
		return item.FieldValue(key)
	}
	return nil
}
