// Package gqlschema assembles the root Query and Mutation types of an
// initialised registry and renders the schema as SDL.
package gqlschema

import (
	"context"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"go.uber.org/zap"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/graphql"
)

// Schema is an assembled GraphQL schema.
type Schema struct {
	Query *graphql.Object
	// Mutation is nil when no model allows a mutation.
	Mutation *graphql.Object
	// Types holds every named type reachable from the roots.
	Types []graphql.Named
	// AST is the validated schema.
	AST *ast.Schema
	// SDL is the printed schema document.
	SDL string
}

// Option configures Build.
type Option func(*builder)

// WithSource sets the data source of the root resolvers.
func WithSource(src Source) Option {
	return func(b *builder) { b.src = src }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

type builder struct {
	reg *core.Registry
	src Source
	log *zap.Logger
}

// Build assembles the schema of a sealed registry.
func Build(reg *core.Registry, opts ...Option) (*Schema, error) {
	if !reg.Sealed() {
		return nil, fmt.Errorf("loom/gqlschema: registry is not initialised")
	}
	b := &builder{reg: reg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	s := &Schema{Query: graphql.NewObject("Query", "", b.queries)}
	if muts := b.mutations(); len(muts) > 0 {
		s.Mutation = graphql.NewObject("Mutation", "", func() []*graphql.Field { return muts })
	}
	if len(s.Query.Fields()) == 0 {
		return nil, loom.NewConfigurationError("", "at least one model must enable queries")
	}

	roots := []graphql.Named{s.Query}
	if s.Mutation != nil {
		roots = append(roots, s.Mutation)
	}
	s.Types = graphql.Collect(roots...)
	s.SDL = Print(s.Types)
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: s.SDL})
	if err != nil {
		return nil, fmt.Errorf("loom/gqlschema: generated schema is invalid: %w", err)
	}
	s.AST = schema
	b.log.Debug("graphql schema built", zap.Int("types", len(s.Types)))
	return s, nil
}

// Print renders named types as an SDL document. Built-in scalars are
// left out.
func Print(types []graphql.Named) string {
	doc := &ast.SchemaDocument{}
	for _, t := range types {
		if sc, ok := t.(*graphql.Scalar); ok && sc.Builtin() {
			continue
		}
		doc.Definitions = append(doc.Definitions, graphql.Definition(t))
	}
	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatSchemaDocument(doc)
	return sb.String()
}

func (b *builder) queries() []*graphql.Field {
	var out []*graphql.Field
	for _, m := range b.reg.Models() {
		if !m.Enabled.Query {
			continue
		}
		t := m.Types
		out = append(out,
			&graphql.Field{
				Name: m.Names.ItemQuery,
				Type: t.Output,
				Args: []*graphql.Argument{graphql.Arg("where", graphql.NonNullOf(t.UniqueWhere))},
				Resolve: b.resolver(m, loom.OpQuery, func(ctx context.Context, src Source, args map[string]any) (any, error) {
					return src.FindOne(ctx, m.Key, mapArg(args, "where"))
				}),
			},
			&graphql.Field{
				Name: m.Names.ListQuery,
				Type: graphql.ListOf(graphql.NonNullOf(t.Output)),
				Args: t.FindManyArgs,
				Resolve: b.resolver(m, loom.OpQuery, func(ctx context.Context, src Source, args map[string]any) (any, error) {
					if err := checkTake(m, args); err != nil {
						return nil, err
					}
					return src.FindMany(ctx, m.Key, args)
				}),
			},
			&graphql.Field{
				Name: m.Names.ListQueryCount,
				Type: graphql.Int,
				Args: []*graphql.Argument{graphql.ArgWithDefault("where", graphql.NonNullOf(t.Where), map[string]any{})},
				Resolve: b.resolver(m, loom.OpQuery, func(ctx context.Context, src Source, args map[string]any) (any, error) {
					return src.Count(ctx, m.Key, mapArg(args, "where"))
				}),
			},
		)
	}
	return out
}

func (b *builder) mutations() []*graphql.Field {
	var out []*graphql.Field
	for _, m := range b.reg.Models() {
		t, en := m.Types, m.Enabled
		uniqueWhere := graphql.NonNullOf(t.UniqueWhere)
		if en.Create {
			out = append(out,
				&graphql.Field{
					Name: m.Names.CreateMutation,
					Type: t.Output,
					Args: []*graphql.Argument{graphql.Arg("data", graphql.NonNullOf(t.Create))},
					Resolve: b.resolver(m, loom.OpCreate, func(ctx context.Context, src Source, args map[string]any) (any, error) {
						return src.Create(ctx, m.Key, mapArg(args, "data"))
					}),
				},
				&graphql.Field{
					Name: m.Names.CreateManyMutation,
					Type: graphql.ListOf(t.Output),
					Args: []*graphql.Argument{graphql.Arg("data", graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(t.Create))))},
					Resolve: b.resolver(m, loom.OpCreate, func(ctx context.Context, src Source, args map[string]any) (any, error) {
						var items []any
						for _, data := range listArg(args, "data") {
							item, err := src.Create(ctx, m.Key, data)
							if err != nil {
								return nil, err
							}
							items = append(items, item)
						}
						return items, nil
					}),
				},
			)
		}
		if en.Update {
			updateArgs := graphql.NewInputObject(m.Names.UpdateManyInput, "", func() []*graphql.Argument {
				return []*graphql.Argument{
					graphql.Arg("where", uniqueWhere),
					graphql.Arg("data", graphql.NonNullOf(t.Update)),
				}
			})
			out = append(out,
				&graphql.Field{
					Name: m.Names.UpdateMutation,
					Type: t.Output,
					Args: []*graphql.Argument{
						graphql.Arg("where", uniqueWhere),
						graphql.Arg("data", graphql.NonNullOf(t.Update)),
					},
					Resolve: b.resolver(m, loom.OpUpdate, func(ctx context.Context, src Source, args map[string]any) (any, error) {
						return src.Update(ctx, m.Key, mapArg(args, "where"), mapArg(args, "data"))
					}),
				},
				&graphql.Field{
					Name: m.Names.UpdateManyMutation,
					Type: graphql.ListOf(t.Output),
					Args: []*graphql.Argument{graphql.Arg("data", graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(updateArgs))))},
					Resolve: b.resolver(m, loom.OpUpdate, func(ctx context.Context, src Source, args map[string]any) (any, error) {
						var items []any
						for _, u := range listArg(args, "data") {
							item, err := src.Update(ctx, m.Key, mapArg(u, "where"), mapArg(u, "data"))
							if err != nil {
								return nil, err
							}
							items = append(items, item)
						}
						return items, nil
					}),
				},
			)
		}
		if en.Delete {
			out = append(out,
				&graphql.Field{
					Name: m.Names.DeleteMutation,
					Type: t.Output,
					Args: []*graphql.Argument{graphql.Arg("where", uniqueWhere)},
					Resolve: b.resolver(m, loom.OpDelete, func(ctx context.Context, src Source, args map[string]any) (any, error) {
						return src.Delete(ctx, m.Key, mapArg(args, "where"))
					}),
				},
				&graphql.Field{
					Name: m.Names.DeleteManyMutation,
					Type: graphql.ListOf(t.Output),
					Args: []*graphql.Argument{graphql.Arg("where", graphql.NonNullOf(graphql.ListOf(uniqueWhere)))},
					Resolve: b.resolver(m, loom.OpDelete, func(ctx context.Context, src Source, args map[string]any) (any, error) {
						var items []any
						for _, where := range listArg(args, "where") {
							item, err := src.Delete(ctx, m.Key, where)
							if err != nil {
								return nil, err
							}
							items = append(items, item)
						}
						return items, nil
					}),
				},
			)
		}
	}
	return out
}

type rootFunc func(ctx context.Context, src Source, args map[string]any) (any, error)

// resolver checks model access before delegating to the source.
func (b *builder) resolver(m *core.Model, op loom.Operation, fn rootFunc) graphql.ResolveFunc {
	return func(ctx context.Context, p graphql.ResolveParams) (any, error) {
		if b.src == nil {
			return nil, ErrNoSource
		}
		if err := allow(ctx, m, op); err != nil {
			return nil, err
		}
		return fn(ctx, b.src, p.Args)
	}
}
