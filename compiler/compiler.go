// Package compiler compiles a model configuration into the GraphQL schema,
// the admin metadata, Go type information and the database migration.
package compiler

import (
	"context"
	"fmt"

	atlas "ariga.io/atlas/sql/schema"
	"go.uber.org/zap"

	"github.com/syssam/loom/compiler/adminmeta"
	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/compiler/dbmap"
	"github.com/syssam/loom/compiler/gqlschema"
	"github.com/syssam/loom/compiler/typegen"
	"github.com/syssam/loom/schema"
)

// DefaultPackage is the package name of the generated types file.
const DefaultPackage = "models"

// Option configures Compile.
type Option func(*options)

type options struct {
	log     *zap.Logger
	src     gqlschema.Source
	pkg     string
	noTypes bool
}

// WithLogger sets the logger passed to every phase.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithSource sets the data source of the GraphQL root resolvers.
func WithSource(src gqlschema.Source) Option {
	return func(o *options) { o.src = src }
}

// WithPackage sets the package name of the generated types file.
func WithPackage(name string) Option {
	return func(o *options) {
		if name != "" {
			o.pkg = name
		}
	}
}

// WithoutTypes skips Go type generation.
func WithoutTypes() Option {
	return func(o *options) { o.noTypes = true }
}

// Result holds the outputs of a compilation.
type Result struct {
	Config    *schema.Config
	Registry  *core.Registry
	Schema    *gqlschema.Schema
	AdminMeta *schema.AdminMeta
	Realm     *atlas.Realm
	// Migration holds the statements creating the database.
	Migration []string
	// Types is the formatted Go source of the generated types, nil when
	// skipped.
	Types []byte

	log *zap.Logger
}

// Provider returns the database provider, defaulting to SQLite.
func (r *Result) Provider() schema.Provider {
	if p := r.Config.DB.Provider; p != "" {
		return p
	}
	return schema.ProviderSQLite
}

// Compile initialises the models of cfg and builds every artifact.
func Compile(ctx context.Context, cfg *schema.Config, opts ...Option) (*Result, error) {
	o := &options{log: zap.NewNop(), pkg: DefaultPackage}
	for _, opt := range opts {
		opt(o)
	}
	log := o.log
	res := &Result{Config: cfg, log: log}

	log.Debug("initialising models", zap.Int("models", len(cfg.Models)))
	reg, err := core.InitialiseModels(cfg, core.WithLogger(log))
	if err != nil {
		return nil, err
	}
	res.Registry = reg

	log.Debug("building admin metadata")
	if res.AdminMeta, err = adminmeta.Build(reg, cfg, adminmeta.WithLogger(log)); err != nil {
		return nil, err
	}

	log.Debug("building graphql schema")
	gqlOpts := []gqlschema.Option{gqlschema.WithLogger(log)}
	if o.src != nil {
		gqlOpts = append(gqlOpts, gqlschema.WithSource(o.src))
	}
	if res.Schema, err = gqlschema.Build(reg, gqlOpts...); err != nil {
		return nil, err
	}

	provider := res.Provider()
	log.Debug("planning migration", zap.String("provider", string(provider)))
	if res.Realm, err = dbmap.Realm(reg, provider); err != nil {
		return nil, err
	}
	if res.Migration, err = dbmap.Plan(ctx, res.Realm, provider); err != nil {
		return nil, err
	}

	if !o.noTypes {
		log.Debug("generating types", zap.String("package", o.pkg))
		if res.Types, err = typegen.Render(reg, o.pkg); err != nil {
			return nil, fmt.Errorf("loom/compiler: %w", err)
		}
	}
	log.Info("compiled",
		zap.Int("models", len(reg.Models())),
		zap.Int("types", len(res.Schema.Types)),
		zap.Int("statements", len(res.Migration)),
	)
	return res, nil
}
