package core

import (
	"errors"

	"go.uber.org/zap"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

func zapModel(key string) zap.Field { return zap.String("model", key) }

// InitialiseModels compiles cfg into a sealed registry. It runs, in order:
// model enablement, lazy type bundles, field initialisation, relationship
// resolution, the zero-field guard, field assertions and finalisation.
// Any error leaves no usable registry.
func InitialiseModels(cfg *schema.Config, opts ...Option) (*Registry, error) {
	r := &Registry{
		byKey: make(map[string]*Model, len(cfg.Models)),
		refs:  make(refs, len(cfg.Models)),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := checkModelKeys(cfg); err != nil {
		return nil, err
	}

	// Types and enablement of every model exist before any field is built.
	for _, mc := range cfg.Models {
		en, err := modelEnablement(mc)
		if err != nil {
			return nil, err
		}
		labels, plural, err := modelNames(mc)
		if err != nil {
			return nil, err
		}
		names := graphql.NamesFor(mc.Key, plural)
		m := &Model{
			Key:               mc.Key,
			Config:            mc,
			Names:             names,
			PluralGraphQLName: plural,
			Labels:            labels,
			Enabled:           en,
			Types:             r.buildTypes(mc, names, en),
			registry:          r,
		}
		r.refs[mc.Key] = &schema.ModelRef{Key: mc.Key, Names: names, Enabled: en, Types: m.Types}
		r.models = append(r.models, m)
		r.byKey[mc.Key] = m
	}
	r.log.Debug("registered models", zap.Int("count", len(r.models)))

	raw := make([]*rawModel, 0, len(r.models))
	for _, m := range r.models {
		fields, err := r.initialiseFields(cfg, m.Config, m.Enabled)
		if err != nil {
			return nil, err
		}
		m.Fields = fields
		m.fields = make(map[string]*Field, len(fields))
		rm := &rawModel{key: m.Key, fields: make(map[string]schema.DBField, len(fields))}
		for _, f := range fields {
			m.fields[f.Key] = f
			rm.keys = append(rm.keys, f.Key)
			rm.fields[f.Key] = f.Def.DB
		}
		raw = append(raw, rm)
	}

	resolved, err := resolveRelationships(raw)
	if err != nil {
		return nil, err
	}
	for _, m := range r.models {
		m.DBFields = resolved[m.Key]
		for _, db := range m.DBFields {
			if f := m.fields[db.Key]; f != nil {
				f.DB = db.ResolvedDBField
			}
		}
	}

	var errs []error
	for _, m := range r.models {
		r.guardEmptyInputs(m)
		if err := assertFieldsValid(m); err != nil {
			errs = append(errs, err)
		}
		if err := m.Config.Access.Validate(m.Key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for _, m := range r.models {
		finalise(m)
	}
	r.sealed = true
	r.log.Debug("models initialised")
	return r, nil
}

func checkModelKeys(cfg *schema.Config) error {
	seen := make(map[string]bool, len(cfg.Models))
	for i, mc := range cfg.Models {
		switch {
		case mc == nil:
			return loom.NewConfigurationError("", "the model at index %d is nil", i)
		case !graphql.ValidName(mc.Key):
			return loom.NewConfigurationError(mc.Key, "the model key %q is not a valid GraphQL name", mc.Key)
		case seen[mc.Key]:
			return loom.NewConfigurationError(mc.Key, "the model %s is declared more than once", mc.Key)
		}
		seen[mc.Key] = true
	}
	return nil
}

func finalise(m *Model) {
	mc := m.Config
	m.Access = mc.Access
	m.Hooks = mc.Hooks
	switch {
	case mc.GraphQL.CacheHintFunc != nil:
		m.CacheHint = mc.GraphQL.CacheHintFunc
	case mc.GraphQL.CacheHint != nil:
		m.CacheHint = loom.StaticCacheHint(*mc.GraphQL.CacheHint)
	}
	m.MaxResults = mc.GraphQL.MaxResults
	if m.MaxResults <= 0 {
		m.MaxResults = Unbounded
	}
	m.DBMap = mc.DB.Map
}
