package core

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/privacy"
	"github.com/syssam/loom/schema"
)

// Unbounded is the MaxResults of a model without a query limit.
const Unbounded = math.MaxInt

// Labels are the admin UI labels of a model.
type Labels struct {
	Label    string
	Singular string
	Plural   string
	Path     string
}

// FieldEnablement records which operations a field takes part in. Filter
// and OrderBy are never enabled on a field that cannot be read.
type FieldEnablement struct {
	Read    bool
	Create  bool
	Update  bool
	Filter  privacy.Gate
	OrderBy privacy.Gate
}

// Field is an initialised field.
type Field struct {
	Key      string
	ModelKey string
	Def      *schema.FieldDef
	// DB is the database field after relationships are resolved.
	DB        schema.ResolvedDBField
	Access    privacy.FieldAccess
	Hooks     schema.FieldHooks
	Enabled   FieldEnablement
	CacheHint *loom.CacheHint
}

// Path returns "<model>.<field>".
func (f *Field) Path() string { return f.ModelKey + "." + f.Key }

// DBField is a resolved database field keyed by field key. Implicit
// back-references of one-sided relations have no matching Field.
type DBField struct {
	Key string
	schema.ResolvedDBField
}

// Model is an initialised model.
type Model struct {
	Key    string
	Config *schema.ModelConfig
	Names  graphql.Names
	// PluralGraphQLName is the plural used in list queries and mutations.
	PluralGraphQLName string
	Fields            []*Field
	// DBFields holds the resolved database fields in declaration order,
	// followed by implicit back-references.
	DBFields   []*DBField
	Types      *schema.ModelTypes
	Access     privacy.ModelAccess
	Hooks      schema.ModelHooks
	Labels     Labels
	CacheHint  loom.CacheHintFunc
	MaxResults int
	DBMap      string
	Enabled    *schema.ModelEnablement

	fields   map[string]*Field
	registry *Registry
}

// Field returns the field with the given key, or nil.
func (m *Model) Field(key string) *Field {
	return m.fields[key]
}

// DBField returns the resolved database field with the given key, or nil.
func (m *Model) DBField(key string) *DBField {
	for _, f := range m.DBFields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

// Registry returns the registry the model belongs to.
func (m *Model) Registry() *Registry { return m.registry }

// Related returns another model of the same registry.
func (m *Model) Related(key string) (*Model, bool) {
	return m.registry.Model(key)
}

// Registry owns every model of a compilation. Models reference each other
// by key only.
type Registry struct {
	models []*Model
	byKey  map[string]*Model
	refs   refs
	sealed bool
	log    *zap.Logger
}

// Option configures InitialiseModels.
type Option func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// Models returns the models in declaration order.
func (r *Registry) Models() []*Model { return r.models }

// Model returns the model with the given key.
func (r *Registry) Model(key string) (*Model, bool) {
	m, ok := r.byKey[key]
	return m, ok
}

// Types returns the type registry handed to field constructors.
func (r *Registry) Types() schema.TypeRegistry { return r.refs }

// Sealed reports whether initialisation finished.
func (r *Registry) Sealed() bool { return r.sealed }

// sealedModel is used by lazy field sets. Their fields depend on
// initialised fields, so forcing them early is a programming error.
func (r *Registry) sealedModel(key string) *Model {
	if !r.sealed {
		panic(fmt.Sprintf("loom: fields of the %s GraphQL types were requested before the models were initialised", key))
	}
	return r.byKey[key]
}

// enabled returns the enablement of a model, or nil.
func (r *Registry) enabled(key string) *schema.ModelEnablement {
	if ref, ok := r.refs[key]; ok {
		return ref.Enabled
	}
	return nil
}

// excluded reports whether f is a relation to a model without queries.
// Such fields are left out of every GraphQL type.
func (r *Registry) excluded(f *Field) bool {
	if f.DB.Kind != schema.DBRelation {
		return false
	}
	en := r.enabled(f.DB.Model)
	return en == nil || !en.Query
}

type refs map[string]*schema.ModelRef

func (r refs) Model(key string) (*schema.ModelRef, bool) {
	ref, ok := r[key]
	return ref, ok
}
