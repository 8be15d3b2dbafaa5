package schema

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/syssam/loom"
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/privacy"
)

// FieldFunc builds the definition of a field.
type FieldFunc func(FieldContext) (*FieldDef, error)

// FieldContext is passed to a FieldFunc.
type FieldContext struct {
	FieldKey string
	ModelKey string
	// Models gives access to every model's GraphQL types. The types are
	// lazy: names and references are available, field sets are not yet.
	Models   TypeRegistry
	Provider Provider
	IDField  IDField
	// Storage resolves a named storage target.
	Storage func(name string) (StorageConfig, bool)
}

// Path returns "<model>.<field>".
func (c FieldContext) Path() string {
	return c.ModelKey + "." + c.FieldKey
}

// InputResolver converts a GraphQL input value to the value passed on to
// hooks and the database.
type InputResolver func(ctx context.Context, value any) (any, error)

// InputArg declares a GraphQL input argument of a field.
type InputArg struct {
	Type         graphql.Type
	DefaultValue any
	HasDefault   bool
	Resolve      InputResolver
}

// FieldInput holds the input arguments a field declares. A nil entry means
// the field does not take part in that input type.
type FieldInput struct {
	Where       *InputArg
	UniqueWhere *InputArg
	Create      *InputArg
	Update      *InputArg
	OrderBy     *InputArg
}

// FieldValue is the source passed to a field's output resolver: the stored
// value of the field and the item it was read from.
type FieldValue struct {
	Value any
	Item  any
}

// FieldMode is how a field is shown in an admin view.
type FieldMode string

// Field modes.
const (
	FieldModeEdit   FieldMode = "edit"
	FieldModeRead   FieldMode = "read"
	FieldModeHidden FieldMode = "hidden"
)

// FieldUI holds admin UI options of a field.
type FieldUI struct {
	Description string    `yaml:"description"`
	Views       string    `yaml:"views"`
	CreateView  FieldMode `yaml:"createView"`
	ItemView    FieldMode `yaml:"itemView"`
	ListView    FieldMode `yaml:"listView"`
}

// FieldGraphQL holds GraphQL options of a field.
type FieldGraphQL struct {
	Omit      *loom.Omit      `yaml:"omit"`
	CacheHint *loom.CacheHint `yaml:"cacheHint"`
}

// FieldDef is the definition returned by a FieldFunc.
type FieldDef struct {
	DB     DBField
	Access privacy.FieldAccess
	Hooks  FieldHooks
	Input  FieldInput
	// Output is the GraphQL output field; its name is set to the field key.
	// Nil for write-only fields.
	Output *graphql.Field
	// ExtraOutputFields are added to the model output type next to Output.
	ExtraOutputFields []*graphql.Field
	// Views is the module identifier of the admin views of this field type.
	Views   string
	Label   string
	UI      FieldUI
	GraphQL FieldGraphQL
	// IsFilterable and IsOrderable accept nil, a bool or a privacy.GateFunc.
	IsFilterable any
	IsOrderable  any
	// AdminMeta returns the field-type specific admin metadata. It is called
	// once every model's admin metadata exists.
	AdminMeta func(*AdminMeta) (any, error)
}

// DBKind discriminates DBField.
type DBKind string

// Database field kinds.
const (
	DBNone     DBKind = "none"
	DBScalar   DBKind = "scalar"
	DBRelation DBKind = "relation"
)

// ScalarKind is the type of a scalar column.
type ScalarKind string

// Scalar kinds.
const (
	ScalarString   ScalarKind = "String"
	ScalarInt      ScalarKind = "Int"
	ScalarBigInt   ScalarKind = "BigInt"
	ScalarFloat    ScalarKind = "Float"
	ScalarBoolean  ScalarKind = "Boolean"
	ScalarDateTime ScalarKind = "DateTime"
	ScalarJSON     ScalarKind = "Json"
)

// ScalarMode is the nullability of a scalar column.
type ScalarMode string

// Scalar modes.
const (
	ModeRequired ScalarMode = "required"
	ModeOptional ScalarMode = "optional"
)

// IndexKind is the index placed on a scalar column.
type IndexKind string

// Index kinds.
const (
	IndexNone   IndexKind = ""
	IndexIndex  IndexKind = "index"
	IndexUnique IndexKind = "unique"
)

// RelationMode is the cardinality of one side of a relation.
type RelationMode string

// Relation modes.
const (
	RelationOne  RelationMode = "one"
	RelationMany RelationMode = "many"
)

// DefaultKind discriminates DBDefault.
type DefaultKind string

// Default kinds.
const (
	DefaultLiteral       DefaultKind = "literal"
	DefaultAutoincrement DefaultKind = "autoincrement"
	DefaultUUID          DefaultKind = "uuid"
	DefaultCUID          DefaultKind = "cuid"
	DefaultNow           DefaultKind = "now"
)

// DBDefault is a column default.
type DBDefault struct {
	Kind  DefaultKind
	Value any
}

// ForeignKey configures the foreign key column owned by a one-relation.
// In YAML it is either true or a mapping with a map key.
type ForeignKey struct {
	Map string `yaml:"map"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *ForeignKey) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var b bool
		if err := node.Decode(&b); err != nil || !b {
			return loom.NewConfigurationError("db.foreignKey", "must be true or a mapping, got %q", node.Value)
		}
		*f = ForeignKey{}
		return nil
	}
	type plain ForeignKey
	return node.Decode((*plain)(f))
}

// DBField is the database side of a field definition.
type DBField struct {
	Kind DBKind

	// Scalar columns.
	Scalar     ScalarKind
	Mode       ScalarMode
	Default    *DBDefault
	Index      IndexKind
	Map        string
	UpdatedAt  bool
	PrimaryKey bool

	// Relations. Ref is "Model" or "Model.field".
	RelationMode RelationMode
	Ref          string
	RelationName string
	ForeignKey   *ForeignKey
}

// ForeignIDKind describes which side of a one-relation holds the column.
type ForeignIDKind string

// Foreign id kinds.
const (
	ForeignIDOwned       ForeignIDKind = "owned"
	ForeignIDOwnedUnique ForeignIDKind = "owned-unique"
	ForeignIDNone        ForeignIDKind = "none"
)

// ForeignID is the foreign id column of a resolved one-relation.
type ForeignID struct {
	Kind ForeignIDKind
	Map  string
}

// ResolvedDBField is a database field after relationships are resolved.
// Relation fields name the model and field on the other side, which is an
// implicit field when the relation was declared on one side only.
type ResolvedDBField struct {
	Kind DBKind

	Scalar     ScalarKind
	Mode       ScalarMode
	Default    *DBDefault
	Index      IndexKind
	Map        string
	UpdatedAt  bool
	PrimaryKey bool

	RelationMode RelationMode
	Model        string
	Field        string
	RelationName string
	ForeignID    *ForeignID
	// Implicit is set on the back-reference created for a one-sided relation.
	Implicit bool
}

// Hooks.

// HookArgs is passed to hooks.
type HookArgs struct {
	Operation loom.Operation
	Model     string
	Field     string
	Item      any
	Input     any
	Resolved  any
}

// ResolveInputHook transforms input data before it is validated.
type ResolveInputHook func(context.Context, HookArgs) (any, error)

// ValidateHook reports validation failures through addError.
type ValidateHook func(ctx context.Context, args HookArgs, addError func(msg string)) error

// OperationHook runs before or after an operation.
type OperationHook func(context.Context, HookArgs) error

// FieldHooks are the lifecycle hooks of a field.
type FieldHooks struct {
	ResolveInput    ResolveInputHook
	ValidateInput   ValidateHook
	BeforeOperation OperationHook
	AfterOperation  OperationHook
}

// ModelHooks are the lifecycle hooks of a model.
type ModelHooks struct {
	ResolveInput    ResolveInputHook
	ValidateInput   ValidateHook
	ValidateDelete  ValidateHook
	BeforeOperation OperationHook
	AfterOperation  OperationHook
}
