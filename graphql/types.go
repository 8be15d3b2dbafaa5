// Package graphql provides a small, lazily evaluated GraphQL type system used
// to describe the schema generated for the configured models. Types convert
// to gqlparser definitions for printing and validation.
package graphql

import (
	"context"
	"fmt"
)

// Kind identifies a named GraphQL type.
type Kind uint8

// Named type kinds.
const (
	KindScalar Kind = iota + 1
	KindEnum
	KindInputObject
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindInputObject:
		return "input"
	case KindObject:
		return "type"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a reference to a GraphQL type: a named type, or a list or
// non-null wrapper around another type.
type Type interface {
	String() string
	isType()
}

// Named is implemented by Scalar, Enum, InputObject and Object.
type Named interface {
	Type
	Name() string
	Kind() Kind
	Description() string
}

type (
	// List is a list type reference.
	List struct{ OfType Type }

	// NonNull is a non-null type reference.
	NonNull struct{ OfType Type }
)

// ListOf returns [t].
func ListOf(t Type) *List { return &List{OfType: t} }

// NonNullOf returns t!. Wrapping a non-null type again returns it unchanged.
func NonNullOf(t Type) *NonNull {
	if nn, ok := t.(*NonNull); ok {
		return nn
	}
	return &NonNull{OfType: t}
}

func (l *List) String() string    { return "[" + l.OfType.String() + "]" }
func (n *NonNull) String() string { return n.OfType.String() + "!" }
func (*List) isType()             {}
func (*NonNull) isType()          {}

// NamedOf unwraps list and non-null references down to the named type.
func NamedOf(t Type) Named {
	for {
		switch v := t.(type) {
		case *List:
			t = v.OfType
		case *NonNull:
			t = v.OfType
		case Named:
			return v
		default:
			return nil
		}
	}
}

// Scalar is a GraphQL scalar type.
type Scalar struct {
	name        string
	description string
	builtin     bool
}

// NewScalar returns a custom scalar type.
func NewScalar(name, description string) *Scalar {
	return &Scalar{name: name, description: description}
}

func (s *Scalar) Name() string        { return s.name }
func (s *Scalar) Kind() Kind          { return KindScalar }
func (s *Scalar) Description() string { return s.description }
func (s *Scalar) String() string      { return s.name }
func (*Scalar) isType()               {}

// Builtin reports whether the scalar is defined by the GraphQL specification
// itself and must not be declared in a schema document.
func (s *Scalar) Builtin() bool { return s.builtin }

// EnumValue is a single value of an Enum.
type EnumValue struct {
	Name        string
	Description string
}

// Enum is a GraphQL enum type.
type Enum struct {
	name        string
	description string
	values      []EnumValue
}

// NewEnum returns an enum with the given values in order.
func NewEnum(name, description string, values ...EnumValue) *Enum {
	return &Enum{name: name, description: description, values: values}
}

func (e *Enum) Name() string        { return e.name }
func (e *Enum) Kind() Kind          { return KindEnum }
func (e *Enum) Description() string { return e.description }
func (e *Enum) String() string      { return e.name }
func (*Enum) isType()               {}

// Values returns the enum values in declaration order.
func (e *Enum) Values() []EnumValue { return e.values }

// Argument is a field argument or an input object field.
type Argument struct {
	Name         string
	Description  string
	Type         Type
	DefaultValue any
	// HasDefault distinguishes a nil default from no default.
	HasDefault bool
}

// Arg returns an argument without a default value.
func Arg(name string, t Type) *Argument {
	return &Argument{Name: name, Type: t}
}

// ArgWithDefault returns an argument with a default value.
func ArgWithDefault(name string, t Type, def any) *Argument {
	return &Argument{Name: name, Type: t, DefaultValue: def, HasDefault: true}
}

// InputObject is a GraphQL input object type whose fields are evaluated lazily.
type InputObject struct {
	name        string
	description string
	fields      *Thunk[[]*Argument]
}

// NewInputObject returns an input object whose fields are built by fn on
// first access.
func NewInputObject(name, description string, fn func() []*Argument) *InputObject {
	return &InputObject{name: name, description: description, fields: NewThunk(fn)}
}

func (o *InputObject) Name() string        { return o.name }
func (o *InputObject) Kind() Kind          { return KindInputObject }
func (o *InputObject) Description() string { return o.description }
func (o *InputObject) String() string      { return o.name }
func (*InputObject) isType()               {}

// Fields forces and returns the memoized field list.
func (o *InputObject) Fields() []*Argument { return o.fields.Force() }

// Field returns the named input field, or nil.
func (o *InputObject) Field(name string) *Argument {
	for _, f := range o.Fields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ResolveParams is passed to a field resolver.
type ResolveParams struct {
	Source    any
	Args      map[string]any
	FieldName string
	// ParentType is the name of the object type owning the field.
	ParentType string
}

// ResolveFunc resolves the value of an output field.
type ResolveFunc func(context.Context, ResolveParams) (any, error)

// Field is an output field of an Object.
type Field struct {
	Name              string
	Description       string
	Type              Type
	Args              []*Argument
	Resolve           ResolveFunc
	DeprecationReason string
}

// Object is a GraphQL output object type whose fields are evaluated lazily.
type Object struct {
	name        string
	description string
	fields      *Thunk[[]*Field]
}

// NewObject returns an object whose fields are built by fn on first access.
func NewObject(name, description string, fn func() []*Field) *Object {
	return &Object{name: name, description: description, fields: NewThunk(fn)}
}

func (o *Object) Name() string        { return o.name }
func (o *Object) Kind() Kind          { return KindObject }
func (o *Object) Description() string { return o.description }
func (o *Object) String() string      { return o.name }
func (*Object) isType()               {}

// Fields forces and returns the memoized field list.
func (o *Object) Fields() []*Field { return o.fields.Force() }

// Field returns the named output field, or nil.
func (o *Object) Field(name string) *Field {
	for _, f := range o.Fields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

var (
	_ Named = (*Scalar)(nil)
	_ Named = (*Enum)(nil)
	_ Named = (*InputObject)(nil)
	_ Named = (*Object)(nil)
)
