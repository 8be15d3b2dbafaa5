package graphql

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// TypeAST converts a type reference to its gqlparser form.
func TypeAST(t Type) *ast.Type {
	switch v := t.(type) {
	case *NonNull:
		inner := *TypeAST(v.OfType)
		inner.NonNull = true
		return &inner
	case *List:
		return &ast.Type{Elem: TypeAST(v.OfType)}
	case Named:
		return &ast.Type{NamedType: v.Name()}
	default:
		panic(fmt.Sprintf("graphql: unexpected type reference %T", t))
	}
}

// Definition converts a named type to a gqlparser definition. Forcing the
// definition of an object or input object evaluates its fields.
func Definition(n Named) *ast.Definition {
	def := &ast.Definition{Name: n.Name(), Description: n.Description()}
	switch v := n.(type) {
	case *Scalar:
		def.Kind = ast.Scalar
	case *Enum:
		def.Kind = ast.Enum
		for _, ev := range v.Values() {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
				Name:        ev.Name,
				Description: ev.Description,
			})
		}
	case *InputObject:
		def.Kind = ast.InputObject
		for _, f := range v.Fields() {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Name:         f.Name,
				Description:  f.Description,
				Type:         TypeAST(f.Type),
				DefaultValue: argDefault(f),
			})
		}
	case *Object:
		def.Kind = ast.Object
		for _, f := range v.Fields() {
			fd := &ast.FieldDefinition{
				Name:        f.Name,
				Description: f.Description,
				Type:        TypeAST(f.Type),
			}
			for _, a := range f.Args {
				fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{
					Name:         a.Name,
					Description:  a.Description,
					Type:         TypeAST(a.Type),
					DefaultValue: argDefault(a),
				})
			}
			if f.DeprecationReason != "" {
				fd.Directives = append(fd.Directives, &ast.Directive{
					Name: "deprecated",
					Arguments: ast.ArgumentList{{
						Name:  "reason",
						Value: &ast.Value{Kind: ast.StringValue, Raw: f.DeprecationReason},
					}},
				})
			}
			def.Fields = append(def.Fields, fd)
		}
	}
	return def
}

func argDefault(a *Argument) *ast.Value {
	if !a.HasDefault {
		return nil
	}
	_, isEnum := NamedOf(a.Type).(*Enum)
	return valueAST(a.DefaultValue, isEnum)
}

// valueAST converts a Go default value to a GraphQL literal.
func valueAST(v any, enum bool) *ast.Value {
	switch v := v.(type) {
	case nil:
		return &ast.Value{Kind: ast.NullValue, Raw: "null"}
	case bool:
		return &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(v)}
	case int:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.Itoa(v)}
	case int64:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.FormatInt(v, 10)}
	case float64:
		return &ast.Value{Kind: ast.FloatValue, Raw: strconv.FormatFloat(v, 'g', -1, 64)}
	case string:
		if enum {
			return &ast.Value{Kind: ast.EnumValue, Raw: v}
		}
		return &ast.Value{Kind: ast.StringValue, Raw: v}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		val := &ast.Value{Kind: ast.ObjectValue, Children: ast.ChildValueList{}}
		for _, k := range keys {
			val.Children = append(val.Children, &ast.ChildValue{Name: k, Value: valueAST(v[k], false)})
		}
		return val
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		val := &ast.Value{Kind: ast.ListValue, Children: ast.ChildValueList{}}
		for i := 0; i < rv.Len(); i++ {
			val.Children = append(val.Children, &ast.ChildValue{Value: valueAST(rv.Index(i).Interface(), enum)})
		}
		return val
	}
	return &ast.Value{Kind: ast.StringValue, Raw: fmt.Sprint(v)}
}

// Collect walks the types reachable from roots and returns every named type
// once, in the order first reached. Object and input object fields are
// forced along the way.
func Collect(roots ...Named) []Named {
	var (
		seen  = make(map[string]Named)
		order []Named
		visit func(Type)
	)
	visit = func(t Type) {
		n := NamedOf(t)
		if n == nil {
			return
		}
		if prev, ok := seen[n.Name()]; ok {
			if prev != n {
				panic(fmt.Sprintf("graphql: two different types named %q", n.Name()))
			}
			return
		}
		seen[n.Name()] = n
		order = append(order, n)
		switch v := n.(type) {
		case *InputObject:
			for _, f := range v.Fields() {
				visit(f.Type)
			}
		case *Object:
			for _, f := range v.Fields() {
				visit(f.Type)
				for _, a := range f.Args {
					visit(a.Type)
				}
			}
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return order
}
