// Package typegen renders Go type information for the GraphQL types of an
// initialised registry.
package typegen

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/graphql"
)

// Header is the comment at the top of generated files.
const Header = "Code generated by loom. DO NOT EDIT."

type generator struct {
	f    *jen.File
	seen map[string]bool
	// queue holds object, input object and enum types that still need a
	// declaration.
	queue []graphql.Named
}

// Generate returns a file declaring, per model with an enabled type, the
// item struct and the create and update input structs, together with every
// object, input object and enum they reference.
func Generate(reg *core.Registry, pkg string) (*jen.File, error) {
	if !reg.Sealed() {
		return nil, fmt.Errorf("loom/typegen: registry is not initialised")
	}
	g := &generator{f: jen.NewFile(pkg), seen: make(map[string]bool)}
	g.f.HeaderComment(Header)
	for _, m := range reg.Models() {
		if !m.Enabled.Type {
			continue
		}
		g.enqueue(m.Types.Output)
		if m.Enabled.Create {
			g.enqueue(m.Types.Create)
		}
		if m.Enabled.Update {
			g.enqueue(m.Types.Update)
		}
	}
	for len(g.queue) > 0 {
		t := g.queue[0]
		g.queue = g.queue[1:]
		switch t := t.(type) {
		case *graphql.Object:
			g.object(t)
		case *graphql.InputObject:
			g.input(t)
		case *graphql.Enum:
			g.enum(t)
		}
	}
	return g.f, nil
}

// Render generates and formats the file.
func Render(reg *core.Registry, pkg string) ([]byte, error) {
	f, err := Generate(reg, pkg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("loom/typegen: %w", err)
	}
	out, err := imports.Process("types.go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("loom/typegen: formatting: %w", err)
	}
	return out, nil
}

func (g *generator) enqueue(t graphql.Named) {
	if t == nil || g.seen[t.Name()] {
		return
	}
	g.seen[t.Name()] = true
	g.queue = append(g.queue, t)
}

func (g *generator) comment(name, kind, description string) {
	g.f.Commentf("%s is the %s %s type.", name, name, kind)
	if description != "" {
		g.f.Comment(description)
	}
}

func (g *generator) object(o *graphql.Object) {
	g.comment(o.Name(), "output", o.Description())
	g.f.Type().Id(o.Name()).StructFunc(func(group *jen.Group) {
		for _, fd := range o.Fields() {
			tag := fd.Name
			if _, ok := fd.Type.(*graphql.NonNull); !ok {
				tag += ",omitempty"
			}
			group.Id(GoName(fd.Name)).Add(g.goType(fd.Type)).Tag(map[string]string{"json": tag})
		}
	})
}

func (g *generator) input(o *graphql.InputObject) {
	g.comment(o.Name(), "input", o.Description())
	g.f.Type().Id(o.Name()).StructFunc(func(group *jen.Group) {
		for _, a := range o.Fields() {
			group.Id(GoName(a.Name)).Add(g.goType(a.Type)).Tag(map[string]string{"json": a.Name + ",omitempty"})
		}
	})
}

func (g *generator) enum(e *graphql.Enum) {
	g.comment(e.Name(), "enum", e.Description())
	g.f.Type().Id(e.Name()).String()
	g.f.Const().DefsFunc(func(group *jen.Group) {
		for _, v := range e.Values() {
			group.Id(e.Name() + GoName(v.Name)).Id(e.Name()).Op("=").Lit(v.Name)
		}
	})
}

// goType maps a GraphQL type reference to a Go type. Nullable values are
// pointers unless their zero value already encodes null.
func (g *generator) goType(t graphql.Type) *jen.Statement {
	nonNull := false
	if nn, ok := t.(*graphql.NonNull); ok {
		t, nonNull = nn.OfType, true
	}
	switch v := t.(type) {
	case *graphql.List:
		return jen.Index().Add(g.goType(v.OfType))
	case graphql.Named:
		base, nillable, ref := g.named(v)
		if ref || (!nonNull && !nillable) {
			return jen.Op("*").Add(base)
		}
		return base
	}
	return jen.Any()
}

func (g *generator) named(t graphql.Named) (code *jen.Statement, nillable, ref bool) {
	switch t := t.(type) {
	case *graphql.Object, *graphql.InputObject:
		g.enqueue(t)
		return jen.Id(t.Name()), false, true
	case *graphql.Enum:
		g.enqueue(t)
		return jen.Id(t.Name()), false, false
	}
	switch t.Name() {
	case graphql.ID.Name(), graphql.String.Name():
		return jen.String(), false, false
	case graphql.Int.Name():
		return jen.Int(), false, false
	case graphql.Float.Name():
		return jen.Float64(), false, false
	case graphql.Boolean.Name():
		return jen.Bool(), false, false
	case graphql.DateTime.Name():
		return jen.Qual("time", "Time"), false, false
	case graphql.JSON.Name():
		return jen.Qual("encoding/json", "RawMessage"), true, false
	}
	return jen.Any(), true, false
}

// GoName returns the exported Go identifier of a GraphQL name. An "id"
// word is rendered as "ID" and leading underscores are dropped.
func GoName(name string) string {
	name = strings.TrimLeft(name, "_")
	if name == "" {
		return "X"
	}
	var sb strings.Builder
	for i, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if i > 0 || sb.Len() > 0 {
			part = upperFirst(part)
		}
		sb.WriteString(part)
	}
	out := upperFirst(sb.String())
	switch {
	case out == "Id":
		return "ID"
	case strings.HasSuffix(out, "Id") && len(out) > 2 && !unicode.IsUpper(rune(out[len(out)-3])):
		return out[:len(out)-2] + "ID"
	}
	if !unicode.IsLetter(rune(out[0])) {
		out = "X" + out
	}
	return out
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
