// Package dbmap maps the resolved database fields of an initialised
// registry to relational tables and plans the DDL that creates them.
package dbmap

import (
	"fmt"
	"sort"
	"strconv"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler/core"
	loomschema "github.com/syssam/loom/schema"
)

// Join table columns of many to many relations.
const (
	JoinColumnA = "A"
	JoinColumnB = "B"
)

// Realm converts the models of reg to an atlas realm with one schema.
// Join tables of many to many relations follow the model tables.
func Realm(reg *core.Registry, provider loomschema.Provider) (*schema.Realm, error) {
	m := &mapper{
		provider: provider,
		tables:   make(map[string]*schema.Table),
		ids:      make(map[string]*schema.Column),
	}
	s := schema.New(defaultSchema(provider))
	for _, model := range reg.Models() {
		t, err := m.table(model)
		if err != nil {
			return nil, err
		}
		s.AddTables(t)
	}
	for _, model := range reg.Models() {
		if err := m.relations(model); err != nil {
			return nil, err
		}
	}
	for _, t := range m.joinTables() {
		s.AddTables(t)
	}
	return schema.NewRealm(s), nil
}

func defaultSchema(p loomschema.Provider) string {
	switch p {
	case loomschema.ProviderPostgres:
		return "public"
	case loomschema.ProviderMySQL:
		return ""
	default:
		return "main"
	}
}

type mapper struct {
	provider loomschema.Provider
	// tables and ids are keyed by model key.
	tables map[string]*schema.Table
	ids    map[string]*schema.Column
	joins  map[string]*joinTable
}

type joinTable struct {
	name string
	a, b string // model keys, a sorts first
}

// TableName returns the table of a model.
func TableName(m *core.Model) string {
	if m.DBMap != "" {
		return m.DBMap
	}
	return m.Key
}

func columnName(f *core.DBField) string {
	if f.Map != "" {
		return f.Map
	}
	return f.Key
}

func (m *mapper) table(model *core.Model) (*schema.Table, error) {
	t := schema.NewTable(TableName(model))
	for _, f := range model.DBFields {
		if f.Kind != loomschema.DBScalar {
			continue
		}
		c, err := m.column(model, f)
		if err != nil {
			return nil, err
		}
		t.AddColumns(c)
		switch {
		case f.PrimaryKey:
			t.SetPrimaryKey(schema.NewPrimaryKey(c))
			m.ids[model.Key] = c
		case f.Index == loomschema.IndexUnique:
			t.AddIndexes(schema.NewUniqueIndex(t.Name + "_" + c.Name + "_key").AddColumns(c))
		case f.Index == loomschema.IndexIndex:
			t.AddIndexes(schema.NewIndex(t.Name + "_" + c.Name + "_idx").AddColumns(c))
		}
	}
	if t.PrimaryKey == nil {
		return nil, loom.NewConfigurationError(model.Key, "the model has no primary key column")
	}
	m.tables[model.Key] = t
	return t, nil
}

func (m *mapper) column(model *core.Model, f *core.DBField) (*schema.Column, error) {
	typ, err := m.columnType(f.Scalar)
	if err != nil {
		return nil, loom.WrapConfigurationError(model.Key+"."+f.Key, err, "unsupported column")
	}
	c := schema.NewColumn(columnName(f)).SetType(typ).SetNull(f.Mode == loomschema.ModeOptional)
	if d := f.Default; d != nil {
		switch d.Kind {
		case loomschema.DefaultLiteral:
			if d.Value != nil {
				c.SetDefault(&schema.Literal{V: literal(d.Value)})
			}
		case loomschema.DefaultNow:
			c.SetDefault(&schema.RawExpr{X: "CURRENT_TIMESTAMP"})
		case loomschema.DefaultAutoincrement:
			m.autoincrement(c)
		}
	}
	return c, nil
}

func (m *mapper) autoincrement(c *schema.Column) {
	switch m.provider {
	case loomschema.ProviderPostgres:
		c.SetType(&postgres.SerialType{T: postgres.TypeSerial})
	case loomschema.ProviderMySQL:
		c.AddAttrs(&mysql.AutoIncrement{})
	default:
		c.AddAttrs(&sqlite.AutoIncrement{})
	}
}

func literal(v any) string {
	switch v := v.(type) {
	case string:
		return "'" + escapeQuotes(v) + "'"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func escapeQuotes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(out)
}

func (m *mapper) columnType(k loomschema.ScalarKind) (schema.Type, error) {
	pg, my := m.provider == loomschema.ProviderPostgres, m.provider == loomschema.ProviderMySQL
	switch k {
	case loomschema.ScalarString:
		if my {
			return &schema.StringType{T: mysql.TypeVarchar, Size: 191}, nil
		}
		return &schema.StringType{T: "text"}, nil
	case loomschema.ScalarInt:
		if my {
			return &schema.IntegerType{T: mysql.TypeInt}, nil
		}
		return &schema.IntegerType{T: "integer"}, nil
	case loomschema.ScalarBigInt:
		if pg || my {
			return &schema.IntegerType{T: "bigint"}, nil
		}
		return &schema.IntegerType{T: "integer"}, nil
	case loomschema.ScalarFloat:
		switch {
		case pg:
			return &schema.FloatType{T: postgres.TypeDouble}, nil
		case my:
			return &schema.FloatType{T: mysql.TypeDouble}, nil
		}
		return &schema.FloatType{T: "real"}, nil
	case loomschema.ScalarBoolean:
		if my {
			return &schema.BoolType{T: mysql.TypeBool}, nil
		}
		return &schema.BoolType{T: "boolean"}, nil
	case loomschema.ScalarDateTime:
		switch {
		case pg:
			return &schema.TimeType{T: postgres.TypeTimestampWTZ}, nil
		case my:
			return &schema.TimeType{T: mysql.TypeDateTime}, nil
		}
		return &schema.TimeType{T: "datetime"}, nil
	case loomschema.ScalarJSON:
		if pg {
			return &schema.JSONType{T: postgres.TypeJSONB}, nil
		}
		return &schema.JSONType{T: "json"}, nil
	}
	return nil, fmt.Errorf("unknown scalar kind %q", k)
}

// idType returns the column type used to reference a model's id.
func (m *mapper) idType(model string) schema.Type {
	id := m.ids[model]
	if st, ok := id.Type.Type.(*postgres.SerialType); ok && st.T == postgres.TypeSerial {
		return &schema.IntegerType{T: "integer"}
	}
	return id.Type.Type
}

// relations adds foreign id columns of one-relations and records the join
// tables of many to many relations.
func (m *mapper) relations(model *core.Model) error {
	t := m.tables[model.Key]
	for _, f := range model.DBFields {
		if f.Kind != loomschema.DBRelation {
			continue
		}
		target, ok := m.tables[f.Model]
		if !ok {
			return loom.NewConfigurationError(model.Key+"."+f.Key, "the related model %q has no table", f.Model)
		}
		if f.RelationMode == loomschema.RelationMany {
			if f.RelationName != "" {
				m.join(f.RelationName, model.Key, f.Model)
			}
			continue
		}
		fid := f.ForeignID
		if fid == nil || fid.Kind == loomschema.ForeignIDNone {
			continue
		}
		col := schema.NewColumn(fid.Map).SetType(m.idType(f.Model)).SetNull(true)
		t.AddColumns(col)
		if fid.Kind == loomschema.ForeignIDOwnedUnique {
			t.AddIndexes(schema.NewUniqueIndex(t.Name + "_" + col.Name + "_key").AddColumns(col))
		} else {
			t.AddIndexes(schema.NewIndex(t.Name + "_" + col.Name + "_idx").AddColumns(col))
		}
		t.AddForeignKeys(schema.NewForeignKey(t.Name+"_"+col.Name+"_fkey").
			AddColumns(col).
			SetRefTable(target).
			AddRefColumns(m.ids[f.Model]).
			SetOnDelete(schema.SetNull).
			SetOnUpdate(schema.Cascade))
	}
	return nil
}

func (m *mapper) join(name, a, b string) {
	if m.joins == nil {
		m.joins = make(map[string]*joinTable)
	}
	if _, ok := m.joins[name]; ok {
		return
	}
	if b < a {
		a, b = b, a
	}
	m.joins[name] = &joinTable{name: name, a: a, b: b}
}

func (m *mapper) joinTables() []*schema.Table {
	names := make([]string, 0, len(m.joins))
	for name := range m.joins {
		names = append(names, name)
	}
	sort.Strings(names)
	tables := make([]*schema.Table, 0, len(names))
	for _, name := range names {
		j := m.joins[name]
		t := schema.NewTable("_" + j.name)
		a := schema.NewColumn(JoinColumnA).SetType(m.idType(j.a))
		b := schema.NewColumn(JoinColumnB).SetType(m.idType(j.b))
		t.AddColumns(a, b)
		t.AddIndexes(
			schema.NewUniqueIndex(t.Name+"_AB_unique").AddColumns(a, b),
			schema.NewIndex(t.Name+"_B_index").AddColumns(b),
		)
		t.AddForeignKeys(
			schema.NewForeignKey(t.Name+"_A_fkey").AddColumns(a).SetRefTable(m.tables[j.a]).AddRefColumns(m.ids[j.a]).
				SetOnDelete(schema.Cascade).SetOnUpdate(schema.Cascade),
			schema.NewForeignKey(t.Name+"_B_fkey").AddColumns(b).SetRefTable(m.tables[j.b]).AddRefColumns(m.ids[j.b]).
				SetOnDelete(schema.Cascade).SetOnUpdate(schema.Cascade),
		)
		tables = append(tables, t)
	}
	return tables
}
