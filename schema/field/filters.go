package field

import (
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/schema"
)

// comparisonFilter builds a filter input with equality, membership and
// ordering operators over t, plus a recursive "not".
func comparisonFilter(name string, t graphql.Type, extra func() []*graphql.Argument) *graphql.InputObject {
	var self *graphql.InputObject
	self = graphql.NewInputObject(name, "", func() []*graphql.Argument {
		list := graphql.ListOf(graphql.NonNullOf(t))
		args := []*graphql.Argument{
			graphql.Arg("equals", t),
			graphql.Arg("in", list),
			graphql.Arg("notIn", list),
			graphql.Arg("lt", t),
			graphql.Arg("lte", t),
			graphql.Arg("gt", t),
			graphql.Arg("gte", t),
		}
		if extra != nil {
			args = append(args, extra()...)
		}
		return append(args, graphql.Arg("not", self))
	})
	return self
}

func stringFilter(withMode bool) *graphql.InputObject {
	return comparisonFilter("StringFilter", graphql.String, func() []*graphql.Argument {
		args := []*graphql.Argument{
			graphql.Arg("contains", graphql.String),
			graphql.Arg("startsWith", graphql.String),
			graphql.Arg("endsWith", graphql.String),
		}
		if withMode {
			args = append(args, graphql.Arg("mode", graphql.QueryMode))
		}
		return args
	})
}

// Shared filter inputs. They never reference model types, so their fields
// are forced once at init and are safe to share between compilations.
var (
	stringFilterInsensitive = stringFilter(true)
	stringFilterPlain       = stringFilter(false)

	IntFilter      = comparisonFilter("IntFilter", graphql.Int, nil)
	FloatFilter    = comparisonFilter("FloatFilter", graphql.Float, nil)
	DateTimeFilter = comparisonFilter("DateTimeFilter", graphql.DateTime, nil)
	IDFilter       = comparisonFilter("IDFilter", graphql.ID, nil)
	BooleanFilter  = booleanFilter()
)

func booleanFilter() *graphql.InputObject {
	var self *graphql.InputObject
	self = graphql.NewInputObject("BooleanFilter", "", func() []*graphql.Argument {
		return []*graphql.Argument{
			graphql.Arg("equals", graphql.Boolean),
			graphql.Arg("not", self),
		}
	})
	return self
}

func init() {
	for _, f := range []*graphql.InputObject{
		stringFilterInsensitive, stringFilterPlain,
		IntFilter, FloatFilter, DateTimeFilter, IDFilter, BooleanFilter,
	} {
		f.Fields()
	}
}

// StringFilter returns the string filter input for a provider. Only
// PostgreSQL supports a case-insensitive "mode".
func StringFilter(p schema.Provider) *graphql.InputObject {
	if p == schema.ProviderPostgres {
		return stringFilterInsensitive
	}
	return stringFilterPlain
}

// HasContains reports whether a where input supports string "contains"
// and, if so, whether it also accepts a QueryMode.
func HasContains(where graphql.Type) (contains, insensitive bool) {
	obj, ok := graphql.NamedOf(where).(*graphql.InputObject)
	if !ok {
		return false, false
	}
	c := obj.Field("contains")
	if c == nil || graphql.NamedOf(c.Type) != graphql.String {
		return false, false
	}
	m := obj.Field("mode")
	return true, m != nil && graphql.NamedOf(m.Type) == graphql.QueryMode
}
