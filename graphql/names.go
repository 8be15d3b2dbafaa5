package graphql

import (
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names holds the GraphQL type, query and mutation names derived for a model.
type Names struct {
	Output                     string
	ItemQuery                  string
	ListQuery                  string
	ListQueryCount             string
	OrderByInput               string
	WhereInput                 string
	WhereUniqueInput           string
	CreateInput                string
	UpdateInput                string
	UpdateManyInput            string
	ManyRelationFilter         string
	RelateToManyForCreateInput string
	RelateToManyForUpdateInput string
	RelateToOneForCreateInput  string
	RelateToOneForUpdateInput  string
	CreateMutation             string
	CreateManyMutation         string
	UpdateMutation             string
	UpdateManyMutation         string
	DeleteMutation             string
	DeleteManyMutation         string
}

// NamesFor derives the names for a model key and its plural GraphQL name.
func NamesFor(key, plural string) Names {
	lowerPlural := LowerFirst(plural)
	return Names{
		Output:                     key,
		ItemQuery:                  LowerFirst(key),
		ListQuery:                  lowerPlural,
		ListQueryCount:             lowerPlural + "Count",
		OrderByInput:               key + "OrderByInput",
		WhereInput:                 key + "WhereInput",
		WhereUniqueInput:           key + "WhereUniqueInput",
		CreateInput:                key + "CreateInput",
		UpdateInput:                key + "UpdateInput",
		UpdateManyInput:            key + "UpdateArgs",
		ManyRelationFilter:         key + "ManyRelationFilter",
		RelateToManyForCreateInput: key + "RelateToManyForCreateInput",
		RelateToManyForUpdateInput: key + "RelateToManyForUpdateInput",
		RelateToOneForCreateInput:  key + "RelateToOneForCreateInput",
		RelateToOneForUpdateInput:  key + "RelateToOneForUpdateInput",
		CreateMutation:             "create" + key,
		CreateManyMutation:         "create" + plural,
		UpdateMutation:             "update" + key,
		UpdateManyMutation:         "update" + plural,
		DeleteMutation:             "delete" + key,
		DeleteManyMutation:         "delete" + plural,
	}
}

var (
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z]+)`)
	wordSep       = regexp.MustCompile(`[\s_\-]+`)
	validName     = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)
	upperFirst    = cases.Title(language.Und, cases.NoLower)
)

// Humanize splits a key into capitalized words: "createdAt" becomes
// "Created At" and "blog_post" becomes "Blog Post".
func Humanize(s string) string {
	s = camelBoundary.ReplaceAllString(s, "$1 $2")
	words := wordSep.Split(s, -1)
	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, upperFirst.String(w))
		}
	}
	return strings.Join(out, " ")
}

// Pluralize returns the plural form of the last word of s.
func Pluralize(s string) string {
	return inflect.Pluralize(s)
}

// LabelToPath converts a label to a URL path segment.
func LabelToPath(label string) string {
	return strings.ToLower(strings.Join(strings.Split(label, " "), "-"))
}

// LabelToClass converts a label to a GraphQL-style class name.
func LabelToClass(label string) string {
	return strings.Join(strings.Fields(label), "")
}

// LowerFirst lower-cases the first byte of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ValidName reports whether s is a valid GraphQL name.
func ValidName(s string) bool {
	return validName.MatchString(s)
}
