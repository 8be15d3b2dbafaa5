package schema

import (
	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/privacy"
)

// ModelEnablement records which GraphQL operations a model exposes.
type ModelEnablement struct {
	Type    bool
	Query   bool
	Create  bool
	Update  bool
	Delete  bool
	Filter  privacy.Gate
	OrderBy privacy.Gate
}

// ModelTypes is the GraphQL type bundle of a model. Object and input object
// field sets are evaluated lazily so that models can reference each other.
type ModelTypes struct {
	Output             *graphql.Object
	UniqueWhere        *graphql.InputObject
	Where              *graphql.InputObject
	Create             *graphql.InputObject
	Update             *graphql.InputObject
	OrderBy            *graphql.InputObject
	ManyRelationFilter *graphql.InputObject
	// FindManyArgs are the arguments of list queries and many-relation fields.
	FindManyArgs []*graphql.Argument
	RelateTo     RelateTo
}

// RelateTo holds the input types used by relationship fields pointing at
// a model. Nil when the model's type is disabled.
type RelateTo struct {
	Many struct {
		Where  *graphql.InputObject
		Create *graphql.InputObject
		Update *graphql.InputObject
	}
	One struct {
		Create *graphql.InputObject
		Update *graphql.InputObject
	}
}

// ModelRef is what a field constructor can see of another model.
type ModelRef struct {
	Key   string
	Names graphql.Names
	// Enabled may still change until compilation finishes; read it from
	// within lazy field-set functions.
	Enabled *ModelEnablement
	Types   *ModelTypes
}

// TypeRegistry looks up models by key.
type TypeRegistry interface {
	Model(key string) (*ModelRef, bool)
}
