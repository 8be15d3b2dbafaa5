package graphql

// Scalars defined by GraphQL itself.
var (
	String  = &Scalar{name: "String", builtin: true}
	Int     = &Scalar{name: "Int", builtin: true}
	Float   = &Scalar{name: "Float", builtin: true}
	Boolean = &Scalar{name: "Boolean", builtin: true}
	ID      = &Scalar{name: "ID", builtin: true}
)

// Custom scalars shared by the built-in field types.
var (
	DateTime = NewScalar("DateTime", "An RFC 3339 date-time string.")
	JSON     = NewScalar("JSON", "Arbitrary JSON value.")
)

// Enums shared by every generated schema.
var (
	OrderDirection = NewEnum("OrderDirection", "",
		EnumValue{Name: "asc"},
		EnumValue{Name: "desc"},
	)

	QueryMode = NewEnum("QueryMode", "",
		EnumValue{Name: "default"},
		EnumValue{Name: "insensitive"},
	)
)
