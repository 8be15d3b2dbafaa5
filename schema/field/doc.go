// Package field provides the built-in field types of loom models.
//
// Every constructor takes a config struct and returns a schema.FieldFunc.
// The function is called once per model while the models are initialised
// and returns the database, GraphQL and admin definition of the field:
//
//	schema.Field{Key: "title", Func: field.Text(field.TextConfig{
//	    Validation: field.TextValidation{IsRequired: true},
//	    IsIndexed:  schema.IndexUnique,
//	})}
//
// # Field Types
//
//	field.ID(kind)             // injected into every model
//	field.Text(cfg)            // String, StringFilter
//	field.Integer(cfg)         // Int, IntFilter
//	field.Float(cfg)           // Float, FloatFilter
//	field.Checkbox(cfg)        // Boolean, BooleanFilter
//	field.Timestamp(cfg)       // DateTime, DateTimeFilter
//	field.Select(cfg)          // String, Int or a generated enum
//	field.JSON(cfg)            // JSON, never filtered or ordered
//	field.Virtual(cfg)         // output only, no column
//	field.Relationship(cfg)    // one or many relation to another model
//
// # Options
//
// Options shared by every type live in Common: the admin label and UI
// modes, GraphQL omission and cache hints, field access policies, hooks, and
// the isFilterable/isOrderable gates. A gate is nil, a bool or a
// privacy.GateFunc; nil falls back to the model default.
//
// Config structs carry yaml tags so they can be decoded by compiler/load.
package field
