// Package schema provides the configuration surface for defining loom models.
//
// A Config lists models in declaration order. Each model lists its fields,
// and each field is produced by a FieldFunc, usually one of the builders in
// the [field] subpackage:
//
//	cfg := schema.Config{
//	    DB: schema.DBConfig{Provider: schema.ProviderPostgres},
//	    Models: []*schema.ModelConfig{{
//	        Key: "Post",
//	        Fields: []schema.Field{
//	            {Key: "title", Func: field.Text(field.TextConfig{Validation: field.TextValidation{IsRequired: true}})},
//	            {Key: "author", Func: field.Relationship(field.RelationshipConfig{Ref: "User.posts"})},
//	        },
//	        UI: schema.ModelUI{SearchFields: []string{"title"}},
//	    }, {
//	        Key: "User",
//	        Fields: []schema.Field{
//	            {Key: "name", Func: field.Text(field.TextConfig{})},
//	            {Key: "posts", Func: field.Relationship(field.RelationshipConfig{Ref: "Post.author", Many: true})},
//	        },
//	    }},
//	}
//
// # Field Definitions
//
// A FieldFunc receives a FieldContext naming the field and the model it
// belongs to, with access to every model's (lazily built) GraphQL types,
// and returns a FieldDef. The definition declares the database column or
// relation, the GraphQL input arguments and output field, admin views and
// access rules. The compiler turns definitions into resolved fields.
//
// # Admin Metadata
//
// AdminMeta, AdminModelMeta and AdminFieldMeta are the JSON documents
// produced for the admin UI.
package schema
