// Package core initialises configured models into a sealed registry.
//
// Initialisation happens in two phases. The first registers every model
// key together with a lazily built GraphQL type bundle, so field
// constructors can reference the types of any model, including models
// declared later or the model itself. The second phase calls the field
// constructors, resolves relationships into both of their sides and seals
// the registry. Type field sets may only be forced once the registry is
// sealed.
package core
