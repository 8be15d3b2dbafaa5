package loom

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Operation names an operation that can be enabled or omitted on a model
// or a field.
type Operation string

// Model and field operations.
const (
	OpQuery  Operation = "query"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpRead   Operation = "read"
)

// String returns the operation name.
func (o Operation) String() string { return string(o) }

// Omit configures which GraphQL operations are left out of the schema.
// A nil *Omit omits nothing.
type Omit struct {
	All bool
	Ops []Operation
}

// OmitAll omits every operation.
func OmitAll() *Omit { return &Omit{All: true} }

// OmitOps omits the given operations only.
func OmitOps(ops ...Operation) *Omit { return &Omit{Ops: ops} }

// Has reports whether op is omitted.
func (o *Omit) Has(op Operation) bool {
	if o == nil {
		return false
	}
	return o.All || slices.Contains(o.Ops, op)
}

// UnmarshalYAML accepts either a boolean or a sequence of operation names.
func (o *Omit) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var all bool
		if err := node.Decode(&all); err != nil {
			return fmt.Errorf("omit must be a boolean or a list of operations: %w", err)
		}
		*o = Omit{All: all}
		return nil
	case yaml.SequenceNode:
		var ops []Operation
		if err := node.Decode(&ops); err != nil {
			return err
		}
		for _, op := range ops {
			switch op {
			case OpQuery, OpCreate, OpUpdate, OpDelete, OpRead:
			default:
				return fmt.Errorf("unknown operation %q in omit", op)
			}
		}
		*o = Omit{Ops: ops}
		return nil
	default:
		return fmt.Errorf("omit must be a boolean or a list of operations (line %d)", node.Line)
	}
}
