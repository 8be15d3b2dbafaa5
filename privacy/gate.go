package privacy

import (
	"context"
	"fmt"

	"github.com/syssam/loom"
)

// GateArgs is passed to a dynamic filter or order-by gate.
type GateArgs struct {
	Model     string
	Field     string
	Operation string // "filter" or "orderBy"
}

// GateFunc decides at request time whether filtering or ordering by a
// field is allowed.
type GateFunc func(context.Context, GateArgs) (bool, error)

// Gate is a boolean-or-predicate enablement flag.
type Gate struct {
	static bool
	fn     GateFunc
}

// StaticGate returns a gate fixed to b.
func StaticGate(b bool) Gate { return Gate{static: b} }

// DynamicGate returns a gate that consults fn on each request.
func DynamicGate(fn GateFunc) Gate { return Gate{fn: fn} }

// Enabled reports whether the gate may ever allow the operation.
// Dynamic gates are considered enabled.
func (g Gate) Enabled() bool { return g.fn != nil || g.static }

// Dynamic reports whether the gate is a predicate.
func (g Gate) Dynamic() bool { return g.fn != nil }

// Allow evaluates the gate.
func (g Gate) Allow(ctx context.Context, args GateArgs) (bool, error) {
	if g.fn != nil {
		return g.fn(ctx, args)
	}
	return g.static, nil
}

// When returns g if cond holds and a closed gate otherwise.
func (g Gate) When(cond bool) Gate {
	if !cond {
		return Gate{}
	}
	return g
}

// ParseGate converts a configuration value to a gate. Accepted values are
// nil (ok is false), bool, GateFunc, or a function with GateFunc's
// signature. Anything else is a configuration error for path.
func ParseGate(v any, path, option string) (g Gate, ok bool, err error) {
	switch v := v.(type) {
	case nil:
		return Gate{}, false, nil
	case bool:
		return StaticGate(v), true, nil
	case GateFunc:
		if v == nil {
			return Gate{}, false, nil
		}
		return DynamicGate(v), true, nil
	case func(context.Context, GateArgs) (bool, error):
		if v == nil {
			return Gate{}, false, nil
		}
		return DynamicGate(v), true, nil
	default:
		return Gate{}, false, loom.NewConfigurationError(path,
			"configuration option %s must be either a boolean value or a function, received %s",
			option, describe(v))
	}
}

func describe(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%T(%v)", v, v)
	}
}
