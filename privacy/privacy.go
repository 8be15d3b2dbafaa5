package privacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/loom"
)

// Policy decision sentinel errors.
//
// These errors are used as return values from rules to indicate how the
// policy evaluation should proceed. Use errors.Is() to check for them:
//
//	if errors.Is(err, privacy.Allow) { ... }
//	if errors.Is(err, privacy.Deny) { ... }
//	if errors.Is(err, privacy.Skip) { ... }
var (
	// Allow may be returned by rules to indicate that the policy
	// evaluation should terminate with an allow decision.
	Allow = errors.New("loom/privacy: allow rule")

	// Deny may be returned by rules to indicate that the policy
	// evaluation should terminate with a deny decision.
	Deny = errors.New("loom/privacy: deny rule")

	// Skip may be returned by rules to indicate that the policy
	// evaluation should continue to the next rule in the chain.
	Skip = errors.New("loom/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

// Request describes the operation an access rule is asked about.
type Request struct {
	Operation loom.Operation
	Model     string
	// Field is empty for model-level rules.
	Field string
	// Item is the existing item for read, update and delete.
	Item any
	// Input is the resolved input data for create and update.
	Input any
}

// Rule decides whether a request is allowed.
type Rule interface {
	Eval(context.Context, Request) error
}

// RuleFunc type is an adapter which allows the use of ordinary functions
// as rules.
type RuleFunc func(context.Context, Request) error

// Eval returns f(ctx, r).
func (f RuleFunc) Eval(ctx context.Context, r Request) error {
	return f(ctx, r)
}

// AlwaysAllowRule returns a rule that always returns an Allow decision.
func AlwaysAllowRule() Rule {
	return RuleFunc(func(context.Context, Request) error { return Allow })
}

// AlwaysDenyRule returns a rule that always returns a Deny decision.
func AlwaysDenyRule() Rule {
	return RuleFunc(func(context.Context, Request) error { return Deny })
}

// ContextRule creates a rule from a context evaluation function.
// Returning nil is equivalent to returning Skip.
func ContextRule(eval func(context.Context) error) Rule {
	return RuleFunc(func(ctx context.Context, _ Request) error { return eval(ctx) })
}

// OnOperation evaluates the given rule only for the given operations.
func OnOperation(rule Rule, ops ...loom.Operation) Rule {
	return RuleFunc(func(ctx context.Context, r Request) error {
		for _, op := range ops {
			if r.Operation == op {
				return rule.Eval(ctx, r)
			}
		}
		return Skip
	})
}

// DenyOperationRule returns a rule denying the given operation.
func DenyOperationRule(op loom.Operation) Rule {
	rule := RuleFunc(func(_ context.Context, r Request) error {
		return Denyf("loom/privacy: operation %s is not allowed on %s", r.Operation, r.Model)
	})
	return OnOperation(rule, op)
}

// Policy combines rules evaluated in order. An empty policy, or one where
// every rule skips, allows the request.
type Policy []Rule

// Eval evaluates the policy. If a rule returns Allow the evaluation stops
// with a nil error; any other non-skip decision is returned as is.
func (p Policy) Eval(ctx context.Context, r Request) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, rule := range p {
		switch decision := rule.Eval(ctx, r); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

// Allowed evaluates the policy and reports a Deny decision as false with a
// nil error. Other errors are returned.
func (p Policy) Allowed(ctx context.Context, r Request) (bool, error) {
	switch err := p.Eval(ctx, r); {
	case err == nil:
		return true, nil
	case errors.Is(err, Deny):
		return false, nil
	default:
		return false, err
	}
}

type decisionCtxKey struct{}

// DecisionContext creates a new context from the given parent context with
// a policy decision attached to it.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext retrieves the policy decision from the context.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

// Filter is a where-input value restricting the items an operation may see.
type Filter map[string]any

// FilterFunc returns a filter for the request. A nil filter with a nil
// error means unrestricted. A Deny decision blocks the operation.
type FilterFunc func(context.Context, Request) (Filter, error)

// ModelAccess holds the access rules of a model. Nil maps and missing
// entries allow everything.
type ModelAccess struct {
	// Operation is checked before any work is done: query, create, update, delete.
	Operation map[loom.Operation]Policy
	// Filter narrows the items visible to query, update and delete.
	Filter map[loom.Operation]FilterFunc
	// Item is checked per item for create, update and delete.
	Item map[loom.Operation]Policy
}

// Validate checks that each map only configures operations it supports.
func (a ModelAccess) Validate(model string) error {
	var errs []error
	for op := range a.Operation {
		switch op {
		case loom.OpQuery, loom.OpCreate, loom.OpUpdate, loom.OpDelete:
		default:
			errs = append(errs, loom.NewConfigurationError(model, "access.operation does not support %q", op))
		}
	}
	for op := range a.Filter {
		switch op {
		case loom.OpQuery, loom.OpUpdate, loom.OpDelete:
		default:
			errs = append(errs, loom.NewConfigurationError(model, "access.filter does not support %q", op))
		}
	}
	for op := range a.Item {
		switch op {
		case loom.OpCreate, loom.OpUpdate, loom.OpDelete:
		default:
			errs = append(errs, loom.NewConfigurationError(model, "access.item does not support %q", op))
		}
	}
	return errors.Join(errs...)
}

// EvalOperation evaluates the operation-level policy.
func (a ModelAccess) EvalOperation(ctx context.Context, r Request) (bool, error) {
	return a.Operation[r.Operation].Allowed(ctx, r)
}

// EvalItem evaluates the item-level policy.
func (a ModelAccess) EvalItem(ctx context.Context, r Request) (bool, error) {
	return a.Item[r.Operation].Allowed(ctx, r)
}

// EvalFilter returns the access filter for the request. The boolean is
// false when the request is denied outright.
func (a ModelAccess) EvalFilter(ctx context.Context, r Request) (Filter, bool, error) {
	fn := a.Filter[r.Operation]
	if fn == nil {
		return nil, true, nil
	}
	f, err := fn(ctx, r)
	switch {
	case err == nil || errors.Is(err, Allow) || errors.Is(err, Skip):
		return f, true, nil
	case errors.Is(err, Deny):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// FieldAccess holds the access rules of a field.
type FieldAccess struct {
	Read   Policy
	Create Policy
	Update Policy
}

// FieldAccessAll applies one policy to every field operation.
func FieldAccessAll(p Policy) FieldAccess {
	return FieldAccess{Read: p, Create: p, Update: p}
}

// Eval evaluates the policy matching r.Operation. Unknown operations are
// rejected.
func (a FieldAccess) Eval(ctx context.Context, r Request) (bool, error) {
	switch r.Operation {
	case loom.OpRead, loom.OpQuery:
		return a.Read.Allowed(ctx, r)
	case loom.OpCreate:
		return a.Create.Allowed(ctx, r)
	case loom.OpUpdate:
		return a.Update.Allowed(ctx, r)
	default:
		return false, fmt.Errorf("loom/privacy: field access has no %s operation", r.Operation)
	}
}
