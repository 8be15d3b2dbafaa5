package gqlschema

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/loom"
	"github.com/syssam/loom/compiler/core"
	"github.com/syssam/loom/privacy"
)

// ErrNoSource is returned by root resolvers when the schema was built
// without a data source.
var ErrNoSource = errors.New("loom/gqlschema: no data source configured")

// Source is the query API the root resolvers delegate to. Arguments are
// passed as received from GraphQL; the source applies field input
// resolvers and hooks.
type Source interface {
	FindOne(ctx context.Context, model string, where map[string]any) (any, error)
	FindMany(ctx context.Context, model string, args map[string]any) ([]any, error)
	Count(ctx context.Context, model string, where map[string]any) (int, error)
	Create(ctx context.Context, model string, data map[string]any) (any, error)
	Update(ctx context.Context, model string, where, data map[string]any) (any, error)
	Delete(ctx context.Context, model string, where map[string]any) (any, error)
}

// allow evaluates the operation-level access of m. A denied operation is
// reported as an access error naming the model.
func allow(ctx context.Context, m *core.Model, op loom.Operation) error {
	ok, err := m.Access.EvalOperation(ctx, privacy.Request{Operation: op, Model: m.Key})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrAccessDenied, op, m.Key)
	}
	return nil
}

// ErrAccessDenied is returned when model access rules deny an operation.
var ErrAccessDenied = errors.New("loom/gqlschema: access denied")

// checkTake enforces the query limit of a model.
func checkTake(m *core.Model, args map[string]any) error {
	if m.MaxResults == core.Unbounded {
		return nil
	}
	take, ok := args["take"].(int)
	if !ok || take > m.MaxResults {
		return loom.NewUserInputError(m.Names.ListQuery, "you must provide a take argument of at most %d", m.MaxResults)
	}
	return nil
}

func mapArg(args map[string]any, name string) map[string]any {
	v, _ := args[name].(map[string]any)
	return v
}

func listArg(args map[string]any, name string) []map[string]any {
	raw, _ := args[name].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
