package privacy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/syssam/loom"
	"github.com/syssam/loom/privacy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecisionErrors tests the decision error types and formatting.
func TestDecisionErrors(t *testing.T) {
	tests := []struct {
		name      string
		decision  error
		wantAllow bool
		wantDeny  bool
		wantSkip  bool
	}{
		{name: "allow_decision", decision: privacy.Allow, wantAllow: true},
		{name: "deny_decision", decision: privacy.Deny, wantDeny: true},
		{name: "skip_decision", decision: privacy.Skip, wantSkip: true},
		{name: "allowf_formatted", decision: privacy.Allowf("user %s allowed", "admin"), wantAllow: true},
		{name: "denyf_formatted", decision: privacy.Denyf("user %s denied", "guest"), wantDeny: true},
		{name: "skipf_formatted", decision: privacy.Skipf("rule %d skipped", 1), wantSkip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAllow, errors.Is(tt.decision, privacy.Allow))
			assert.Equal(t, tt.wantDeny, errors.Is(tt.decision, privacy.Deny))
			assert.Equal(t, tt.wantSkip, errors.Is(tt.decision, privacy.Skip))
		})
	}
}

// TestPolicy tests ordered policy evaluation.
func TestPolicy(t *testing.T) {
	ctx := context.Background()
	req := privacy.Request{Operation: loom.OpUpdate, Model: "Post"}
	errBoom := errors.New("boom")

	tests := []struct {
		name        string
		policy      privacy.Policy
		wantAllowed bool
		wantErr     error
	}{
		{name: "empty_allows", policy: nil, wantAllowed: true},
		{name: "all_skip_allows", policy: privacy.Policy{privacy.ContextRule(func(context.Context) error { return nil })}, wantAllowed: true},
		{name: "deny", policy: privacy.Policy{privacy.AlwaysDenyRule(), privacy.AlwaysAllowRule()}},
		{name: "allow_stops", policy: privacy.Policy{privacy.AlwaysAllowRule(), privacy.AlwaysDenyRule()}, wantAllowed: true},
		{
			name: "error_is_returned",
			policy: privacy.Policy{privacy.RuleFunc(func(context.Context, privacy.Request) error {
				return errBoom
			})},
			wantErr: errBoom,
		},
		{name: "on_other_operation_skips", policy: privacy.Policy{privacy.DenyOperationRule(loom.OpDelete)}, wantAllowed: true},
		{name: "on_operation_denies", policy: privacy.Policy{privacy.DenyOperationRule(loom.OpUpdate)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := tt.policy.Allowed(ctx, req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, allowed)
		})
	}
}

func TestDecisionContext(t *testing.T) {
	tests := []struct {
		name         string
		decision     error
		expectStored bool
		expectValue  error
	}{
		{name: "deny_stored_in_context", decision: privacy.Deny, expectStored: true, expectValue: privacy.Deny},
		{name: "allow_stored_returns_nil", decision: privacy.Allow, expectStored: true},
		{name: "skip_not_stored", decision: privacy.Skip},
		{name: "nil_not_stored", decision: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := privacy.DecisionContext(context.Background(), tt.decision)
			decision, ok := privacy.DecisionFromContext(ctx)

			assert.Equal(t, tt.expectStored, ok)
			if tt.expectStored {
				if tt.expectValue == nil {
					assert.NoError(t, decision)
				} else {
					assert.True(t, errors.Is(decision, tt.expectValue))
				}
			}
		})
	}

	t.Run("overrides_policy", func(t *testing.T) {
		ctx := privacy.DecisionContext(context.Background(), privacy.Allow)
		allowed, err := privacy.Policy{privacy.AlwaysDenyRule()}.Allowed(ctx, privacy.Request{})
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestModelAccess(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	access := privacy.ModelAccess{
		Operation: map[loom.Operation]privacy.Policy{
			loom.OpDelete: {privacy.AlwaysDenyRule()},
		},
		Filter: map[loom.Operation]privacy.FilterFunc{
			loom.OpQuery: func(context.Context, privacy.Request) (privacy.Filter, error) {
				return privacy.Filter{"published": map[string]any{"equals": true}}, nil
			},
			loom.OpUpdate: func(context.Context, privacy.Request) (privacy.Filter, error) {
				return nil, privacy.Deny
			},
		},
	}
	require.NoError(access.Validate("Post"))

	ok, err := access.EvalOperation(ctx, privacy.Request{Operation: loom.OpDelete})
	require.NoError(err)
	require.False(ok)
	ok, err = access.EvalOperation(ctx, privacy.Request{Operation: loom.OpQuery})
	require.NoError(err)
	require.True(ok)

	f, ok, err := access.EvalFilter(ctx, privacy.Request{Operation: loom.OpQuery})
	require.NoError(err)
	require.True(ok)
	require.Contains(f, "published")

	_, ok, err = access.EvalFilter(ctx, privacy.Request{Operation: loom.OpUpdate})
	require.NoError(err)
	require.False(ok)

	f, ok, err = access.EvalFilter(ctx, privacy.Request{Operation: loom.OpDelete})
	require.NoError(err)
	require.True(ok)
	require.Nil(f)

	ok, err = access.EvalItem(ctx, privacy.Request{Operation: loom.OpCreate})
	require.NoError(err)
	require.True(ok)
}

func TestModelAccessValidate(t *testing.T) {
	access := privacy.ModelAccess{
		Operation: map[loom.Operation]privacy.Policy{loom.OpRead: nil},
		Filter:    map[loom.Operation]privacy.FilterFunc{loom.OpCreate: nil},
		Item:      map[loom.Operation]privacy.Policy{loom.OpQuery: nil},
	}
	err := access.Validate("Post")
	require.Error(t, err)
	assert.True(t, loom.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "access.operation")
	assert.Contains(t, err.Error(), "access.filter")
	assert.Contains(t, err.Error(), "access.item")
}

func TestFieldAccess(t *testing.T) {
	ctx := context.Background()
	access := privacy.FieldAccess{Update: privacy.Policy{privacy.AlwaysDenyRule()}}

	ok, err := access.Eval(ctx, privacy.Request{Operation: loom.OpRead})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = access.Eval(ctx, privacy.Request{Operation: loom.OpUpdate})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = access.Eval(ctx, privacy.Request{Operation: loom.OpDelete})
	require.Error(t, err)

	all := privacy.FieldAccessAll(privacy.Policy{privacy.AlwaysDenyRule()})
	ok, err = all.Eval(ctx, privacy.Request{Operation: loom.OpCreate})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseGate(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context, args privacy.GateArgs) (bool, error) {
		return args.Field == "title", nil
	}

	tests := []struct {
		name        string
		value       any
		wantSet     bool
		wantEnabled bool
		wantErr     bool
	}{
		{name: "nil", value: nil},
		{name: "true", value: true, wantSet: true, wantEnabled: true},
		{name: "false", value: false, wantSet: true},
		{name: "func", value: fn, wantSet: true, wantEnabled: true},
		{name: "gate_func", value: privacy.GateFunc(fn), wantSet: true, wantEnabled: true},
		{name: "nil_gate_func", value: privacy.GateFunc(nil)},
		{name: "string", value: "yes", wantErr: true},
		{name: "int", value: 1, wantErr: true},
		{name: "wrong_func", value: func() bool { return true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, set, err := privacy.ParseGate(tt.value, "Post.title", "isFilterable")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, loom.IsConfigurationError(err))
				assert.Equal(t, "Post.title", loom.ConfigurationPath(err))
				assert.Contains(t, err.Error(), "isFilterable")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, set)
			assert.Equal(t, tt.wantEnabled, g.Enabled())
		})
	}

	t.Run("dynamic_allow", func(t *testing.T) {
		g, _, err := privacy.ParseGate(fn, "Post.title", "isOrderable")
		require.NoError(t, err)
		assert.True(t, g.Dynamic())
		ok, err := g.Allow(ctx, privacy.GateArgs{Field: "title"})
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = g.Allow(ctx, privacy.GateArgs{Field: "body"})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, g.When(false).Enabled())
		assert.True(t, g.When(true).Enabled())
	})
}
