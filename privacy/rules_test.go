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

// TestSimpleViewer tests the SimpleViewer implementation.
func TestSimpleViewer(t *testing.T) {
	viewer := &privacy.SimpleViewer{
		UserID: "user-123",
		Roles:  []string{"admin", "user"},
	}

	assert.Equal(t, "user-123", viewer.GetID())
	assert.Equal(t, []string{"admin", "user"}, viewer.GetRoles())
}

// TestViewerContext tests viewer context functions.
func TestViewerContext(t *testing.T) {
	t.Run("WithViewer_and_ViewerFromContext", func(t *testing.T) {
		viewer := &privacy.SimpleViewer{UserID: "user-123"}
		ctx := privacy.WithViewer(context.Background(), viewer)

		retrieved := privacy.ViewerFromContext(ctx)
		require.NotNil(t, retrieved)
		assert.Equal(t, "user-123", retrieved.GetID())
	})

	t.Run("ViewerFromContext_returns_nil_without_viewer", func(t *testing.T) {
		assert.Nil(t, privacy.ViewerFromContext(context.Background()))
	})
}

// TestDenyIfNoViewer tests the DenyIfNoViewer rule.
func TestDenyIfNoViewer(t *testing.T) {
	rule := privacy.DenyIfNoViewer()

	err := rule.Eval(context.Background(), privacy.Request{})
	assert.True(t, errors.Is(err, privacy.Deny))

	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "user-123"})
	err = rule.Eval(ctx, privacy.Request{})
	assert.True(t, errors.Is(err, privacy.Skip))
}

// TestHasRole tests the HasRole and HasAnyRole rules.
func TestHasRole(t *testing.T) {
	tests := []struct {
		name   string
		viewer privacy.Viewer
		rule   privacy.Rule
		want   error
	}{
		{name: "no_viewer_skips", rule: privacy.HasRole("admin"), want: privacy.Skip},
		{name: "role_allows", viewer: &privacy.SimpleViewer{Roles: []string{"admin"}}, rule: privacy.HasRole("admin"), want: privacy.Allow},
		{name: "missing_role_skips", viewer: &privacy.SimpleViewer{Roles: []string{"user"}}, rule: privacy.HasRole("admin"), want: privacy.Skip},
		{name: "any_role_allows", viewer: &privacy.SimpleViewer{Roles: []string{"editor"}}, rule: privacy.HasAnyRole("admin", "editor"), want: privacy.Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.viewer != nil {
				ctx = privacy.WithViewer(ctx, tt.viewer)
			}
			assert.True(t, errors.Is(tt.rule.Eval(ctx, privacy.Request{}), tt.want))
		})
	}
}

// TestIsOwner tests the IsOwner rule against items and inputs.
func TestIsOwner(t *testing.T) {
	rule := privacy.IsOwner("author")
	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "42"})

	tests := []struct {
		name string
		req  privacy.Request
		want error
	}{
		{name: "item_match", req: privacy.Request{Item: map[string]any{"author": int64(42)}}, want: privacy.Allow},
		{name: "input_match", req: privacy.Request{Input: map[string]any{"author": "42"}}, want: privacy.Allow},
		{name: "mismatch", req: privacy.Request{Item: map[string]any{"author": "7"}}, want: privacy.Skip},
		{name: "missing_field", req: privacy.Request{Item: map[string]any{}}, want: privacy.Skip},
		{name: "not_a_map", req: privacy.Request{Item: 42}, want: privacy.Skip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(rule.Eval(ctx, tt.req), tt.want))
		})
	}

	assert.True(t, errors.Is(rule.Eval(context.Background(), privacy.Request{}), privacy.Skip))
}

// TestIntegratedPolicyChain tests a typical owner-or-admin chain.
func TestIntegratedPolicyChain(t *testing.T) {
	policy := privacy.Policy{
		privacy.DenyIfNoViewer(),
		privacy.HasRole("admin"),
		privacy.IsOwner("author"),
		privacy.AlwaysDenyRule(),
	}
	req := privacy.Request{Operation: loom.OpUpdate, Item: map[string]any{"author": "1"}}

	ok, err := policy.Allowed(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = policy.Allowed(privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "1"}), req)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = policy.Allowed(privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "2"}), req)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = policy.Allowed(privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "2", Roles: []string{"admin"}}), req)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOwnerFilter(t *testing.T) {
	fn := privacy.OwnerFilter("author")
	_, err := fn(context.Background(), privacy.Request{})
	require.True(t, errors.Is(err, privacy.Deny))

	f, err := fn(privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "9"}), privacy.Request{})
	require.NoError(t, err)
	assert.Equal(t, privacy.Filter{"author": map[string]any{"id": map[string]any{"equals": "9"}}}, f)
}
