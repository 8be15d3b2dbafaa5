package privacy

import (
	"context"
	"fmt"
	"slices"
)

// Viewer represents the session making a request.
// This interface should be implemented by application-specific user types.
type Viewer interface {
	// GetID returns the viewer's unique identifier.
	GetID() string
	// GetRoles returns the viewer's roles.
	GetRoles() []string
}

type viewerCtxKey struct{}

// WithViewer returns a new context with the viewer attached.
func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerCtxKey{}, viewer)
}

// ViewerFromContext retrieves the viewer from the context.
// Returns nil if no viewer is present.
func ViewerFromContext(ctx context.Context) Viewer {
	v, _ := ctx.Value(viewerCtxKey{}).(Viewer)
	return v
}

// SimpleViewer is a basic implementation of the Viewer interface.
type SimpleViewer struct {
	UserID string
	Roles  []string
}

// GetID returns the user ID.
func (v *SimpleViewer) GetID() string { return v.UserID }

// GetRoles returns the user's roles.
func (v *SimpleViewer) GetRoles() []string { return v.Roles }

// DenyIfNoViewer returns a rule that denies access if no viewer is present
// in the context.
//
//	privacy.Policy{
//	    privacy.DenyIfNoViewer(),
//	    privacy.HasRole("admin"),
//	    privacy.AlwaysDenyRule(),
//	}
func DenyIfNoViewer() Rule {
	return ContextRule(func(ctx context.Context) error {
		if ViewerFromContext(ctx) == nil {
			return Denyf("privacy: viewer required")
		}
		return Skip
	})
}

// HasRole returns a rule that allows access if the viewer has the given
// role, and skips otherwise.
func HasRole(role string) Rule {
	return HasAnyRole(role)
}

// HasAnyRole returns a rule that allows access if the viewer has any of the
// given roles, and skips otherwise.
func HasAnyRole(roles ...string) Rule {
	return ContextRule(func(ctx context.Context) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		for _, role := range roles {
			if slices.Contains(viewer.GetRoles(), role) {
				return Allow
			}
		}
		return Skip
	})
}

// IsOwner returns a rule that allows access when the item's (or, for
// create, the input's) field holds the viewer's ID. Items are expected to
// be map[string]any values.
//
//	privacy.Policy{
//	    privacy.DenyIfNoViewer(),
//	    privacy.IsOwner("author"),
//	    privacy.AlwaysDenyRule(),
//	}
func IsOwner(field string) Rule {
	return RuleFunc(func(ctx context.Context, r Request) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		src := r.Item
		if src == nil {
			src = r.Input
		}
		m, ok := src.(map[string]any)
		if !ok {
			return Skip
		}
		value, ok := m[field]
		if !ok || value == nil {
			return Skip
		}
		var id string
		switch v := value.(type) {
		case string:
			id = v
		case int64:
			id = fmt.Sprintf("%d", v)
		case int:
			id = fmt.Sprintf("%d", v)
		default:
			id = fmt.Sprintf("%v", v)
		}
		if id == viewer.GetID() {
			return Allow
		}
		return Skip
	})
}

// OwnerFilter returns a filter restricting items to those whose field
// equals the viewer's ID. Requests without a viewer are denied.
func OwnerFilter(field string) FilterFunc {
	return func(ctx context.Context, _ Request) (Filter, error) {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return nil, Denyf("privacy: viewer required for owner-filtered query")
		}
		return Filter{field: map[string]any{"id": map[string]any{"equals": viewer.GetID()}}}, nil
	}
}
