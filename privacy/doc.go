// Package privacy provides the access-control types used by model and
// field configuration, and the rules to build them from.
//
// # Rule Evaluation
//
// Rules are evaluated in order until one returns a final decision:
//
//   - Allow: Grants access and stops evaluation
//   - Deny: Denies access and stops evaluation
//   - Skip: Continues to the next rule
//
// If all rules return Skip, or the policy is empty, access is allowed.
//
// # Model and Field Access
//
// A ModelAccess holds per-operation policies, per-operation filters that
// narrow the visible items, and per-item policies. A FieldAccess holds read,
// create and update policies:
//
//	access := privacy.ModelAccess{
//	    Operation: map[loom.Operation]privacy.Policy{
//	        loom.OpDelete: {privacy.DenyIfNoViewer(), privacy.HasRole("admin"), privacy.AlwaysDenyRule()},
//	    },
//	    Filter: map[loom.Operation]privacy.FilterFunc{
//	        loom.OpUpdate: privacy.OwnerFilter("author"),
//	    },
//	}
//
// # Gates
//
// Whether a field may be filtered or ordered by is a Gate: a fixed boolean
// or a GateFunc evaluated per request. ParseGate converts configuration
// values and rejects anything else.
//
// # Viewer
//
// The session viewer is stored in the context with WithViewer and read by
// the built-in rules DenyIfNoViewer, HasRole, HasAnyRole and IsOwner.
package privacy
