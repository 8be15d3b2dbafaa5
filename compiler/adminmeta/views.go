package adminmeta

// Views assigns dense indices to view module identifiers in the order they
// are first seen.
type Views struct {
	index map[string]int
	list  []string
}

// NewViews returns an empty view registry.
func NewViews() *Views {
	return &Views{index: make(map[string]int), list: []string{}}
}

// ID returns the index of view, registering it on first use.
func (v *Views) ID(view string) int {
	if i, ok := v.index[view]; ok {
		return i
	}
	i := len(v.list)
	v.index[view] = i
	v.list = append(v.list, view)
	return i
}

// List returns the registered identifiers, indexed by ID.
func (v *Views) List() []string {
	return v.list
}
