package graphql

type thunkState uint8

const (
	thunkPending thunkState = iota
	thunkEvaluating
	thunkDone
)

// Thunk is a deferred value computed at most once. Types that reference
// each other in a cycle hold their field sets in thunks, so a type can be
// named before the types it depends on are fully built.
//
// A Thunk is not safe for concurrent use. Forcing a thunk from inside its
// own function panics.
type Thunk[T any] struct {
	fn    func() T
	val   T
	state thunkState
}

// NewThunk returns a thunk that evaluates fn on first use.
func NewThunk[T any](fn func() T) *Thunk[T] {
	return &Thunk[T]{fn: fn}
}

// ValueThunk returns an already evaluated thunk.
func ValueThunk[T any](v T) *Thunk[T] {
	return &Thunk[T]{val: v, state: thunkDone}
}

// Force evaluates the thunk if needed and returns the memoized value.
// Every call after the first returns the same value.
func (t *Thunk[T]) Force() T {
	switch t.state {
	case thunkDone:
		return t.val
	case thunkEvaluating:
		panic("graphql: thunk forced during its own evaluation")
	}
	t.state = thunkEvaluating
	defer func() {
		if t.state == thunkEvaluating {
			t.state = thunkPending
		}
	}()
	v := t.fn()
	t.val, t.fn, t.state = v, nil, thunkDone
	return v
}

// Evaluated reports whether Force has completed.
func (t *Thunk[T]) Evaluated() bool {
	return t.state == thunkDone
}
