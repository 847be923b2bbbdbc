package nodes

import "github.com/gocompute/gocompute/pkg/types"

// Env carries the per-invocation parameter values, indexed by the parameter
// context's registry position. Lazy parameters hold a thunk that is forced
// at most once, on first access inside the generated closure.
//
// Env is single-use and not safe for concurrent access.
type Env struct {
	slots []envSlot
}

type envSlot struct {
	val   types.Value
	thunk func() (types.Value, error)
	done  bool
}

// NewEnv creates an environment with room for n parameters.
func NewEnv(n int) *Env {
	return &Env{slots: make([]envSlot, n)}
}

// SetValue binds an eagerly coerced value to parameter index i.
func (e *Env) SetValue(i int, v types.Value) {
	e.slots[i] = envSlot{val: v, done: true}
}

// SetLazy binds a value provider to parameter index i. The provider runs at
// most once, when the generated code first reads the parameter.
func (e *Env) SetLazy(i int, thunk func() (types.Value, error)) {
	e.slots[i] = envSlot{thunk: thunk}
}

// Arg returns the value of parameter i, forcing its provider if necessary.
func (e *Env) Arg(i int) (types.Value, error) {
	if i < 0 || i >= len(e.slots) {
		return types.Value{}, types.Errorf(types.ErrGeneration, -1, "parameter index %d out of range", i)
	}
	s := &e.slots[i]
	if !s.done {
		if s.thunk == nil {
			return types.Value{}, types.Errorf(types.ErrGeneration, -1, "parameter %d has no bound value", i)
		}
		v, err := s.thunk()
		if err != nil {
			return types.Value{}, err
		}
		s.val = v
		s.done = true
	}
	return s.val, nil
}

// Len returns the number of parameter slots.
func (e *Env) Len() int {
	return len(e.slots)
}
