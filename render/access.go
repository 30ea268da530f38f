package render

// Access is either a constant value or a function computing the value from
// the per-draw props and the draw index. The zero Access is unset.
type Access[P, R any] struct {
	value R
	fn    func(props P, index int) (R, error)
	set   bool
}

func Constant[P, R any](value R) Access[P, R] {
	return Access[P, R]{value: value, set: true}
}

// Computed wraps fn. Errors returned by fn reach the caller of the draw
// unchanged.
func Computed[P, R any](fn func(props P, index int) (R, error)) Access[P, R] {
	return Access[P, R]{fn: fn, set: fn != nil}
}

// Func is Computed for accessors that cannot fail.
func Func[P, R any](fn func(props P, index int) R) Access[P, R] {
	if fn == nil {
		return Access[P, R]{}
	}
	return Computed(func(props P, index int) (R, error) {
		return fn(props, index), nil
	})
}

func (a Access[P, R]) IsSet() bool {
	return a.set
}

func (a Access[P, R]) IsComputed() bool {
	return a.fn != nil
}

// Resolve is evaluated on every draw; results are never cached.
func (a Access[P, R]) Resolve(props P, index int) (R, error) {
	if a.fn != nil {
		return a.fn(props, index)
	}
	return a.value, nil
}
