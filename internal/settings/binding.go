package settings

import "fmt"

// Binding connects a setting key to a typed callback. Bindings are created
// with Bind and registered with Service.Configure.
type Binding struct {
	key     string
	accepts func(any) bool
	apply   func(any) error
}

// Bind returns a binding calling fn with every value of the setting key.
// T must be the Go type of the setting's Type. Configure does not call fn
// for an optional setting without a value; once a change or delete leaves
// the setting unset, fn receives the zero value of T.
func Bind[T any](key string, fn func(T) error) Binding {
	return Binding{
		key: key,
		accepts: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
		apply: func(v any) error {
			if v == nil {
				var zero T
				return fn(zero)
			}
			t, ok := v.(T)
			if !ok {
				return fmt.Errorf("%w: got %T", ErrTypeMismatch, v)
			}
			return fn(t)
		},
	}
}

// Key returns the setting key.
func (b Binding) Key() string {
	return b.key
}

// Accepts reports whether the callback takes values of type t.
func (b Binding) Accepts(t Type) bool {
	zero := ZeroValue(t)
	return zero != nil && b.accepts(zero)
}
