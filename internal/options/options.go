// Package options implements a small generic functional-options helper
// shared by the pack and unpack configuration types (blob.PackOption,
// blob.UnpackOption). Both configure a concrete config struct through
// the same apply-in-order mechanism, so the plumbing lives here once.
package options

// Option configures a target of type T, returning an error if the
// requested configuration is invalid (e.g. an out-of-range clock id).
type Option[T any] interface {
	apply(T) error
}

// fn adapts a plain function to the Option interface.
type fn[T any] struct {
	do func(T) error
}

func (f *fn[T]) apply(target T) error {
	return f.do(target)
}

// New wraps fn as an Option that may fail validation.
func New[T any](do func(T) error) Option[T] {
	return &fn[T]{do: do}
}

// NoError wraps fn as an Option that always succeeds, for settings with no
// invalid values (e.g. a boolean toggle).
func NoError[T any](do func(T)) Option[T] {
	return &fn[T]{do: func(target T) error {
		do(target)
		return nil
	}}
}

// Apply runs every option against target in order, stopping at the first
// error so that config state never reflects a partially-invalid option set.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
