package dynemf

import (
	"fmt"
	"reflect"

	"github.com/modern-go/reflect2"
)

// Wrapper is the common interface of all wrappers.
type Wrapper interface {
	// Unwrap provides the wrapped framework object.
	Unwrap() any
	// Err provides the first error of the call chain.
	Err() error
	// Equal compares the wrapped object with another object or
	// the object wrapped by another wrapper.
	Equal(o any) bool
}

type wrapper[T any] struct {
	obj T
	err error
}

// Result provides the wrapped object.
func (w *wrapper[T]) Result() T {
	return w.obj
}

func (w *wrapper[T]) Unwrap() any {
	return w.obj
}

func (w *wrapper[T]) Err() error {
	return w.err
}

func (w *wrapper[T]) Equal(o any) bool {
	if isNil(o) {
		return isNil(w.obj)
	}
	if ow, ok := o.(Wrapper); ok {
		o = ow.Unwrap()
	}
	return equal(w.obj, o)
}

func (w *wrapper[T]) String() string {
	if w.err != nil {
		return fmt.Sprintf("error: %s", w.err)
	}
	return fmt.Sprint(w.obj)
}

// fail records the first error.
func (w *wrapper[T]) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
		log.Debug("wrapper operation failed", "error", err)
	}
}

func isNil(v any) bool {
	return v == nil || reflect2.IsNil(v)
}

func equal(a, b any) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// unwrap maps wrappers to their wrapped objects and keeps other values.
func unwrap(v any) (any, error) {
	if isNil(v) {
		return nil, nil
	}
	if w, ok := v.(Wrapper); ok {
		return w.Unwrap(), w.Err()
	}
	return v, nil
}

func unwrapAll(values []any) ([]any, error) {
	result := make([]any, len(values))
	for i, v := range values {
		e, err := unwrap(v)
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}
