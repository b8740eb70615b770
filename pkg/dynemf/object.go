package dynemf

import (
	"fmt"

	"github.com/mandelsoft/goutils/errors"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

// EObjectWrapper wraps a model object. Features are addressed by name
// and resolved against the class of the object at call time.
type EObjectWrapper struct {
	valueWrapper[ecore.Object]
}

var _ Value = (*EObjectWrapper)(nil)

// Obj wraps a model object.
func Obj(o ecore.Object) *EObjectWrapper {
	return &EObjectWrapper{valueWrapper[ecore.Object]{wrapper[ecore.Object]{obj: o}}}
}

func objError(err error) *EObjectWrapper {
	return &EObjectWrapper{errorValue[ecore.Object](err)}
}

// As provides the object wrapped by a wrapper as the given Go type.
func As[T any](w Wrapper) (T, error) {
	var _nil T
	if w.Err() != nil {
		return _nil, w.Err()
	}
	t, ok := w.Unwrap().(T)
	if !ok {
		return _nil, fmt.Errorf("%w: %T is no %T", ErrType, w.Unwrap(), _nil)
	}
	return t, nil
}

func (w *EObjectWrapper) AsEObject() *EObjectWrapper {
	return w
}

// EClass provides the class of the wrapped object.
func (w *EObjectWrapper) EClass() *ecore.Class {
	if isNil(w.obj) {
		return nil
	}
	return w.obj.EClass()
}

func (w *EObjectWrapper) feature(name string) (ecore.StructuralFeature, error) {
	if w.err != nil {
		return nil, w.err
	}
	if isNil(w.obj) {
		return nil, ErrNotLoaded
	}
	f := w.obj.EClass().StructuralFeature(name)
	if f == nil {
		return nil, &ecore.FeatureError{Class: w.obj.EClass().Name(), Feature: name, Err: ecore.ErrUnknownFeature}
	}
	return f, nil
}

func (w *EObjectWrapper) list(name string) (*ecore.List, error) {
	f, err := w.feature(name)
	if err != nil {
		return nil, err
	}
	if !f.IsMany() {
		return nil, errors.Wrapf(&ecore.FeatureError{Class: w.obj.EClass().Name(), Feature: name, Err: ecore.ErrNotMany}, "use Set instead of Add")
	}
	return ecore.ValueList(w.obj, f)
}

// Set sets the value of a feature. Wrappers are replaced by the
// wrapped objects. For many-valued features the value must be a slice
// or list replacing the actual content.
func (w *EObjectWrapper) Set(name string, value any) *EObjectWrapper {
	f, err := w.feature(name)
	if err == nil {
		value, err = unwrap(value)
	}
	if err == nil && f.IsMany() {
		if s, ok := ecore.ToSlice(value); ok {
			value, err = unwrapAll(s)
		}
	}
	if err == nil {
		err = w.obj.ESet(f, value)
	}
	w.fail(err)
	return w
}

// Unset resets a feature to its default.
func (w *EObjectWrapper) Unset(name string) *EObjectWrapper {
	f, err := w.feature(name)
	if err == nil {
		err = w.obj.EUnset(f)
	}
	w.fail(err)
	return w
}

// IsSet checks whether a feature is set.
func (w *EObjectWrapper) IsSet(name string) bool {
	f, err := w.feature(name)
	if err != nil {
		return false
	}
	return w.obj.EIsSet(f)
}

// Add appends values to a many-valued feature.
func (w *EObjectWrapper) Add(name string, values ...any) *EObjectWrapper {
	l, err := w.list(name)
	if err == nil {
		values, err = unwrapAll(values)
	}
	if err == nil {
		err = l.AddAll(values...)
	}
	w.fail(err)
	return w
}

// Remove removes values from a many-valued feature. Values not
// contained in the list are ignored.
func (w *EObjectWrapper) Remove(name string, values ...any) *EObjectWrapper {
	l, err := w.list(name)
	if err == nil {
		values, err = unwrapAll(values)
	}
	if err == nil {
		for _, v := range values {
			l.Remove(v)
		}
	}
	w.fail(err)
	return w
}

// RemoveAt removes the i-th element of a many-valued feature.
func (w *EObjectWrapper) RemoveAt(name string, i int) *EObjectWrapper {
	l, err := w.list(name)
	if err == nil {
		_, err = l.RemoveAt(i)
	}
	w.fail(err)
	return w
}

// EFeature provides the feature with the given name.
func (w *EObjectWrapper) EFeature(name string) *EFeatureWrapper {
	f, err := w.feature(name)
	return &EFeatureWrapper{wrapper: wrapper[ecore.StructuralFeature]{obj: f, err: err}, container: w}
}

// Property provides the value of a feature. Unset references and
// attributes without default are provided as Null.
func (w *EObjectWrapper) Property(name string) Value {
	f, err := w.feature(name)
	if err != nil {
		return valueError(err)
	}
	return wrapValue(f, w.obj.EGet(f))
}

// Container provides the containing object or Null.
func (w *EObjectWrapper) Container() Value {
	if w.err != nil {
		return valueError(w.err)
	}
	if isNil(w.obj) || w.obj.EContainer() == nil {
		return Null
	}
	return Obj(w.obj.EContainer())
}

// Resource provides the resource containing the object.
func (w *EObjectWrapper) Resource() *ResourceWrapper {
	if w.err != nil {
		return resourceError(w.err)
	}
	if isNil(w.obj) {
		return resourceError(ErrNotLoaded)
	}
	r := w.obj.EResource()
	if r == nil {
		return resourceError(fmt.Errorf("%w: %s is not contained in a resource", ecore.ErrNotFound, w.obj))
	}
	return Resource(r)
}
