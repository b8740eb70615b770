package dynemf

import (
	"fmt"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

// Value is the interface of all wrappers returned for feature values.
type Value interface {
	Wrapper

	IsList() bool
	IsLiteral() bool
	IsEObject() bool
	IsNull() bool

	AsList() *ListWrapper
	AsLiteral() *EEnumLiteralWrapper
	AsEObject() *EObjectWrapper
}

type valueWrapper[T any] struct {
	wrapper[T]
}

func (v *valueWrapper[T]) IsList() bool {
	_, ok := any(v.obj).(*ecore.List)
	return ok
}

func (v *valueWrapper[T]) IsLiteral() bool {
	_, ok := any(v.obj).(*ecore.EnumLiteral)
	return ok
}

func (v *valueWrapper[T]) IsEObject() bool {
	o, ok := any(v.obj).(ecore.Object)
	return ok && !isNil(o)
}

func (v *valueWrapper[T]) IsNull() bool {
	return v.err == nil && isNil(v.obj)
}

func (v *valueWrapper[T]) AsList() *ListWrapper {
	if v.err != nil {
		return &ListWrapper{errorValue[*ecore.List](v.err)}
	}
	l, ok := any(v.obj).(*ecore.List)
	if !ok {
		return &ListWrapper{errorValue[*ecore.List](typeError(v.obj, "list"))}
	}
	return newListWrapper(l)
}

func (v *valueWrapper[T]) AsLiteral() *EEnumLiteralWrapper {
	if v.err != nil {
		return &EEnumLiteralWrapper{errorValue[*ecore.EnumLiteral](v.err)}
	}
	l, ok := any(v.obj).(*ecore.EnumLiteral)
	if !ok {
		return &EEnumLiteralWrapper{errorValue[*ecore.EnumLiteral](typeError(v.obj, "enum literal"))}
	}
	return &EEnumLiteralWrapper{valueWrapper[*ecore.EnumLiteral]{wrapper[*ecore.EnumLiteral]{obj: l}}}
}

func (v *valueWrapper[T]) AsEObject() *EObjectWrapper {
	if v.err != nil {
		return objError(v.err)
	}
	o, ok := any(v.obj).(ecore.Object)
	if !ok || isNil(o) {
		return objError(typeError(v.obj, "model object"))
	}
	return Obj(o)
}

func errorValue[T any](err error) valueWrapper[T] {
	return valueWrapper[T]{wrapper[T]{err: err}}
}

func typeError(v any, expected string) error {
	return fmt.Errorf("%w: %T is no %s", ErrType, v, expected)
}

////////////////////////////////////////////////////////////////////////////////

// ValueWrapper wraps plain data values.
type ValueWrapper struct {
	valueWrapper[any]
}

var _ Value = (*ValueWrapper)(nil)

// Wrap provides the matching wrapper for a value.
func Wrap(v any) Value {
	return wrapValue(nil, v)
}

func wrapValue(f ecore.StructuralFeature, v any) Value {
	if isNil(v) {
		return Null
	}
	switch e := v.(type) {
	case Value:
		return e
	case *ecore.EnumLiteral:
		if _, ok := f.(*ecore.Reference); !ok {
			return &EEnumLiteralWrapper{valueWrapper[*ecore.EnumLiteral]{wrapper[*ecore.EnumLiteral]{obj: e}}}
		}
		return Obj(e)
	case ecore.Object:
		return Obj(e)
	case *ecore.List:
		return newListWrapper(e)
	}
	return &ValueWrapper{valueWrapper[any]{wrapper[any]{obj: v}}}
}

func valueError(err error) *ValueWrapper {
	return &ValueWrapper{errorValue[any](err)}
}

////////////////////////////////////////////////////////////////////////////////

// NullValueWrapper represents the absence of a value.
type NullValueWrapper struct {
	valueWrapper[any]
}

var _ Value = (*NullValueWrapper)(nil)

// Null is the wrapper for unset or nil values.
var Null = &NullValueWrapper{}

func (n *NullValueWrapper) String() string {
	return "null"
}

////////////////////////////////////////////////////////////////////////////////

// EEnumLiteralWrapper wraps an enum literal.
type EEnumLiteralWrapper struct {
	valueWrapper[*ecore.EnumLiteral]
}

var _ Value = (*EEnumLiteralWrapper)(nil)

func (l *EEnumLiteralWrapper) AsLiteral() *EEnumLiteralWrapper {
	return l
}

func (l *EEnumLiteralWrapper) Name() string {
	if l.obj == nil {
		return ""
	}
	return l.obj.Name()
}

func (l *EEnumLiteralWrapper) Literal() string {
	if l.obj == nil {
		return ""
	}
	return l.obj.Literal()
}

func (l *EEnumLiteralWrapper) Value() int {
	if l.obj == nil {
		return 0
	}
	return l.obj.Value()
}

////////////////////////////////////////////////////////////////////////////////

// ListWrapper wraps the value of a many-valued feature.
type ListWrapper struct {
	valueWrapper[*ecore.List]
}

var _ Value = (*ListWrapper)(nil)

func newListWrapper(l *ecore.List) *ListWrapper {
	return &ListWrapper{valueWrapper[*ecore.List]{wrapper[*ecore.List]{obj: l}}}
}

func (l *ListWrapper) AsList() *ListWrapper {
	return l
}

func (l *ListWrapper) Len() int {
	if l.obj == nil {
		return 0
	}
	return l.obj.Len()
}

func (l *ListWrapper) IsEmpty() bool {
	return l.Len() == 0
}

// At provides the i-th element as object wrapper.
func (l *ListWrapper) At(i int) *EObjectWrapper {
	return l.Value(i).AsEObject()
}

// Value provides the i-th element.
func (l *ListWrapper) Value(i int) Value {
	if l.err != nil {
		return valueError(l.err)
	}
	if i < 0 || i >= l.Len() {
		return valueError(fmt.Errorf("%w: %d", ecore.ErrIndex, i))
	}
	return wrapValue(l.obj.Feature(), l.obj.Get(i))
}

// Includes checks whether the list contains a value or the object of
// an object wrapper.
func (l *ListWrapper) Includes(v any) bool {
	if l.obj == nil {
		return false
	}
	v, err := unwrap(v)
	if err != nil {
		return false
	}
	return l.obj.Contains(v)
}

// All provides wrappers for all model objects in the list.
func (l *ListWrapper) All() []*EObjectWrapper {
	var result []*EObjectWrapper
	if l.obj == nil {
		return result
	}
	for _, o := range l.obj.Objects() {
		result = append(result, Obj(o))
	}
	return result
}

// Values provides wrappers for all elements.
func (l *ListWrapper) Values() []Value {
	var result []Value
	for i := 0; i < l.Len(); i++ {
		result = append(result, l.Value(i))
	}
	return result
}
