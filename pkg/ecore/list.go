package ecore

import (
	"fmt"
	"slices"
)

// List is the value of a many-valued feature, or the root content of
// a resource. Adding and removing objects maintains containment and
// opposite references.
type List struct {
	owner    Object
	feature  StructuralFeature
	resource *Resource
	data     []any
}

func newContentList(r *Resource) *List {
	return &List{resource: r}
}

// Owner provides the object holding the list, or nil for
// resource contents.
func (l *List) Owner() Object {
	return l.owner
}

func (l *List) Feature() StructuralFeature {
	return l.feature
}

func (l *List) Len() int {
	return len(l.data)
}

func (l *List) IsEmpty() bool {
	return len(l.data) == 0
}

// Get provides the i-th element, resolving proxies if required by
// the feature. It returns nil for invalid indices.
func (l *List) Get(i int) any {
	if i < 0 || i >= len(l.data) {
		return nil
	}
	v := l.data[i]
	if l.feature != nil && l.owner != nil {
		if r, ok := l.owner.base().resolveValue(l.feature, v); ok {
			l.data[i] = r
			return r
		}
	}
	return v
}

// Values provides a copy of the list content.
func (l *List) Values() []any {
	r := make([]any, len(l.data))
	for i := range l.data {
		r[i] = l.Get(i)
	}
	return r
}

// Objects provides the model objects contained in the list.
func (l *List) Objects() []Object {
	var r []Object
	for i := range l.data {
		if o, ok := l.Get(i).(Object); ok {
			r = append(r, o)
		}
	}
	return r
}

func (l *List) IndexOf(v any) int {
	if w, ok := v.(interface{ Unwrap() any }); ok {
		v = w.Unwrap()
	}
	for i := range l.data {
		if equalValues(l.Get(i), v) {
			return i
		}
	}
	return -1
}

func (l *List) Contains(v any) bool {
	return l.IndexOf(v) >= 0
}

// Add appends a value. For unique lists an already contained value
// is ignored and false is returned.
func (l *List) Add(v any) (bool, error) {
	return l.Insert(len(l.data), v)
}

func (l *List) AddAll(values ...any) error {
	for _, v := range values {
		if _, err := l.Add(v); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) Insert(i int, v any) (bool, error) {
	if i < 0 || i > len(l.data) {
		return false, l.error(fmt.Errorf("%w: %d", ErrIndex, i))
	}
	v, err := l.check(v)
	if err != nil {
		return false, l.error(err)
	}
	if l.isUnique() && l.indexOfRaw(v) >= 0 {
		return false, nil
	}
	if l.feature != nil {
		if ub := l.feature.UpperBound(); ub > 0 && len(l.data) >= ub {
			return false, l.error(fmt.Errorf("%w: %d", ErrBoundsViolation, ub))
		}
	}
	if err := l.inverseInsert(v); err != nil {
		return false, l.error(err)
	}
	l.data = slices.Insert(l.data, i, v)
	return true, nil
}

// Set replaces the i-th element and provides the old one.
func (l *List) Set(i int, v any) (any, error) {
	if i < 0 || i >= len(l.data) {
		return nil, l.error(fmt.Errorf("%w: %d", ErrIndex, i))
	}
	v, err := l.check(v)
	if err != nil {
		return nil, l.error(err)
	}
	old := l.data[i]
	if equalValues(old, v) {
		return old, nil
	}
	if l.isUnique() && l.indexOfRaw(v) >= 0 {
		return nil, l.error(fmt.Errorf("%w: element already contained", ErrInvalidValue))
	}
	l.inverseRemove(old)
	if err := l.inverseInsert(v); err != nil {
		l.inverseInsert(old)
		return nil, l.error(err)
	}
	l.data[i] = v
	return old, nil
}

// Remove removes the first occurrence of a value.
func (l *List) Remove(v any) bool {
	i := l.IndexOf(v)
	if i < 0 {
		return false
	}
	_, err := l.RemoveAt(i)
	return err == nil
}

func (l *List) RemoveAt(i int) (any, error) {
	if i < 0 || i >= len(l.data) {
		return nil, l.error(fmt.Errorf("%w: %d", ErrIndex, i))
	}
	v := l.data[i]
	l.data = slices.Delete(l.data, i, i+1)
	l.inverseRemove(v)
	return v, nil
}

// Move moves the element at index from to index to.
func (l *List) Move(from, to int) error {
	if from < 0 || from >= len(l.data) {
		return l.error(fmt.Errorf("%w: %d", ErrIndex, from))
	}
	if to < 0 || to >= len(l.data) {
		return l.error(fmt.Errorf("%w: %d", ErrIndex, to))
	}
	v := l.data[from]
	l.data = slices.Delete(l.data, from, from+1)
	l.data = slices.Insert(l.data, to, v)
	return nil
}

func (l *List) Clear() {
	for len(l.data) > 0 {
		l.RemoveAt(len(l.data) - 1)
	}
}

////////////////////////////////////////////////////////////////////////////////

func (l *List) error(err error) error {
	if l.feature == nil {
		return fmt.Errorf("resource contents: %w", err)
	}
	return featureError(l.owner, l.feature.Name(), err)
}

func (l *List) isUnique() bool {
	switch f := l.feature.(type) {
	case nil:
		return true
	case *Reference:
		return f.IsContainment() || f.IsUnique()
	default:
		return f.IsUnique()
	}
}

func (l *List) check(v any) (any, error) {
	if w, ok := v.(interface{ Unwrap() any }); ok {
		v = w.Unwrap()
	}
	if isNil(v) {
		return nil, fmt.Errorf("%w: nil element", ErrInvalidValue)
	}
	switch f := l.feature.(type) {
	case nil:
		o, ok := v.(Object)
		if !ok {
			return nil, fmt.Errorf("%w: %T is no model object", ErrInvalidValue, v)
		}
		return o, nil
	case *Attribute:
		return checkAttributeValue(f, v)
	case *Reference:
		return checkReferenceValue(f, v)
	}
	return v, nil
}

func (l *List) inverseInsert(v any) error {
	if l.resource != nil {
		o := v.(Object)
		o.base().detach()
		o.base().resource = l.resource
		return nil
	}
	r, ok := l.feature.(*Reference)
	if !ok {
		return nil
	}
	o := v.(Object)
	if r.IsContainment() {
		if isAncestor(o, l.owner) {
			return fmt.Errorf("%w: containment cycle", ErrInvalidValue)
		}
		o.base().detach()
		o.base().setContainer(l.owner, r)
		return nil
	}
	if op := r.EOpposite(); op != nil {
		o.base().inverseAdd(op, l.owner)
	}
	return nil
}

func (l *List) inverseRemove(v any) {
	if l.resource != nil {
		if o := v.(Object); o.base().resource == l.resource {
			o.base().resource = nil
		}
		return
	}
	r, ok := l.feature.(*Reference)
	if !ok {
		return
	}
	o := v.(Object)
	if r.IsContainment() {
		if o.EContainer() == l.owner {
			o.base().clearContainer()
		}
		return
	}
	if op := r.EOpposite(); op != nil {
		o.base().inverseRemove(op, l.owner)
	}
}

func (l *List) indexOfRaw(v any) int {
	for i, e := range l.data {
		if equalValues(e, v) {
			return i
		}
	}
	return -1
}

func (l *List) appendRaw(v any) {
	l.data = append(l.data, v)
}

func (l *List) removeRaw(v any) {
	if i := l.indexOfRaw(v); i >= 0 {
		l.data = slices.Delete(l.data, i, i+1)
	}
}
