package ecore

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/modern-go/reflect2"
)

// Object is an instance of a Class. All feature values are accessed
// reflectively by the feature descriptors of the class.
type Object interface {
	// EClass provides the metaclass of the object.
	EClass() *Class

	// EGet provides the value of a feature. Many-valued features always
	// provide a (possibly empty) *List. Unset single-valued features
	// provide the default value of the feature.
	EGet(f StructuralFeature) any
	// ESet sets the value of a feature. For many-valued features the given
	// value must be a slice or *List, which replaces the actual content.
	ESet(f StructuralFeature, v any) error
	// EUnset resets a feature to its default.
	EUnset(f StructuralFeature) error
	// EIsSet reports whether a feature holds a non-default value.
	EIsSet(f StructuralFeature) bool

	EContainer() Object
	EContainingFeature() StructuralFeature
	EResource() *Resource
	EContents() []Object
	EAllContents() []Object

	EIsProxy() bool
	EProxyURI() URI
	ESetProxyURI(u URI)

	base() *BaseObject
}

// BaseObject implements the generic feature storage of an Object.
// Go types representing model objects embed BaseObject and call Init
// on creation.
type BaseObject struct {
	self              Object
	class             *Class
	values            map[StructuralFeature]any
	container         Object
	containingFeature StructuralFeature
	resource          *Resource
	proxy             URI
}

var _ Object = (*BaseObject)(nil)

// Init initializes the storage. self is the outer object embedding
// the BaseObject.
func (b *BaseObject) Init(self Object, c *Class) {
	b.self = self
	b.class = c
	b.values = map[StructuralFeature]any{}
}

func (b *BaseObject) base() *BaseObject {
	return b
}

func (b *BaseObject) EClass() *Class {
	return b.class
}

func (b *BaseObject) EGet(f StructuralFeature) any {
	if isNil(f) {
		return nil
	}
	if r, ok := f.(*Reference); ok && r.IsContainer() {
		if b.container != nil && b.containingFeature == StructuralFeature(r.EOpposite()) {
			return b.container
		}
		return nil
	}
	if f.IsMany() {
		return b.list(f)
	}
	v, ok := b.values[f]
	if !ok {
		return f.DefaultValue()
	}
	if r, ok := b.resolveValue(f, v); ok {
		b.values[f] = r
		return r
	}
	return v
}

func (b *BaseObject) ESet(f StructuralFeature, v any) error {
	if err := b.checkFeature(f); err != nil {
		return err
	}
	if !f.IsChangeable() {
		return featureError(b.self, f.Name(), ErrUnchangeable)
	}
	return b.set(f, v)
}

func (b *BaseObject) EUnset(f StructuralFeature) error {
	if err := b.checkFeature(f); err != nil {
		return err
	}
	if f.IsMany() {
		b.list(f).Clear()
		return nil
	}
	if r, ok := f.(*Reference); ok {
		return b.setReference(r, nil)
	}
	delete(b.values, f)
	return nil
}

func (b *BaseObject) EIsSet(f StructuralFeature) bool {
	if isNil(f) {
		return false
	}
	if r, ok := f.(*Reference); ok && r.IsContainer() {
		return b.EGet(r) != nil
	}
	if f.IsMany() {
		l, ok := b.values[f].(*List)
		return ok && l.Len() > 0
	}
	v, ok := b.values[f]
	if !ok {
		return false
	}
	if _, ok := f.(*Reference); ok {
		return v != nil
	}
	return !equalValues(v, f.DefaultValue())
}

func (b *BaseObject) EContainer() Object {
	return b.container
}

func (b *BaseObject) EContainingFeature() StructuralFeature {
	return b.containingFeature
}

// EResource provides the resource the object is (directly or indirectly)
// contained in.
func (b *BaseObject) EResource() *Resource {
	o := b
	for o.container != nil {
		o = o.container.base()
	}
	return o.resource
}

func (b *BaseObject) EContents() []Object {
	var result []Object
	if b.class == nil {
		return nil
	}
	for _, f := range b.class.AllStructuralFeatures() {
		r, ok := f.(*Reference)
		if !ok || !r.IsContainment() {
			continue
		}
		v, ok := b.values[r]
		if !ok {
			continue
		}
		if l, ok := v.(*List); ok {
			result = append(result, l.Objects()...)
		} else if o, ok := v.(Object); ok && o != nil {
			result = append(result, o)
		}
	}
	return result
}

func (b *BaseObject) EAllContents() []Object {
	var result []Object
	for _, c := range b.EContents() {
		result = append(result, c)
		result = append(result, c.EAllContents()...)
	}
	return result
}

func (b *BaseObject) EIsProxy() bool {
	return b.proxy != ""
}

func (b *BaseObject) EProxyURI() URI {
	return b.proxy
}

func (b *BaseObject) ESetProxyURI(u URI) {
	b.proxy = u
}

func (b *BaseObject) String() string {
	if b.class == nil {
		return fmt.Sprintf("<object %p>", b.self)
	}
	if b.proxy != "" {
		return fmt.Sprintf("%s(proxy %s)", b.class.Name(), b.proxy)
	}
	if f, ok := b.class.StructuralFeature("name").(*Attribute); ok && f != nil {
		if n, ok := b.values[f].(string); ok {
			return fmt.Sprintf("%s(%s)", b.class.Name(), n)
		}
	}
	return fmt.Sprintf("%s@%p", b.class.Name(), b.self)
}

////////////////////////////////////////////////////////////////////////////////

func (b *BaseObject) checkFeature(f StructuralFeature) error {
	if isNil(f) {
		return featureError(b.self, "<nil>", ErrUnknownFeature)
	}
	if b.class != nil && !b.class.hasFeature(f) {
		return featureError(b.self, f.Name(), ErrUnknownFeature)
	}
	return nil
}

func (b *BaseObject) set(f StructuralFeature, v any) error {
	if f.IsMany() {
		elems, ok := ToSlice(v)
		if !ok {
			return featureError(b.self, f.Name(), ErrMany)
		}
		l := b.list(f)
		if l == v {
			return nil
		}
		for _, e := range elems {
			if _, err := l.check(e); err != nil {
				return l.error(err)
			}
		}
		old := slices.Clone(l.data)
		l.Clear()
		for _, e := range elems {
			if _, err := l.Add(e); err != nil {
				l.Clear()
				l.AddAll(old...)
				return err
			}
		}
		return nil
	}
	switch e := f.(type) {
	case *Reference:
		return b.setReference(e, v)
	case *Attribute:
		n, err := checkAttributeValue(e, v)
		if err != nil {
			return featureError(b.self, f.Name(), err)
		}
		if n == nil {
			delete(b.values, f)
		} else {
			b.values[f] = n
		}
	}
	return nil
}

func (b *BaseObject) setReference(r *Reference, v any) error {
	var o Object
	if !isNil(v) {
		var err error
		if o, err = checkReferenceValue(r, v); err != nil {
			return featureError(b.self, r.Name(), err)
		}
	}

	if r.IsContainer() {
		op := r.EOpposite()
		if o == nil {
			if b.container != nil && b.containingFeature == StructuralFeature(op) {
				b.detach()
			}
			return nil
		}
		if b.container == o && b.containingFeature == StructuralFeature(op) {
			return nil
		}
		return o.base().contain(op, b.self)
	}

	old, _ := b.values[r].(Object)
	if old == o {
		return nil
	}
	if r.IsContainment() {
		if o != nil && isAncestor(o, b.self) {
			return featureError(b.self, r.Name(), fmt.Errorf("%w: containment cycle", ErrInvalidValue))
		}
		if old != nil {
			old.base().clearContainer()
		}
		if o != nil {
			o.base().detach()
			o.base().setContainer(b.self, r)
		}
	} else if op := r.EOpposite(); op != nil {
		if old != nil {
			old.base().inverseRemove(op, b.self)
		}
		if o != nil {
			o.base().inverseAdd(op, b.self)
		}
	}
	if o == nil {
		delete(b.values, r)
	} else {
		b.values[r] = o
	}
	return nil
}

// contain adds child to the containment feature r of this object.
func (b *BaseObject) contain(r *Reference, child Object) error {
	if r.IsMany() {
		_, err := b.list(r).Add(child)
		return err
	}
	return b.setReference(r, child)
}

func (b *BaseObject) setContainer(c Object, f StructuralFeature) {
	b.container = c
	b.containingFeature = f
}

func (b *BaseObject) clearContainer() {
	b.container = nil
	b.containingFeature = nil
}

// detach removes the object from its actual container or
// from the root list of its resource.
func (b *BaseObject) detach() {
	if c := b.container; c != nil {
		cb := c.base()
		f := b.containingFeature
		if f.IsMany() {
			cb.list(f).removeRaw(b.self)
		} else if cb.values[f] == b.self {
			delete(cb.values, f)
		}
		b.clearContainer()
	}
	if r := b.resource; r != nil {
		r.contents.removeRaw(b.self)
		b.resource = nil
	}
}

// inverseAdd maintains the opposite end op of a bidirectional reference.
func (b *BaseObject) inverseAdd(op *Reference, target Object) {
	if op.IsMany() {
		l := b.list(op)
		if l.indexOfRaw(target) < 0 {
			l.appendRaw(target)
		}
		return
	}
	if prev, ok := b.values[op].(Object); ok && prev != target {
		if rop := op.EOpposite(); rop != nil {
			prev.base().inverseRemove(rop, b.self)
		}
	}
	b.values[op] = target
}

func (b *BaseObject) inverseRemove(op *Reference, target Object) {
	if op.IsMany() {
		if l, ok := b.values[op].(*List); ok {
			l.removeRaw(target)
		}
		return
	}
	if b.values[op] == target {
		delete(b.values, op)
	}
}

func (b *BaseObject) list(f StructuralFeature) *List {
	if l, ok := b.values[f].(*List); ok {
		return l
	}
	l := &List{owner: b.self, feature: f}
	b.values[f] = l
	return l
}

// resolveValue resolves a proxy value of a reference. It reports
// whether the value has been replaced.
func (b *BaseObject) resolveValue(f StructuralFeature, v any) (any, bool) {
	r, ok := f.(*Reference)
	if !ok || r.IsContainment() || !r.ResolveProxies() {
		return v, false
	}
	o, ok := v.(Object)
	if !ok || isNil(o) || !o.EIsProxy() {
		return v, false
	}
	t := b.resolveProxy(o)
	return t, t != o
}

func (b *BaseObject) resolveProxy(p Object) Object {
	var set *ResourceSet
	if r := b.EResource(); r != nil {
		set = r.ResourceSet()
	}
	t, err := ResolveURI(set, p.EProxyURI(), true)
	if err != nil {
		log.Debug("cannot resolve proxy {{uri}}", "uri", p.EProxyURI(), "error", err)
		return p
	}
	return t
}

// raw access used by the metamodel accessors. It bypasses the default
// value and many handling to be usable during bootstrap.

func (b *BaseObject) put(f StructuralFeature, v any) {
	b.values[f] = v
}

func (b *BaseObject) rawString(f StructuralFeature) string {
	s, _ := b.values[f].(string)
	return s
}

func (b *BaseObject) rawBool(f StructuralFeature, def bool) bool {
	if v, ok := b.values[f].(bool); ok {
		return v
	}
	return def
}

func (b *BaseObject) rawInt(f StructuralFeature, def int) int {
	if v, ok := b.values[f].(int); ok {
		return v
	}
	return def
}

func (b *BaseObject) rawObject(f StructuralFeature) Object {
	v, ok := b.values[f]
	if !ok || v == nil {
		return nil
	}
	if r, ok := b.resolveValue(f, v); ok {
		b.values[f] = r
		v = r
	}
	o, _ := v.(Object)
	return o
}

// containRaw appends a contained object without any checks.
func (b *BaseObject) containRaw(f StructuralFeature, child Object) {
	if f.IsMany() {
		b.list(f).appendRaw(child)
	} else {
		b.values[f] = child
	}
	child.base().setContainer(b.self, f)
}

////////////////////////////////////////////////////////////////////////////////

// DynamicObject is the generic object type used for instances of
// classes without a dedicated Go type.
type DynamicObject struct {
	BaseObject
}

func NewDynamicObject(c *Class) *DynamicObject {
	o := &DynamicObject{}
	o.Init(o, c)
	return o
}

////////////////////////////////////////////////////////////////////////////////

func isAncestor(candidate Object, o Object) bool {
	for o != nil {
		if o == candidate {
			return true
		}
		o = o.EContainer()
	}
	return false
}

func isNil(v any) bool {
	return v == nil || reflect2.IsNil(v)
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
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

// ValueList provides the value list of a many-valued feature.
func ValueList(o Object, f StructuralFeature) (*List, error) {
	if l, ok := o.EGet(f).(*List); ok {
		return l, nil
	}
	name := ""
	if !isNil(f) {
		name = f.Name()
	}
	return nil, featureError(o, name, ErrNotMany)
}

// AddValue adds a value to a many-valued feature or sets a single
// valued one.
func AddValue(o Object, f StructuralFeature, v any) error {
	if !f.IsMany() {
		return o.ESet(f, v)
	}
	l, err := ValueList(o, f)
	if err != nil {
		return err
	}
	_, err = l.Add(v)
	return err
}

// ToSlice converts slice-like values (slices, arrays and *List) into
// a []any.
func ToSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, true
	case []any:
		return s, true
	case []Object:
		r := make([]any, len(s))
		for i, e := range s {
			r[i] = e
		}
		return r, true
	case *List:
		return s.Values(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	r := make([]any, rv.Len())
	for i := range r {
		r[i] = rv.Index(i).Interface()
	}
	return r, true
}

func checkAttributeValue(a *Attribute, v any) (any, error) {
	if isNil(v) {
		return nil, nil
	}
	switch t := a.EType().(type) {
	case *Enum:
		return t.literalFor(v)
	case *DataType:
		return t.Coerce(v)
	}
	return v, nil
}

func checkReferenceValue(r *Reference, v any) (Object, error) {
	o, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: %T is no model object", ErrInvalidValue, v)
	}
	if o.EIsProxy() {
		return o, nil
	}
	if t := r.EReferenceType(); t != nil && !t.IsSuperTypeOf(o.EClass()) {
		return nil, fmt.Errorf("%w: %s is not compatible with %s", ErrInvalidValue, className(o.EClass()), t.Name())
	}
	return o, nil
}

func className(c *Class) string {
	if c == nil {
		return "<none>"
	}
	return c.Name()
}
