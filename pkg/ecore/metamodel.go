package ecore

import (
	"k8s.io/apimachinery/pkg/util/sets"
)

// Unbounded is the upper bound of features with an unlimited number
// of values.
const Unbounded = -1

// The metaclasses and features of the Ecore package. They are set up
// by the bootstrap of the Ecore package.
var (
	metaObject,
	metaModelElement,
	metaAnnotation,
	metaStringEntry,
	metaNamedElement,
	metaPackage,
	metaClassifier,
	metaClass,
	metaDataType,
	metaEnum,
	metaEnumLiteral,
	metaTypedElement,
	metaStructuralFeature,
	metaAttribute,
	metaReference *Class

	featAnnotations,
	featDetails,
	featAnnotationModelElement *Reference
	featSource,
	featKey,
	featEntryValue *Attribute

	featName *Attribute

	featNsURI,
	featNsPrefix *Attribute
	featClassifiers,
	featClassifierPackage,
	featSubpackages,
	featSuperPackage *Reference

	featInstanceClassName *Attribute

	featAbstract,
	featInterface *Attribute
	featSuperTypes,
	featStructuralFeatures,
	featContainingClass *Reference

	featLiterals,
	featLiteralEnum *Reference
	featValue,
	featLiteral *Attribute

	featOrdered,
	featUnique,
	featLowerBound,
	featUpperBound *Attribute
	featType *Reference

	featChangeable,
	featTransient,
	featVolatile,
	featUnsettable,
	featDerived,
	featDefaultValueLiteral *Attribute

	featSerializable *Attribute

	featID *Attribute

	featContainment,
	featResolveProxies *Attribute
	featOpposite *Reference
)

////////////////////////////////////////////////////////////////////////////////

type modelElement struct {
	BaseObject
}

// EAnnotations provides the annotations of a metamodel element.
func (e *modelElement) EAnnotations() []*Annotation {
	var r []*Annotation
	for _, o := range e.list(featAnnotations).Objects() {
		if a, ok := o.(*Annotation); ok {
			r = append(r, a)
		}
	}
	return r
}

// Annotation provides the annotation for the given source, or nil.
func (e *modelElement) Annotation(source string) *Annotation {
	for _, a := range e.EAnnotations() {
		if a.Source() == source {
			return a
		}
	}
	return nil
}

// Annotate sets a detail entry of the annotation with the given source.
// The annotation is created if required.
func (e *modelElement) Annotate(source, key, value string) {
	a := e.Annotation(source)
	if a == nil {
		a = newAnnotation()
		a.put(featSource, source)
		e.containRaw(featAnnotations, a)
	}
	a.SetDetail(key, value)
}

////////////////////////////////////////////////////////////////////////////////

// Annotation is a named set of string details attached to a metamodel
// element.
type Annotation struct {
	modelElement
}

func newAnnotation() *Annotation {
	a := &Annotation{}
	a.Init(a, metaAnnotation)
	return a
}

func (a *Annotation) Source() string {
	return a.rawString(featSource)
}

func (a *Annotation) Details() map[string]string {
	r := map[string]string{}
	for _, o := range a.list(featDetails).Objects() {
		if e, ok := o.(*StringEntry); ok {
			r[e.Key()] = e.Value()
		}
	}
	return r
}

func (a *Annotation) SetDetail(key, value string) {
	for _, o := range a.list(featDetails).Objects() {
		if e, ok := o.(*StringEntry); ok && e.Key() == key {
			e.put(featEntryValue, value)
			return
		}
	}
	e := newStringEntry()
	e.put(featKey, key)
	e.put(featEntryValue, value)
	a.containRaw(featDetails, e)
}

// StringEntry is a key/value pair of an annotation.
type StringEntry struct {
	BaseObject
}

func newStringEntry() *StringEntry {
	e := &StringEntry{}
	e.Init(e, metaStringEntry)
	return e
}

func (e *StringEntry) Key() string {
	return e.rawString(featKey)
}

func (e *StringEntry) Value() string {
	return e.rawString(featEntryValue)
}

////////////////////////////////////////////////////////////////////////////////

type namedElement struct {
	modelElement
}

func (e *namedElement) Name() string {
	return e.rawString(featName)
}

func (e *namedElement) SetName(name string) {
	e.put(featName, name)
}

func (e *namedElement) String() string {
	return e.Name()
}

////////////////////////////////////////////////////////////////////////////////

// Package is a named container of classifiers identified by its
// namespace URI.
type Package struct {
	namedElement
	factory *Factory
}

func newPackage() *Package {
	p := &Package{}
	p.Init(p, metaPackage)
	return p
}

// NewPackage creates a new empty package.
func NewPackage(name, nsURI, nsPrefix string) *Package {
	p := newPackage()
	p.put(featName, name)
	p.put(featNsURI, nsURI)
	p.put(featNsPrefix, nsPrefix)
	return p
}

func (p *Package) NsURI() string {
	return p.rawString(featNsURI)
}

func (p *Package) SetNsURI(uri string) {
	p.put(featNsURI, uri)
}

func (p *Package) NsPrefix() string {
	return p.rawString(featNsPrefix)
}

func (p *Package) SetNsPrefix(prefix string) {
	p.put(featNsPrefix, prefix)
}

func (p *Package) EClassifiers() []Classifier {
	var r []Classifier
	for _, o := range p.list(featClassifiers).Objects() {
		if c, ok := o.(Classifier); ok {
			r = append(r, c)
		}
	}
	return r
}

// Classifier provides the classifier with the given name, or nil.
func (p *Package) Classifier(name string) Classifier {
	for _, c := range p.EClassifiers() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Class provides the class with the given name, or nil.
func (p *Package) Class(name string) *Class {
	c, _ := p.Classifier(name).(*Class)
	return c
}

func (p *Package) Classes() []*Class {
	var r []*Class
	for _, c := range p.EClassifiers() {
		if e, ok := c.(*Class); ok {
			r = append(r, e)
		}
	}
	return r
}

func (p *Package) ESubpackages() []*Package {
	var r []*Package
	for _, o := range p.list(featSubpackages).Objects() {
		if s, ok := o.(*Package); ok {
			r = append(r, s)
		}
	}
	return r
}

func (p *Package) ESuperPackage() *Package {
	if s, ok := p.container.(*Package); ok && p.containingFeature == StructuralFeature(featSubpackages) {
		return s
	}
	return nil
}

// AllPackages provides the package and all nested packages.
func (p *Package) AllPackages() []*Package {
	r := []*Package{p}
	for _, s := range p.ESubpackages() {
		r = append(r, s.AllPackages()...)
	}
	return r
}

// Factory provides the object factory for the classes of the package.
func (p *Package) Factory() *Factory {
	if p.factory == nil {
		p.factory = &Factory{pkg: p}
	}
	return p.factory
}

func (p *Package) AddSubpackage(s *Package) *Package {
	s.detach()
	p.containRaw(featSubpackages, s)
	return p
}

// AddClassifier adds a classifier created outside of the package.
func (p *Package) AddClassifier(c Classifier) *Package {
	c.base().detach()
	p.containRaw(featClassifiers, c)
	return p
}

// NewClass creates a new class in the package.
func (p *Package) NewClass(name string, supertypes ...*Class) *Class {
	c := newClass()
	c.put(featName, name)
	p.containRaw(featClassifiers, c)
	c.AddSuperTypes(supertypes...)
	return c
}

// NewDataType creates a new data type in the package. The Go
// representation is determined by the instance class name.
func (p *Package) NewDataType(name, instanceClassName string) *DataType {
	d := newDataType()
	d.put(featName, name)
	d.put(featInstanceClassName, instanceClassName)
	p.containRaw(featClassifiers, d)
	return d
}

func (p *Package) NewEnum(name string) *Enum {
	e := newEnum()
	e.put(featName, name)
	p.containRaw(featClassifiers, e)
	return e
}

////////////////////////////////////////////////////////////////////////////////

// Classifier is the common interface of classes, data types and enums.
type Classifier interface {
	Object
	Name() string
	EPackage() *Package
	InstanceClassName() string
	// IsInstance reports whether a value is a valid value of the classifier.
	IsInstance(v any) bool

	eclassifier() *classifier
}

type classifier struct {
	namedElement
}

func (c *classifier) eclassifier() *classifier {
	return c
}

func (c *classifier) EPackage() *Package {
	if p, ok := c.container.(*Package); ok && c.containingFeature == StructuralFeature(featClassifiers) {
		return p
	}
	return nil
}

func (c *classifier) InstanceClassName() string {
	return c.rawString(featInstanceClassName)
}

func (c *classifier) SetInstanceClassName(n string) {
	c.put(featInstanceClassName, n)
}

////////////////////////////////////////////////////////////////////////////////

// Class describes the structure of objects.
type Class struct {
	classifier
}

var _ Classifier = (*Class)(nil)

func newClass() *Class {
	c := &Class{}
	c.Init(c, metaClass)
	return c
}

func (c *Class) IsAbstract() bool {
	return c.rawBool(featAbstract, false)
}

func (c *Class) SetAbstract(b bool) *Class {
	c.put(featAbstract, b)
	return c
}

func (c *Class) IsInterface() bool {
	return c.rawBool(featInterface, false)
}

func (c *Class) SetInterface(b bool) *Class {
	c.put(featInterface, b)
	return c
}

func (c *Class) IsInstance(v any) bool {
	o, ok := v.(Object)
	return ok && !isNil(o) && c.IsSuperTypeOf(o.EClass())
}

func (c *Class) ESuperTypes() []*Class {
	var r []*Class
	for _, o := range c.list(featSuperTypes).Objects() {
		if s, ok := o.(*Class); ok {
			r = append(r, s)
		}
	}
	return r
}

func (c *Class) AddSuperTypes(supertypes ...*Class) *Class {
	l := c.list(featSuperTypes)
	for _, s := range supertypes {
		if s != nil && l.indexOfRaw(s) < 0 {
			l.appendRaw(s)
		}
	}
	return c
}

// AllSuperTypes provides all direct and indirect super types.
func (c *Class) AllSuperTypes() []*Class {
	var r []*Class
	c.superTypes(sets.New[*Class](c), &r)
	return r
}

func (c *Class) superTypes(visited sets.Set[*Class], r *[]*Class) {
	for _, s := range c.ESuperTypes() {
		if visited.Has(s) {
			continue
		}
		visited.Insert(s)
		s.superTypes(visited, r)
		*r = append(*r, s)
	}
}

// IsSuperTypeOf reports whether o is this class or one of its
// sub classes. The EObject class is a super type of all classes.
func (c *Class) IsSuperTypeOf(o *Class) bool {
	if o == nil {
		return false
	}
	if c == o || c == metaObject {
		return true
	}
	for _, s := range o.AllSuperTypes() {
		if s == c {
			return true
		}
	}
	return false
}

// EStructuralFeatures provides the features declared by the class.
func (c *Class) EStructuralFeatures() []StructuralFeature {
	var r []StructuralFeature
	for _, o := range c.list(featStructuralFeatures).Objects() {
		if f, ok := o.(StructuralFeature); ok {
			r = append(r, f)
		}
	}
	return r
}

// AllStructuralFeatures provides the declared and inherited features.
// Inherited features come first.
func (c *Class) AllStructuralFeatures() []StructuralFeature {
	var r []StructuralFeature
	for _, s := range c.AllSuperTypes() {
		r = append(r, s.EStructuralFeatures()...)
	}
	return append(r, c.EStructuralFeatures()...)
}

// StructuralFeature provides the (possibly inherited) feature with the
// given name, or nil.
func (c *Class) StructuralFeature(name string) StructuralFeature {
	for _, f := range c.AllStructuralFeatures() {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func (c *Class) AllAttributes() []*Attribute {
	var r []*Attribute
	for _, f := range c.AllStructuralFeatures() {
		if a, ok := f.(*Attribute); ok {
			r = append(r, a)
		}
	}
	return r
}

func (c *Class) AllReferences() []*Reference {
	var r []*Reference
	for _, f := range c.AllStructuralFeatures() {
		if a, ok := f.(*Reference); ok {
			r = append(r, a)
		}
	}
	return r
}

func (c *Class) AllContainments() []*Reference {
	var r []*Reference
	for _, f := range c.AllReferences() {
		if f.IsContainment() {
			r = append(r, f)
		}
	}
	return r
}

// IDAttribute provides the first attribute flagged as ID, or nil.
func (c *Class) IDAttribute() *Attribute {
	for _, a := range c.AllAttributes() {
		if a.IsID() {
			return a
		}
	}
	return nil
}

func (c *Class) hasFeature(f StructuralFeature) bool {
	for _, e := range c.AllStructuralFeatures() {
		if e == f {
			return true
		}
	}
	return false
}

// NewAttribute creates a new single valued attribute of the class.
func (c *Class) NewAttribute(name string, typ Classifier) *Attribute {
	a := newAttribute()
	a.put(featName, name)
	if !isNil(typ) {
		a.put(featType, typ)
	}
	c.containRaw(featStructuralFeatures, a)
	return a
}

// NewReference creates a new single valued reference of the class.
func (c *Class) NewReference(name string, typ *Class) *Reference {
	r := newReference()
	r.put(featName, name)
	if typ != nil {
		r.put(featType, typ)
	}
	c.containRaw(featStructuralFeatures, r)
	return r
}

////////////////////////////////////////////////////////////////////////////////

// StructuralFeature is the common interface of attributes and references.
type StructuralFeature interface {
	Object
	Name() string
	EType() Classifier
	LowerBound() int
	// UpperBound provides the maximum number of values, or Unbounded.
	UpperBound() int
	IsMany() bool
	IsRequired() bool
	IsOrdered() bool
	IsUnique() bool
	IsChangeable() bool
	IsTransient() bool
	DefaultValueLiteral() string
	// DefaultValue provides the value of an unset feature.
	DefaultValue() any
	EContainingClass() *Class

	efeature() *feature
}

type feature struct {
	namedElement
}

func (f *feature) efeature() *feature {
	return f
}

func (f *feature) EType() Classifier {
	c, _ := f.rawObject(featType).(Classifier)
	return c
}

func (f *feature) SetEType(c Classifier) {
	if isNil(c) {
		delete(f.values, featType)
		return
	}
	f.put(featType, c)
}

func (f *feature) LowerBound() int {
	return f.rawInt(featLowerBound, 0)
}

func (f *feature) SetLowerBound(n int) {
	f.put(featLowerBound, n)
}

func (f *feature) UpperBound() int {
	return f.rawInt(featUpperBound, 1)
}

func (f *feature) SetUpperBound(n int) {
	f.put(featUpperBound, n)
}

func (f *feature) IsMany() bool {
	ub := f.UpperBound()
	return ub > 1 || ub == Unbounded
}

func (f *feature) IsRequired() bool {
	return f.LowerBound() > 0
}

func (f *feature) IsOrdered() bool {
	return f.rawBool(featOrdered, true)
}

func (f *feature) SetOrdered(b bool) {
	f.put(featOrdered, b)
}

func (f *feature) IsUnique() bool {
	return f.rawBool(featUnique, true)
}

func (f *feature) SetUnique(b bool) {
	f.put(featUnique, b)
}

func (f *feature) IsChangeable() bool {
	return f.rawBool(featChangeable, true)
}

func (f *feature) SetChangeable(b bool) {
	f.put(featChangeable, b)
}

func (f *feature) IsTransient() bool {
	return f.rawBool(featTransient, false)
}

func (f *feature) SetTransient(b bool) {
	f.put(featTransient, b)
}

func (f *feature) DefaultValueLiteral() string {
	return f.rawString(featDefaultValueLiteral)
}

func (f *feature) SetDefaultValueLiteral(s string) {
	f.put(featDefaultValueLiteral, s)
}

func (f *feature) EContainingClass() *Class {
	if c, ok := f.container.(*Class); ok && f.containingFeature == StructuralFeature(featStructuralFeatures) {
		return c
	}
	return nil
}

func (f *feature) DefaultValue() any {
	if f.IsMany() {
		return nil
	}
	switch t := f.EType().(type) {
	case *Enum:
		if lit := f.DefaultValueLiteral(); lit != "" {
			if v, err := t.ParseValue(lit); err == nil {
				return v
			}
		}
		return t.DefaultValue()
	case *DataType:
		if lit := f.DefaultValueLiteral(); lit != "" {
			if v, err := t.ParseValue(lit); err == nil {
				return v
			}
		}
		return t.DefaultValue()
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// Attribute is a feature holding data values.
type Attribute struct {
	feature
}

var _ StructuralFeature = (*Attribute)(nil)

func newAttribute() *Attribute {
	a := &Attribute{}
	a.Init(a, metaAttribute)
	return a
}

func (a *Attribute) IsID() bool {
	return a.rawBool(featID, false)
}

func (a *Attribute) SetID(b bool) *Attribute {
	a.put(featID, b)
	return a
}

// Bounds sets lower and upper bound.
func (a *Attribute) Bounds(lower, upper int) *Attribute {
	a.SetLowerBound(lower)
	a.SetUpperBound(upper)
	return a
}

func (a *Attribute) Many() *Attribute {
	return a.Bounds(a.LowerBound(), Unbounded)
}

func (a *Attribute) Default(lit string) *Attribute {
	a.SetDefaultValueLiteral(lit)
	return a
}

////////////////////////////////////////////////////////////////////////////////

// Reference is a feature holding objects.
type Reference struct {
	feature
}

var _ StructuralFeature = (*Reference)(nil)

func newReference() *Reference {
	r := &Reference{}
	r.Init(r, metaReference)
	return r
}

func (r *Reference) IsContainment() bool {
	return r.rawBool(featContainment, false)
}

func (r *Reference) SetContainment(b bool) {
	r.put(featContainment, b)
}

// IsContainer reports whether the reference is the opposite of a
// containment.
func (r *Reference) IsContainer() bool {
	op := r.EOpposite()
	return op != nil && op.IsContainment()
}

func (r *Reference) ResolveProxies() bool {
	return r.rawBool(featResolveProxies, true)
}

func (r *Reference) SetResolveProxies(b bool) {
	r.put(featResolveProxies, b)
}

func (r *Reference) EOpposite() *Reference {
	o, _ := r.rawObject(featOpposite).(*Reference)
	return o
}

func (r *Reference) EReferenceType() *Class {
	c, _ := r.EType().(*Class)
	return c
}

// Bounds sets lower and upper bound.
func (r *Reference) Bounds(lower, upper int) *Reference {
	r.SetLowerBound(lower)
	r.SetUpperBound(upper)
	return r
}

func (r *Reference) Many() *Reference {
	return r.Bounds(r.LowerBound(), Unbounded)
}

// Containment flags the reference as containment.
func (r *Reference) Containment() *Reference {
	r.SetContainment(true)
	return r
}

// SetOpposite links two references as opposite ends of a bidirectional
// association.
func SetOpposite(a, b *Reference) {
	a.put(featOpposite, b)
	b.put(featOpposite, a)
}
