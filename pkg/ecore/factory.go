package ecore

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mandelsoft/goutils/generics"
)

// Creator creates the Go object for an instance of a metaclass.
type Creator func() Object

// metaCreators provides the Go types for the metaclasses of the
// Ecore package.
var metaCreators = map[string]Creator{
	"EPackage":                func() Object { return newPackage() },
	"EClass":                  func() Object { return newClass() },
	"EDataType":               func() Object { return newDataType() },
	"EEnum":                   func() Object { return newEnum() },
	"EEnumLiteral":            func() Object { return newEnumLiteral() },
	"EAttribute":              func() Object { return newAttribute() },
	"EReference":              func() Object { return newReference() },
	"EAnnotation":             func() Object { return newAnnotation() },
	"EStringToStringMapEntry": func() Object { return newStringEntry() },
}

var metaTypes = map[reflect.Type]string{
	generics.TypeOf[*Package]():     "EPackage",
	generics.TypeOf[*Class]():       "EClass",
	generics.TypeOf[*DataType]():    "EDataType",
	generics.TypeOf[*Enum]():        "EEnum",
	generics.TypeOf[*EnumLiteral](): "EEnumLiteral",
	generics.TypeOf[*Attribute]():   "EAttribute",
	generics.TypeOf[*Reference]():   "EReference",
	generics.TypeOf[*Annotation]():  "EAnnotation",
	generics.TypeOf[*StringEntry](): "EStringToStringMapEntry",
}

// Factory creates objects for the classes of a package.
type Factory struct {
	pkg      *Package
	creators map[*Class]Creator
}

func (f *Factory) Package() *Package {
	return f.pkg
}

// Register sets a dedicated creator for a class of the package.
func (f *Factory) Register(c *Class, creator Creator) {
	if f.creators == nil {
		f.creators = map[*Class]Creator{}
	}
	f.creators[c] = creator
}

// Create creates a new object for the given class. Abstract classes and
// interfaces cannot be instantiated.
func (f *Factory) Create(c *Class) (Object, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: no class given", ErrInvalidValue)
	}
	if c.IsAbstract() || c.IsInterface() {
		return nil, fmt.Errorf("%w: %s", ErrAbstract, c.Name())
	}
	if cr := f.creators[c]; cr != nil {
		return cr(), nil
	}
	if c.EPackage() == ecorePackage {
		if cr := metaCreators[c.Name()]; cr != nil {
			return cr(), nil
		}
	}
	return NewDynamicObject(c), nil
}

// CreateByName creates an object for the class with the given name.
func (f *Factory) CreateByName(name string) (Object, error) {
	c := f.pkg.Class(name)
	if c == nil {
		return nil, fmt.Errorf("%w: class %q in package %q", ErrNotFound, name, f.pkg.NsURI())
	}
	return f.Create(c)
}

// ClassFor determines the class of a package used for the Go type T.
// For the Ecore package the metamodel types are mapped to their
// metaclasses, otherwise the class is looked up by the type name.
func ClassFor[T any](p *Package) *Class {
	t := generics.TypeOf[T]()
	if n, ok := metaTypes[t]; ok {
		if c := p.Class(n); c != nil {
			return c
		}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	n := t.Name()
	if c := p.Class(n); c != nil {
		return c
	}
	if !strings.HasPrefix(n, "E") {
		return p.Class("E" + n)
	}
	return nil
}
