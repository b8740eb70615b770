package dynemf

import (
	"fmt"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

// EPackageWrapper wraps a metamodel package and acts as factory for
// its classes.
type EPackageWrapper struct {
	wrapper[*ecore.Package]
	factory *ecore.Factory
}

var _ Wrapper = (*EPackageWrapper)(nil)

// EPackage wraps a package.
func EPackage(p *ecore.Package) *EPackageWrapper {
	w := &EPackageWrapper{}
	if p == nil {
		w.err = fmt.Errorf("%w: no package", ecore.ErrUnknownPackage)
		return w
	}
	w.update(p)
	return w
}

// Ecore wraps the Ecore package.
func Ecore() *EPackageWrapper {
	return EPackage(ecore.EcorePackage())
}

func (p *EPackageWrapper) update(pkg *ecore.Package) {
	p.obj = pkg
	p.factory = pkg.Factory()
	p.err = nil
}

func (p *EPackageWrapper) NsURI() string {
	if p.obj == nil {
		return ""
	}
	return p.obj.NsURI()
}

// Class provides the class with the given name or nil.
func (p *EPackageWrapper) Class(name string) *ecore.Class {
	if p.obj == nil {
		return nil
	}
	return p.obj.Class(name)
}

// Create creates an instance of the class with the given name.
func (p *EPackageWrapper) Create(name string) *EObjectWrapper {
	if p.err != nil {
		return objError(p.err)
	}
	c := p.obj.Class(name)
	if c == nil {
		return objError(fmt.Errorf("%w: %q in package %q", ErrNoClass, name, p.obj.NsURI()))
	}
	return p.create(c)
}

func (p *EPackageWrapper) create(c *ecore.Class) *EObjectWrapper {
	o, err := p.factory.Create(c)
	if err != nil {
		return objError(err)
	}
	log.Trace("created {{class}}", "class", c.Name())
	return Obj(o)
}

// CreateAs creates an instance of the class matching the Go type T.
// For the Ecore package T may be a metamodel type like *ecore.Class.
// Other packages use the type name as class name.
func CreateAs[T any](p *EPackageWrapper) *EObjectWrapper {
	if p.err != nil {
		return objError(p.err)
	}
	c := ecore.ClassFor[T](p.obj)
	if c == nil {
		var _nil T
		return objError(fmt.Errorf("%w: %T in package %q", ErrNoClass, _nil, p.obj.NsURI()))
	}
	return p.create(c)
}

// AsEObject provides the package as model object to modify the
// metamodel reflectively.
func (p *EPackageWrapper) AsEObject() *EObjectWrapper {
	if p.err != nil {
		return objError(p.err)
	}
	return Obj(p.obj)
}
