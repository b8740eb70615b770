package ecore

import (
	"strings"
	"sync"

	"github.com/mandelsoft/goutils/maputils"
)

// PackageRegistry maps namespace URIs to packages. A registry may
// delegate lookups to a parent registry.
type PackageRegistry struct {
	lock     sync.RWMutex
	delegate *PackageRegistry
	packages map[string]*Package
}

// GlobalPackageRegistry is the process wide registry. It contains the
// Ecore package and is the delegate of all resource set registries.
var GlobalPackageRegistry = NewPackageRegistry(nil)

func NewPackageRegistry(delegate *PackageRegistry) *PackageRegistry {
	return &PackageRegistry{
		delegate: delegate,
		packages: map[string]*Package{},
	}
}

func (r *PackageRegistry) Delegate() *PackageRegistry {
	return r.delegate
}

// Get provides the package for a namespace URI, or nil.
func (r *PackageRegistry) Get(nsURI string) *Package {
	r.lock.RLock()
	p := r.packages[nsURI]
	r.lock.RUnlock()
	if p == nil && r.delegate != nil {
		return r.delegate.Get(nsURI)
	}
	return p
}

// Put registers a package and its sub packages under their
// namespace URIs.
func (r *PackageRegistry) Put(p *Package) {
	for _, s := range p.AllPackages() {
		r.PutAs(s.NsURI(), s)
	}
}

// PutAs registers a package under the given namespace URI.
func (r *PackageRegistry) PutAs(nsURI string, p *Package) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.packages[nsURI] = p
	log.Trace("registered package {{nsuri}}", "nsuri", nsURI)
}

func (r *PackageRegistry) Remove(nsURI string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.packages, nsURI)
}

// NsURIs provides the sorted URIs of the locally registered packages.
func (r *PackageRegistry) NsURIs() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return maputils.OrderedKeys(r.packages)
}

// PutAll copies the local entries of another registry.
func (r *PackageRegistry) PutAll(o *PackageRegistry) {
	if o == nil || o == r {
		return
	}
	o.lock.RLock()
	m := maputils.Transform(o.packages, func(k string, v *Package) (string, *Package) { return k, v })
	o.lock.RUnlock()

	r.lock.Lock()
	defer r.lock.Unlock()
	for k, v := range m {
		r.packages[k] = v
	}
}

// Lookup finds the package with the given prefix.
func (r *PackageRegistry) Lookup(prefix string) *Package {
	r.lock.RLock()
	for _, k := range maputils.OrderedKeys(r.packages) {
		if p := r.packages[k]; p.NsPrefix() == prefix {
			r.lock.RUnlock()
			return p
		}
	}
	r.lock.RUnlock()
	if r.delegate != nil {
		return r.delegate.Lookup(prefix)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// ResourceFactory creates resources for URIs.
type ResourceFactory interface {
	CreateResource(uri URI) *Resource
}

type ResourceFactoryFunc func(uri URI) *Resource

func (f ResourceFactoryFunc) CreateResource(uri URI) *Resource {
	return f(uri)
}

// CodecFactory provides a resource factory creating resources using the
// given codec.
func CodecFactory(c Codec) ResourceFactory {
	return ResourceFactoryFunc(func(uri URI) *Resource {
		return NewResource(uri, c)
	})
}

// DefaultExtension is the extension key of the fallback factory.
const DefaultExtension = "*"

// ResourceFactoryRegistry maps file extensions to resource factories.
type ResourceFactoryRegistry struct {
	factories map[string]ResourceFactory
}

func NewResourceFactoryRegistry() *ResourceFactoryRegistry {
	return &ResourceFactoryRegistry{factories: map[string]ResourceFactory{}}
}

func (r *ResourceFactoryRegistry) Put(ext string, f ResourceFactory) {
	r.factories[strings.ToLower(ext)] = f
}

func (r *ResourceFactoryRegistry) Get(ext string) ResourceFactory {
	return r.factories[strings.ToLower(ext)]
}

func (r *ResourceFactoryRegistry) Remove(ext string) {
	delete(r.factories, strings.ToLower(ext))
}

func (r *ResourceFactoryRegistry) Extensions() []string {
	return maputils.OrderedKeys(r.factories)
}

// Factory provides the factory for the extension of the URI, or the
// default factory.
func (r *ResourceFactoryRegistry) Factory(uri URI) ResourceFactory {
	if f := r.Get(uri.FileExtension()); f != nil {
		return f
	}
	return r.factories[DefaultExtension]
}
