package dynemf

import (
	"fmt"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/dynemf/pkg/ecore"
	"github.com/mandelsoft/dynemf/pkg/ecore/binary"
	"github.com/mandelsoft/dynemf/pkg/ecore/xmi"
	"github.com/mandelsoft/dynemf/pkg/ecore/yaml"
)

// ResourceSetWrapper wraps a resource set. It is the entry point to
// register metamodels and to create or open resources.
type ResourceSetWrapper struct {
	wrapper[*ecore.ResourceSet]
	packages map[string]*EPackageWrapper
}

var _ Wrapper = (*ResourceSetWrapper)(nil)

// RSet creates a wrapper for a new resource set prepared by
// CreateResourceSet.
func RSet(fss ...vfs.FileSystem) *ResourceSetWrapper {
	return WrapRSet(CreateResourceSet(fss...))
}

// WrapRSet wraps an existing resource set.
func WrapRSet(s *ecore.ResourceSet) *ResourceSetWrapper {
	return &ResourceSetWrapper{
		wrapper:  wrapper[*ecore.ResourceSet]{obj: s},
		packages: map[string]*EPackageWrapper{},
	}
}

// CreateResourceSet creates a resource set with resource factories
// for the extensions xmi, ecore, bin, yaml, yml and json. Other
// extensions use XMI.
func CreateResourceSet(fss ...vfs.FileSystem) *ecore.ResourceSet {
	s := ecore.NewResourceSet(fss...)
	reg := s.ResourceFactoryRegistry()
	reg.Put("xmi", xmi.Factory)
	reg.Put("ecore", xmi.Factory)
	reg.Put("bin", binary.Factory)
	reg.Put("yaml", yaml.Factory)
	reg.Put("yml", yaml.Factory)
	reg.Put("json", yaml.JSONFactory)
	reg.Put(ecore.DefaultExtension, xmi.Factory)
	return s
}

// CopyPackageRegistry adds the packages registered for another
// resource set.
func (s *ResourceSetWrapper) CopyPackageRegistry(o *ecore.ResourceSet) *ResourceSetWrapper {
	if s.err == nil {
		s.obj.PackageRegistry().PutAll(o.PackageRegistry())
		for _, n := range o.PackageRegistry().NsURIs() {
			s.update(n, o.PackageRegistry().Get(n))
		}
	}
	return s
}

// Factory sets the resource factory used for a file extension.
func (s *ResourceSetWrapper) Factory(ext string, f ecore.ResourceFactory) *ResourceSetWrapper {
	if s.err == nil {
		s.obj.ResourceFactoryRegistry().Put(ext, f)
	}
	return s
}

// EPackage provides the wrapper for a registered package. Wrappers are
// kept per namespace URI and follow later registrations for this URI.
func (s *ResourceSetWrapper) EPackage(nsURI string) *EPackageWrapper {
	if s.err != nil {
		return &EPackageWrapper{wrapper: wrapper[*ecore.Package]{err: s.err}}
	}
	if w := s.packages[nsURI]; w != nil {
		return w
	}
	p := s.obj.PackageRegistry().Get(nsURI)
	if p == nil {
		return &EPackageWrapper{wrapper: wrapper[*ecore.Package]{err: fmt.Errorf("%w: %q", ecore.ErrUnknownPackage, nsURI)}}
	}
	w := EPackage(p)
	s.packages[nsURI] = w
	return w
}

// Register registers a package under its namespace URI.
func (s *ResourceSetWrapper) Register(p *ecore.Package) *ResourceSetWrapper {
	if p == nil {
		s.fail(fmt.Errorf("%w: no package", ecore.ErrUnknownPackage))
		return s
	}
	return s.RegisterAs(p.NsURI(), p)
}

// RegisterAs registers a package under the given namespace URI.
func (s *ResourceSetWrapper) RegisterAs(nsURI string, p *ecore.Package) *ResourceSetWrapper {
	if s.err == nil {
		s.obj.PackageRegistry().PutAs(nsURI, p)
		s.update(nsURI, p)
		log.Debug("registered package {{nsuri}}", "nsuri", nsURI)
	}
	return s
}

// RegisterPath loads a metamodel file and registers all root
// packages.
func (s *ResourceSetWrapper) RegisterPath(path string) *ResourceSetWrapper {
	return s.RegisterURI(ecore.FileURI(path))
}

// RegisterURI loads a metamodel resource and registers all root
// packages.
func (s *ResourceSetWrapper) RegisterURI(uri ecore.URI) *ResourceSetWrapper {
	if s.err != nil {
		return s
	}
	r, err := s.obj.GetResource(uri, true)
	if err != nil {
		s.fail(err)
		return s
	}
	for _, o := range r.Contents().Objects() {
		if p, ok := o.(*ecore.Package); ok {
			s.RegisterAs(p.NsURI(), p)
		}
	}
	return s
}

func (s *ResourceSetWrapper) update(nsURI string, p *ecore.Package) {
	if w := s.packages[nsURI]; w != nil && p != nil {
		w.update(p)
	}
}

// Create creates a new resource for a file path.
func (s *ResourceSetWrapper) Create(path string) *ResourceWrapper {
	return s.CreateURI(ecore.FileURI(path))
}

// CreateURI creates a new resource for a URI.
func (s *ResourceSetWrapper) CreateURI(uri ecore.URI) *ResourceWrapper {
	if s.err != nil {
		return resourceError(s.err)
	}
	r, err := s.obj.CreateResource(uri)
	if err != nil {
		return resourceError(err)
	}
	return Resource(r)
}

// Open provides the loaded resource for a file path.
func (s *ResourceSetWrapper) Open(path string) *ResourceWrapper {
	return s.OpenURI(ecore.FileURI(path))
}

// OpenURI provides the loaded resource for a URI.
func (s *ResourceSetWrapper) OpenURI(uri ecore.URI) *ResourceWrapper {
	if s.err != nil {
		return resourceError(s.err)
	}
	r, err := s.obj.GetResource(uri, true)
	if err != nil {
		return resourceError(err)
	}
	log.Debug("opened resource {{uri}}", "uri", uri)
	return Resource(r)
}

// Resources provides wrappers for all resources of the set.
func (s *ResourceSetWrapper) Resources() []*ResourceWrapper {
	var result []*ResourceWrapper
	if s.obj == nil {
		return result
	}
	for _, r := range s.obj.Resources() {
		result = append(result, Resource(r))
	}
	return result
}
