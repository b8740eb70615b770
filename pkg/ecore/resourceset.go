package ecore

import (
	"fmt"

	"github.com/mandelsoft/goutils/errors"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/dynemf/pkg/utils"
)

// ResourceSet is a set of resources sharing a package registry, a
// resource factory registry and a file system.
type ResourceSet struct {
	fs        vfs.FileSystem
	resources []*Resource
	packages  *PackageRegistry
	factories *ResourceFactoryRegistry
}

// NewResourceSet creates an empty resource set. The package registry
// delegates to the global registry. Resources are loaded from the
// given file system, which defaults to the OS file system.
func NewResourceSet(fss ...vfs.FileSystem) *ResourceSet {
	return &ResourceSet{
		fs:        utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...),
		packages:  NewPackageRegistry(GlobalPackageRegistry),
		factories: NewResourceFactoryRegistry(),
	}
}

func (s *ResourceSet) FileSystem() vfs.FileSystem {
	return s.fs
}

func (s *ResourceSet) SetFileSystem(fs vfs.FileSystem) {
	s.fs = fs
}

func (s *ResourceSet) PackageRegistry() *PackageRegistry {
	return s.packages
}

func (s *ResourceSet) ResourceFactoryRegistry() *ResourceFactoryRegistry {
	return s.factories
}

func (s *ResourceSet) Resources() []*Resource {
	return append([]*Resource(nil), s.resources...)
}

// AddResource adds a resource created outside of the set.
func (s *ResourceSet) AddResource(r *Resource) {
	if r.set == s {
		return
	}
	if r.set != nil {
		r.set.Remove(r)
	}
	r.set = s
	s.resources = append(s.resources, r)
}

func (s *ResourceSet) Remove(r *Resource) {
	for i, e := range s.resources {
		if e == r {
			s.resources = append(s.resources[:i], s.resources[i+1:]...)
			r.set = nil
			return
		}
	}
}

// CreateResource creates a new empty resource using the factory
// registered for the file extension of the URI.
func (s *ResourceSet) CreateResource(uri URI) (*Resource, error) {
	uri = uri.TrimFragment()
	f := s.factories.Factory(uri)
	if f == nil {
		return nil, errors.Wrapf(ErrNoFactory, "extension %q of %s", uri.FileExtension(), uri)
	}
	r := f.CreateResource(uri)
	s.AddResource(r)
	log.Trace("created resource {{uri}}", "uri", uri)
	return r, nil
}

// Resource provides the resource with the given URI, if it is
// part of the set.
func (s *ResourceSet) Resource(uri URI) *Resource {
	uri = uri.TrimFragment()
	for _, r := range s.resources {
		if r.uri == uri {
			return r
		}
	}
	return nil
}

// GetResource provides the resource for a URI. If it is not part of the
// set and load is given, it is created and loaded. A resource failing
// to load is removed again.
func (s *ResourceSet) GetResource(uri URI, load bool) (*Resource, error) {
	uri = uri.TrimFragment()
	if r := s.Resource(uri); r != nil {
		if load && !r.loaded {
			if err := r.Load(); err != nil {
				return nil, err
			}
		}
		return r, nil
	}
	if !load {
		return nil, errors.Wrapf(ErrNotFound, "resource %s", uri)
	}
	if p := s.packages.Get(string(uri)); p != nil && p.EResource() != nil {
		return p.EResource(), nil
	}
	r, err := s.CreateResource(uri)
	if err != nil {
		return nil, err
	}
	if err := r.Load(); err != nil {
		s.Remove(r)
		return nil, err
	}
	return r, nil
}

// EObject resolves a URI with fragment to an object.
func (s *ResourceSet) EObject(uri URI, load bool) (Object, error) {
	return ResolveURI(s, uri, load)
}

// ResolveURI resolves a URI with fragment to an object. Namespace URIs
// of registered packages are resolved against the package. If no
// resource set is given, only registered packages can be resolved.
func ResolveURI(set *ResourceSet, uri URI, load bool) (Object, error) {
	base := uri.TrimFragment()
	frag := uri.Fragment()

	var reg *PackageRegistry
	if set != nil {
		reg = set.packages
	} else {
		reg = GlobalPackageRegistry
	}

	if p := reg.Get(string(base)); p != nil {
		if frag == "" || frag == "/" {
			return p, nil
		}
		if o := packageObject(p, frag); o != nil {
			return o, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, uri)
	}
	if set == nil {
		return nil, errors.Wrapf(ErrUnknownPackage, "%s", base)
	}
	res, err := set.GetResource(base, load)
	if err != nil {
		return nil, err
	}
	if frag == "" {
		frag = "/"
	}
	o := res.EObject(frag)
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, uri)
	}
	return o, nil
}

// packageObject resolves a fragment relative to a package.
func packageObject(p *Package, frag string) Object {
	r := NewResource("", nil)
	r.contents.data = []any{p}
	o := r.EObject(frag)
	r.contents.data = nil
	return o
}
