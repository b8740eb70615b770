package dynemf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mandelsoft/goutils/errors"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/dynemf/pkg/ecore"
	"github.com/mandelsoft/dynemf/pkg/ecore/yaml"
	"github.com/mandelsoft/dynemf/pkg/utils"
)

// ResourceWrapper wraps a resource.
type ResourceWrapper struct {
	wrapper[*ecore.Resource]
}

var _ Wrapper = (*ResourceWrapper)(nil)

// Resource wraps a resource.
func Resource(r *ecore.Resource) *ResourceWrapper {
	return &ResourceWrapper{wrapper[*ecore.Resource]{obj: r}}
}

func resourceError(err error) *ResourceWrapper {
	return &ResourceWrapper{wrapper[*ecore.Resource]{err: err}}
}

func (r *ResourceWrapper) URI() ecore.URI {
	if r.obj == nil {
		return ""
	}
	return r.obj.URI()
}

// Save stores the resource at its URI.
func (r *ResourceWrapper) Save(opts ...ecore.Options) *ResourceWrapper {
	if r.err == nil {
		r.fail(r.obj.Save(opts...))
	}
	return r
}

// SaveAs changes the URI of the resource to the given file path and
// saves it. The format is selected by the extension of the path.
func (r *ResourceWrapper) SaveAs(path string, opts ...ecore.Options) *ResourceWrapper {
	if r.err == nil {
		uri := ecore.FileURI(path)
		r.obj.SetCodec(r.codecFor(uri))
		r.obj.SetURI(uri)
	}
	return r.Save(opts...)
}

// codecFor provides the codec of the resource factory responsible for
// a URI. Resources without resource set keep their codec.
func (r *ResourceWrapper) codecFor(uri ecore.URI) ecore.Codec {
	if s := r.obj.ResourceSet(); s != nil {
		if f := s.ResourceFactoryRegistry().Factory(uri); f != nil {
			if c := f.CreateResource(uri).Codec(); c != nil {
				return c
			}
		}
	}
	return r.obj.Codec()
}

// SaveTo writes the encoded resource to a writer.
func (r *ResourceWrapper) SaveTo(w io.Writer, opts ...ecore.Options) *ResourceWrapper {
	if r.err == nil {
		r.fail(r.obj.SaveTo(w, opts...))
	}
	return r
}

// Reload replaces the content by the content stored at the resource URI.
func (r *ResourceWrapper) Reload(opts ...ecore.Options) *ResourceWrapper {
	if r.err == nil {
		r.fail(r.obj.Load(opts...))
	}
	return r
}

// Load replaces the content by the content of the given file. The
// format is selected by the extension of the path. URI and format of
// the resource are kept.
func (r *ResourceWrapper) Load(path string, opts ...ecore.Options) *ResourceWrapper {
	if r.err != nil {
		return r
	}
	data, err := vfs.ReadFile(r.obj.FileSystem(), path)
	if err != nil {
		r.fail(errors.Wrapf(err, "cannot load %s", path))
		return r
	}
	r.fail(r.obj.LoadWith(r.codecFor(ecore.FileURI(path)), bytes.NewReader(data), opts...))
	return r
}

// LoadFrom replaces the content by the content read from a reader.
func (r *ResourceWrapper) LoadFrom(rd io.Reader, opts ...ecore.Options) *ResourceWrapper {
	if r.err == nil {
		r.fail(r.obj.LoadFrom(rd, opts...))
	}
	return r
}

func (r *ResourceWrapper) Len() int {
	if r.obj == nil {
		return 0
	}
	return r.obj.Contents().Len()
}

func (r *ResourceWrapper) IsEmpty() bool {
	return r.Len() == 0
}

func (r *ResourceWrapper) IsMultiRoot() bool {
	return r.Len() > 1
}

// Add adds root objects given as model objects or object wrappers.
func (r *ResourceWrapper) Add(objs ...any) *ResourceWrapper {
	if r.err != nil {
		return r
	}
	values, err := unwrapAll(objs)
	if err != nil {
		r.fail(err)
		return r
	}
	for _, v := range values {
		o, ok := v.(ecore.Object)
		if !ok {
			r.fail(typeError(v, "model object"))
			return r
		}
		if _, err := r.obj.Contents().Add(o); err != nil {
			r.fail(err)
			return r
		}
	}
	return r
}

// Root provides the first root object.
func (r *ResourceWrapper) Root() *EObjectWrapper {
	return r.RootAt(0)
}

// RootAt provides the i-th root object.
func (r *ResourceWrapper) RootAt(i int) *EObjectWrapper {
	if r.err != nil {
		return objError(r.err)
	}
	if i < 0 || i >= r.Len() {
		return objError(fmt.Errorf("%w: %d in %s", ErrNoRoot, i, r.obj.URI()))
	}
	return Obj(r.obj.Contents().Get(i).(ecore.Object))
}

// Roots provides all root objects.
func (r *ResourceWrapper) Roots() []*EObjectWrapper {
	return r.FindRoots("")
}

// FindRoots provides the root objects of the class with the given
// name. An empty name matches all classes.
func (r *ResourceWrapper) FindRoots(class string) []*EObjectWrapper {
	var result []*EObjectWrapper
	if r.obj == nil {
		return result
	}
	for _, o := range r.obj.Contents().Objects() {
		if class == "" || o.EClass().Name() == class {
			result = append(result, Obj(o))
		}
	}
	return result
}

// EObject provides the object for a URI fragment.
func (r *ResourceWrapper) EObject(fragment string) *EObjectWrapper {
	if r.err != nil {
		return objError(r.err)
	}
	o := r.obj.EObject(fragment)
	if o == nil {
		return objError(fmt.Errorf("%w: %s#%s", ecore.ErrUnresolved, r.obj.URI(), fragment))
	}
	return Obj(o)
}

// Digest provides a digest of the content. It is independent of the
// serialization format and the location of the resource.
func (r *ResourceWrapper) Digest() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	t, err := yaml.Tree(r.obj)
	if err != nil {
		return "", err
	}
	return utils.HashData(t)
}
