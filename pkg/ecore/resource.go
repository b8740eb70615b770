package ecore

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/mandelsoft/goutils/errors"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// Resource is a persistence unit holding a list of root objects.
type Resource struct {
	uri      URI
	codec    Codec
	set      *ResourceSet
	contents *List
	loaded   bool

	ids  map[Object]string
	objs map[string]Object
}

// NewResource creates an empty resource using the given codec for
// loading and saving.
func NewResource(uri URI, codec Codec) *Resource {
	r := &Resource{
		uri:   uri,
		codec: codec,
		ids:   map[Object]string{},
		objs:  map[string]Object{},
	}
	r.contents = newContentList(r)
	return r
}

func (r *Resource) URI() URI {
	return r.uri
}

func (r *Resource) SetURI(uri URI) {
	r.uri = uri
}

func (r *Resource) Codec() Codec {
	return r.codec
}

func (r *Resource) SetCodec(c Codec) {
	r.codec = c
}

func (r *Resource) ResourceSet() *ResourceSet {
	return r.set
}

// Contents provides the root objects.
func (r *Resource) Contents() *List {
	return r.contents
}

func (r *Resource) IsLoaded() bool {
	return r.loaded
}

// FileSystem provides the file system used to load and save the
// resource.
func (r *Resource) FileSystem() vfs.FileSystem {
	if r.set != nil {
		return r.set.FileSystem()
	}
	return osfs.OsFs
}

// PackageRegistry provides the registry used to resolve namespace URIs.
func (r *Resource) PackageRegistry() *PackageRegistry {
	if r.set != nil {
		return r.set.PackageRegistry()
	}
	return GlobalPackageRegistry
}

// AllContents provides all objects of the resource in depth first order.
func (r *Resource) AllContents() []Object {
	var result []Object
	for _, o := range r.contents.Objects() {
		result = append(result, o)
		result = append(result, o.EAllContents()...)
	}
	return result
}

// ID provides the ID of an object. It is either explicitly assigned or
// the value of the ID attribute of the object's class.
func (r *Resource) ID(o Object) string {
	if id, ok := r.ids[o]; ok {
		return id
	}
	if c := o.EClass(); c != nil {
		if a := c.IDAttribute(); a != nil {
			if v := o.EGet(a); v != nil {
				if t, ok := a.EType().(*DataType); ok {
					s, _ := t.FormatValue(v)
					return s
				}
				return fmt.Sprint(v)
			}
		}
	}
	return ""
}

// SetID assigns an explicit ID. An empty ID removes the assignment.
func (r *Resource) SetID(o Object, id string) {
	if old, ok := r.ids[o]; ok {
		delete(r.objs, old)
		delete(r.ids, o)
	}
	if id != "" {
		if p, ok := r.objs[id]; ok {
			delete(r.ids, p)
		}
		r.ids[o] = id
		r.objs[id] = o
	}
}

func (r *Resource) objectByID(id string) Object {
	if o, ok := r.objs[id]; ok {
		return o
	}
	for _, o := range r.AllContents() {
		if r.ID(o) == id {
			return o
		}
	}
	return nil
}

// Load loads the content from the file denoted by the resource URI.
func (r *Resource) Load(opts ...Options) error {
	p, err := r.uri.FilePath()
	if err != nil {
		return errors.Wrapf(err, "cannot load %s", r.uri)
	}
	data, err := vfs.ReadFile(r.FileSystem(), p)
	if err != nil {
		return errors.Wrapf(err, "cannot load %s", r.uri)
	}
	return r.LoadFrom(bytes.NewReader(data), opts...)
}

// LoadFrom replaces the content by the content decoded from the reader.
func (r *Resource) LoadFrom(rd io.Reader, opts ...Options) error {
	return r.LoadWith(r.codec, rd, opts...)
}

// LoadWith replaces the content by the content decoded from the reader
// with the given codec. The codec of the resource is not changed.
func (r *Resource) LoadWith(c Codec, rd io.Reader, opts ...Options) error {
	if c == nil {
		return errors.Wrapf(ErrNoCodec, "cannot load %s", r.uri)
	}
	r.Unload()
	log.Debug("loading resource {{uri}}", "uri", r.uri)
	err := c.Decode(rd, r, Options{}.Merge(opts...))
	if err != nil {
		return errors.Wrapf(err, "cannot load %s", r.uri)
	}
	r.loaded = true
	return nil
}

// Save writes the content to the file denoted by the resource URI.
// Missing parent directories are created.
func (r *Resource) Save(opts ...Options) error {
	p, err := r.uri.FilePath()
	if err != nil {
		return errors.Wrapf(err, "cannot save %s", r.uri)
	}
	var buf bytes.Buffer
	err = r.SaveTo(&buf, opts...)
	if err != nil {
		return err
	}
	fs := r.FileSystem()
	if dir := filepath.Dir(p); dir != "" {
		err = fs.MkdirAll(dir, 0o755)
		if err != nil {
			return errors.Wrapf(err, "cannot save %s", r.uri)
		}
	}
	err = vfs.WriteFile(fs, p, buf.Bytes(), 0o644)
	if err != nil {
		return errors.Wrapf(err, "cannot save %s", r.uri)
	}
	log.Debug("saved resource {{uri}}", "uri", r.uri)
	r.loaded = true
	return nil
}

func (r *Resource) SaveTo(w io.Writer, opts ...Options) error {
	if r.codec == nil {
		return errors.Wrapf(ErrNoCodec, "cannot save %s", r.uri)
	}
	err := r.codec.Encode(w, r, Options{}.Merge(opts...))
	if err != nil {
		return errors.Wrapf(err, "cannot save %s", r.uri)
	}
	return nil
}

// Unload removes all content.
func (r *Resource) Unload() {
	for _, o := range r.contents.Objects() {
		o.base().resource = nil
	}
	r.contents.data = nil
	r.ids = map[Object]string{}
	r.objs = map[string]Object{}
	r.loaded = false
}

func (r *Resource) String() string {
	return string(r.uri)
}
