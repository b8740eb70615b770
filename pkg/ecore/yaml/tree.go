package yaml

import (
	"fmt"
	"time"

	"github.com/mandelsoft/goutils/errors"
	"github.com/mandelsoft/goutils/maputils"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

// ClassURI provides the URI identifying a class.
func ClassURI(c *ecore.Class) string {
	if c.EPackage() == nil {
		return "#//" + c.Name()
	}
	return c.EPackage().NsURI() + "#//" + c.Name()
}

// Tree provides the generic tree representation of the content of a
// resource. It consists of maps, lists and plain values only.
func Tree(r *ecore.Resource) (map[string]any, error) {
	var roots []any
	for _, o := range r.Contents().Objects() {
		m, err := object(r, o, nil)
		if err != nil {
			return nil, err
		}
		roots = append(roots, m)
	}
	if roots == nil {
		roots = []any{}
	}
	return map[string]any{KeyContents: roots}, nil
}

func object(r *ecore.Resource, o ecore.Object, f *ecore.Reference) (map[string]any, error) {
	m := map[string]any{}
	if f == nil || o.EClass() != f.EReferenceType() {
		m[KeyClass] = ClassURI(o.EClass())
	}
	if o.EClass().IDAttribute() == nil {
		if id := r.ID(o); id != "" {
			m[KeyID] = id
		}
	}
	for _, sf := range o.EClass().AllStructuralFeatures() {
		if sf.IsTransient() || !o.EIsSet(sf) {
			continue
		}
		var conv func(v any) (any, error)
		switch t := sf.(type) {
		case *ecore.Attribute:
			conv = func(v any) (any, error) { return value(t, v) }
		case *ecore.Reference:
			if t.IsContainer() {
				continue
			}
			if t.IsContainment() {
				conv = func(v any) (any, error) { return object(r, v.(ecore.Object), t) }
			} else {
				conv = func(v any) (any, error) { return reference(r, v.(ecore.Object)) }
			}
		}
		v := o.EGet(sf)
		if l, ok := v.(*ecore.List); ok {
			list := []any{}
			for _, e := range l.Values() {
				c, err := conv(e)
				if err != nil {
					return nil, err
				}
				list = append(list, c)
			}
			m[sf.Name()] = list
		} else {
			c, err := conv(v)
			if err != nil {
				return nil, err
			}
			m[sf.Name()] = c
		}
	}
	return m, nil
}

func reference(r *ecore.Resource, o ecore.Object) (map[string]any, error) {
	uri, local, err := ecore.ReferenceURI(r, o)
	if err != nil {
		return nil, err
	}
	m := map[string]any{KeyRef: uri.String()}
	if !local {
		m[KeyClass] = ClassURI(o.EClass())
	}
	return m, nil
}

func value(a *ecore.Attribute, v any) (any, error) {
	switch t := a.EType().(type) {
	case *ecore.Enum:
		return t.FormatValue(v)
	case *ecore.DataType:
		switch e := v.(type) {
		case string, bool, int, int64, int16, int8, float64:
			return e, nil
		case float32:
			return float64(e), nil
		case rune:
			return string(e), nil
		case time.Time:
			return e.Format(time.RFC3339Nano), nil
		}
		return t.FormatValue(v)
	}
	return nil, errors.Newf("attribute %q has no data type", a.Name())
}

////////////////////////////////////////////////////////////////////////////////

type decoder struct {
	res     *ecore.Resource
	linker  *ecore.Linker
	lenient bool
}

func newDecoder(r *ecore.Resource, opts ecore.Options) *decoder {
	d := &decoder{
		res:     r,
		linker:  ecore.NewLinker(r),
		lenient: opts.Bool(ecore.OptionRecordUnknownFeatures),
	}
	d.linker.Classes = d.hintClass
	return d
}

func (d *decoder) decode(t map[string]any) error {
	contents, ok := t[KeyContents].([]any)
	if !ok && t[KeyContents] != nil {
		return fmt.Errorf("%w: %s must be a list", ecore.ErrInvalidValue, KeyContents)
	}
	for i, e := range contents {
		m, ok := e.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: root %d is no object", ecore.ErrInvalidValue, i)
		}
		o, err := d.object(m, nil)
		if err != nil {
			return err
		}
		if _, err := d.res.Contents().Add(o); err != nil {
			return err
		}
	}
	return d.linker.Link()
}

func (d *decoder) class(uri string) (*ecore.Class, error) {
	o, err := ecore.ResolveURI(d.res.ResourceSet(), ecore.URI(uri), false)
	if err != nil {
		return nil, err
	}
	c, ok := o.(*ecore.Class)
	if !ok {
		return nil, fmt.Errorf("%w: %s is no class", ecore.ErrInvalidValue, uri)
	}
	return c, nil
}

func (d *decoder) hintClass(hint string) *ecore.Class {
	c, err := d.class(hint)
	if err != nil {
		log.Debug("unknown type hint {{hint}}", "hint", hint, "error", err)
		return nil
	}
	return c
}

func (d *decoder) object(m map[string]any, f *ecore.Reference) (ecore.Object, error) {
	var c *ecore.Class
	if s, ok := m[KeyClass].(string); ok {
		var err error
		if c, err = d.class(s); err != nil {
			return nil, err
		}
	} else if f != nil {
		c = f.EReferenceType()
	}
	if c == nil || c.EPackage() == nil {
		return nil, fmt.Errorf("%w: object without %s", ecore.ErrInvalidValue, KeyClass)
	}
	o, err := c.EPackage().Factory().Create(c)
	if err != nil {
		return nil, err
	}
	if id, ok := m[KeyID].(string); ok {
		d.res.SetID(o, id)
	}
	for _, k := range maputils.OrderedKeys(m) {
		if k == KeyClass || k == KeyID {
			continue
		}
		sf := c.StructuralFeature(k)
		if sf == nil {
			if d.lenient {
				log.Debug("skipping unknown feature {{feature}} of {{class}}", "feature", k, "class", c.Name())
				continue
			}
			return nil, &ecore.FeatureError{Class: c.Name(), Feature: k, Err: ecore.ErrUnknownFeature}
		}
		if err := d.feature(o, sf, m[k]); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (d *decoder) feature(o ecore.Object, sf ecore.StructuralFeature, v any) error {
	vals := []any{v}
	if sf.IsMany() {
		l, ok := v.([]any)
		if !ok {
			return &ecore.FeatureError{Class: o.EClass().Name(), Feature: sf.Name(), Err: ecore.ErrMany}
		}
		vals = l
	}
	for _, e := range vals {
		if r, ok := sf.(*ecore.Reference); ok {
			m, ok := e.(map[string]any)
			if !ok {
				return &ecore.FeatureError{Class: o.EClass().Name(), Feature: sf.Name(), Err: ecore.ErrInvalidValue}
			}
			if !r.IsContainment() {
				token, _ := m[KeyRef].(string)
				if h, ok := m[KeyClass].(string); ok {
					token = h + " " + token
				}
				d.linker.Add(o, r, token)
				continue
			}
			n, err := d.object(m, r)
			if err != nil {
				return err
			}
			e = n
		}
		if err := ecore.AddValue(o, sf, e); err != nil {
			return err
		}
	}
	return nil
}
