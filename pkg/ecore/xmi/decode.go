package xmi

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mandelsoft/goutils/errors"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

type decoder struct {
	res     *ecore.Resource
	dec     *xml.Decoder
	linker  *ecore.Linker
	scopes  []map[string]string
	rootNS  map[string]string
	lenient bool
}

func (c *codec) Decode(rd io.Reader, r *ecore.Resource, opts ecore.Options) error {
	d := &decoder{
		res:     r,
		dec:     xml.NewDecoder(rd),
		linker:  ecore.NewLinker(r),
		lenient: opts.Bool(ecore.OptionRecordUnknownFeatures),
	}
	d.linker.Classes = d.hintClass

	var root xml.StartElement
	for {
		tok, err := d.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if se, ok := tok.(xml.StartElement); ok {
			root = se
			break
		}
	}

	d.push(root)
	d.rootNS = d.scopes[0]
	if isXMI(root.Name) {
	loop:
		for {
			tok, err := d.dec.Token()
			if err != nil {
				return err
			}
			switch t := tok.(type) {
			case xml.StartElement:
				d.push(t)
				if err := d.root(t); err != nil {
					return err
				}
			case xml.EndElement:
				d.pop()
				break loop
			}
		}
	} else {
		if err := d.root(root); err != nil {
			return err
		}
	}
	return d.linker.Link()
}

func isXMI(n xml.Name) bool {
	return n.Local == "XMI" && (n.Space == XMINamespace || n.Space == "xmi")
}

func (d *decoder) push(se xml.StartElement) {
	m := map[string]string{}
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "xmlns":
			m[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			m[""] = a.Value
		}
	}
	d.scopes = append(d.scopes, m)
}

func (d *decoder) pop() {
	d.scopes = d.scopes[:len(d.scopes)-1]
}

func (d *decoder) namespace(prefix string) string {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if ns, ok := d.scopes[i][prefix]; ok {
			return ns
		}
	}
	return ""
}

func (d *decoder) pkg(nsURI string) (*ecore.Package, error) {
	p := d.res.PackageRegistry().Get(nsURI)
	if p == nil {
		return nil, errors.Wrapf(ecore.ErrUnknownPackage, "%q", nsURI)
	}
	return p, nil
}

// class resolves a qualified class name (prefix:Name).
func (d *decoder) class(qname string) (*ecore.Class, error) {
	prefix, name, ok := strings.Cut(qname, ":")
	if !ok {
		prefix, name = "", qname
	}
	p, err := d.pkg(d.namespace(prefix))
	if err != nil {
		return nil, err
	}
	c := p.Class(name)
	if c == nil {
		return nil, fmt.Errorf("%w: class %q in package %q", ecore.ErrNotFound, name, p.NsURI())
	}
	return c, nil
}

// hintClass resolves type hints of references. Hints are resolved
// after the document has been read, so the prefix is looked up in the
// namespaces of the root element and the package registry.
func (d *decoder) hintClass(hint string) *ecore.Class {
	prefix, name, ok := strings.Cut(hint, ":")
	if !ok {
		return nil
	}
	p := d.res.PackageRegistry().Get(d.rootNS[prefix])
	if p == nil {
		p = d.res.PackageRegistry().Lookup(prefix)
	}
	if p == nil {
		log.Debug("unknown type hint {{hint}}", "hint", hint)
		return nil
	}
	return p.Class(name)
}

func special(a xml.Attr) bool {
	switch a.Name.Space {
	case "xmlns", XMINamespace, XSINamespace, "xmi", "xsi":
		return true
	case "":
		return a.Name.Local == "xmlns"
	}
	return false
}

func lookup(se xml.StartElement, space, local string) (string, bool) {
	short := map[string]string{XMINamespace: "xmi", XSINamespace: "xsi"}[space]
	for _, a := range se.Attr {
		if a.Name.Local == local && (a.Name.Space == space || a.Name.Space == short) {
			return a.Value, true
		}
	}
	return "", false
}

func (d *decoder) root(se xml.StartElement) error {
	var (
		c   *ecore.Class
		err error
	)
	if t, ok := lookup(se, XSINamespace, "type"); ok {
		c, err = d.class(t)
	} else {
		var p *ecore.Package
		p, err = d.pkg(se.Name.Space)
		if err == nil {
			if c = p.Class(se.Name.Local); c == nil {
				err = fmt.Errorf("%w: class %q in package %q", ecore.ErrNotFound, se.Name.Local, p.NsURI())
			}
		}
	}
	if err != nil {
		return err
	}
	o, err := c.EPackage().Factory().Create(c)
	if err != nil {
		return err
	}
	if _, err := d.res.Contents().Add(o); err != nil {
		return err
	}
	return d.content(o, se)
}

// content decodes attributes and nested elements of an object element.
// The element's end is consumed.
func (d *decoder) content(o ecore.Object, se xml.StartElement) error {
	if id, ok := lookup(se, XMINamespace, "id"); ok {
		d.res.SetID(o, id)
	}
	for _, a := range se.Attr {
		if special(a) {
			continue
		}
		f := o.EClass().StructuralFeature(a.Name.Local)
		if f == nil {
			if err := d.unknown(o, a.Name.Local); err != nil {
				return err
			}
			continue
		}
		switch t := f.(type) {
		case *ecore.Attribute:
			vals := []string{a.Value}
			if t.IsMany() {
				vals = strings.Fields(a.Value)
			}
			for _, s := range vals {
				if err := d.setValue(o, t, s); err != nil {
					return err
				}
			}
		case *ecore.Reference:
			if err := d.checkReference(o, t); err != nil {
				return err
			}
			d.linker.AddList(o, t, a.Value)
		}
	}

	for {
		tok, err := d.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			d.pop()
			return nil
		case xml.StartElement:
			d.push(t)
			if err := d.child(o, t); err != nil {
				return err
			}
		}
	}
}

func (d *decoder) child(o ecore.Object, se xml.StartElement) error {
	f := o.EClass().StructuralFeature(se.Name.Local)
	if f == nil {
		if err := d.unknown(o, se.Name.Local); err != nil {
			return err
		}
		return d.skip()
	}
	switch t := f.(type) {
	case *ecore.Attribute:
		s, err := d.text()
		if err != nil {
			return err
		}
		return d.setValue(o, t, s)
	case *ecore.Reference:
		if href, ok := lookup(se, "", "href"); ok {
			if err := d.checkReference(o, t); err != nil {
				return err
			}
			if h, ok := lookup(se, XSINamespace, "type"); ok {
				href = h + " " + href
			}
			d.linker.Add(o, t, href)
			return d.skip()
		}
		if !t.IsContainment() {
			return fmt.Errorf("%w: reference %q without href", ecore.ErrInvalidValue, t.Name())
		}
		c := t.EReferenceType()
		if h, ok := lookup(se, XSINamespace, "type"); ok {
			var err error
			if c, err = d.class(h); err != nil {
				return err
			}
		}
		if c == nil || c.EPackage() == nil {
			return fmt.Errorf("%w: no type for %q", ecore.ErrInvalidValue, t.Name())
		}
		n, err := c.EPackage().Factory().Create(c)
		if err != nil {
			return err
		}
		if err := ecore.AddValue(o, t, n); err != nil {
			return err
		}
		return d.content(n, se)
	}
	return d.skip()
}

func (d *decoder) checkReference(o ecore.Object, r *ecore.Reference) error {
	if r.IsContainment() {
		return errors.Newf("containment %q of class %q given as reference", r.Name(), o.EClass().Name())
	}
	return nil
}

func (d *decoder) setValue(o ecore.Object, a *ecore.Attribute, s string) error {
	var (
		v   any
		err error
	)
	switch t := a.EType().(type) {
	case *ecore.Enum:
		v, err = t.ParseValue(s)
	case *ecore.DataType:
		v, err = t.ParseValue(s)
	default:
		v = s
	}
	if err != nil {
		return err
	}
	return ecore.AddValue(o, a, v)
}

func (d *decoder) unknown(o ecore.Object, name string) error {
	if d.lenient {
		log.Debug("skipping unknown feature {{feature}} of {{class}}", "feature", name, "class", o.EClass().Name())
		return nil
	}
	return &ecore.FeatureError{Class: o.EClass().Name(), Feature: name, Err: ecore.ErrUnknownFeature}
}

// text reads the character data of an element and consumes its end.
func (d *decoder) text() (string, error) {
	var b strings.Builder
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			d.push(t)
			if err := d.skip(); err != nil {
				return "", err
			}
		case xml.EndElement:
			d.pop()
			return b.String(), nil
		}
	}
}

func (d *decoder) skip() error {
	d.pop()
	return d.dec.Skip()
}
