package xmi

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mandelsoft/goutils/errors"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

type encoder struct {
	res      *ecore.Resource
	enc      *xml.Encoder
	prefixes map[*ecore.Package]string
	used     map[string]*ecore.Package
	order    []*ecore.Package
}

func (c *codec) Encode(w io.Writer, r *ecore.Resource, opts ecore.Options) error {
	if opts.Bool(ecore.OptionUseUUIDs) {
		for _, o := range r.AllContents() {
			if r.ID(o) == "" {
				r.SetID(o, uuid.NewString())
			}
		}
	}

	e := &encoder{
		res:      r,
		prefixes: map[*ecore.Package]string{},
		used:     map[string]*ecore.Package{},
	}
	e.collect()

	encoding := opts.String(ecore.OptionEncoding, "UTF-8")
	_, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", encoding)
	if err != nil {
		return err
	}
	e.enc = xml.NewEncoder(w)
	e.enc.Indent("", opts.String(ecore.OptionIndent, "  "))

	roots := r.Contents().Objects()
	if len(roots) == 1 {
		err = e.object(roots[0], e.qname(roots[0].EClass()), nil, true)
	} else {
		start := xml.StartElement{Name: xml.Name{Local: "xmi:XMI"}, Attr: e.header()}
		err = e.enc.EncodeToken(start)
		for _, o := range roots {
			if err != nil {
				break
			}
			err = e.object(o, e.qname(o.EClass()), nil, false)
		}
		if err == nil {
			err = e.enc.EncodeToken(start.End())
		}
	}
	if err == nil {
		err = e.enc.Flush()
	}
	if err == nil {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// collect determines the packages whose prefixes are required by the
// document.
func (e *encoder) collect() {
	for _, o := range e.res.AllContents() {
		e.prefix(o.EClass())
		for _, f := range o.EClass().AllReferences() {
			if f.IsContainment() || f.IsContainer() || f.IsTransient() || !o.EIsSet(f) {
				continue
			}
			for _, t := range values(o, f) {
				if t, ok := t.(ecore.Object); ok {
					if _, local, err := ecore.ReferenceURI(e.res, t); err == nil && !local {
						e.prefix(t.EClass())
					}
				}
			}
		}
	}
}

func (e *encoder) prefix(c *ecore.Class) string {
	if c == nil || c.EPackage() == nil {
		return ""
	}
	p := c.EPackage()
	if n, ok := e.prefixes[p]; ok {
		return n
	}
	base := p.NsPrefix()
	if base == "" {
		base = p.Name()
	}
	n := base
	for i := 1; e.used[n] != nil || n == "xmi" || n == "xsi"; i++ {
		n = base + strconv.Itoa(i)
	}
	e.prefixes[p] = n
	e.used[n] = p
	e.order = append(e.order, p)
	return n
}

func (e *encoder) qname(c *ecore.Class) string {
	p := e.prefix(c)
	if p == "" {
		return c.Name()
	}
	return p + ":" + c.Name()
}

func (e *encoder) header() []xml.Attr {
	attrs := []xml.Attr{
		attr("xmi:version", Version),
		attr("xmlns:xmi", XMINamespace),
		attr("xmlns:xsi", XSINamespace),
	}
	for _, p := range e.order {
		attrs = append(attrs, attr("xmlns:"+e.prefixes[p], p.NsURI()))
	}
	return attrs
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func values(o ecore.Object, f ecore.StructuralFeature) []any {
	v := o.EGet(f)
	if l, ok := v.(*ecore.List); ok {
		return l.Values()
	}
	if v == nil {
		return nil
	}
	return []any{v}
}

func (e *encoder) object(o ecore.Object, name string, f *ecore.Reference, root bool) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if root {
		start.Attr = e.header()
	}
	if f != nil && o.EClass() != f.EReferenceType() {
		start.Attr = append(start.Attr, attr("xsi:type", e.qname(o.EClass())))
	}
	if id := e.explicitID(o); id != "" {
		start.Attr = append(start.Attr, attr("xmi:id", id))
	}

	var children []ecore.StructuralFeature
	for _, sf := range o.EClass().AllStructuralFeatures() {
		if sf.IsTransient() || !o.EIsSet(sf) {
			continue
		}
		switch t := sf.(type) {
		case *ecore.Attribute:
			if t.IsMany() {
				children = append(children, t)
				continue
			}
			s, err := format(t, o.EGet(t))
			if err != nil {
				return err
			}
			start.Attr = append(start.Attr, attr(t.Name(), s))
		case *ecore.Reference:
			if t.IsContainer() {
				continue
			}
			if t.IsContainment() {
				children = append(children, t)
				continue
			}
			tokens, local, err := e.tokens(o, t, values(o, t))
			if err != nil {
				return err
			}
			if !local {
				children = append(children, t)
				continue
			}
			start.Attr = append(start.Attr, attr(t.Name(), strings.Join(tokens, " ")))
		}
	}

	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}
	for _, sf := range children {
		for _, v := range values(o, sf) {
			var err error
			switch t := sf.(type) {
			case *ecore.Attribute:
				err = e.text(t, v)
			case *ecore.Reference:
				if t.IsContainment() {
					err = e.object(v.(ecore.Object), t.Name(), t, false)
				} else {
					err = e.href(o, t, v.(ecore.Object))
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return e.enc.EncodeToken(start.End())
}

func (e *encoder) text(a *ecore.Attribute, v any) error {
	s, err := format(a, v)
	if err != nil {
		return err
	}
	start := xml.StartElement{Name: xml.Name{Local: a.Name()}}
	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}
	if err := e.enc.EncodeToken(xml.CharData(s)); err != nil {
		return err
	}
	return e.enc.EncodeToken(start.End())
}

// tokens provides the fragments of local reference targets. If any
// target is located in another document, local is false and the
// references must be written as href elements.
func (e *encoder) tokens(o ecore.Object, r *ecore.Reference, targets []any) ([]string, bool, error) {
	var tokens []string
	for _, v := range targets {
		uri, local, err := ecore.ReferenceURI(e.res, v.(ecore.Object))
		if err != nil {
			return nil, false, &ecore.FeatureError{Class: o.EClass().Name(), Feature: r.Name(), Err: err}
		}
		if !local {
			return nil, false, nil
		}
		tokens = append(tokens, uri.String())
	}
	return tokens, true, nil
}

// href writes a reference as element. References to other documents
// carry a type hint.
func (e *encoder) href(owner ecore.Object, r *ecore.Reference, o ecore.Object) error {
	uri, local, err := ecore.ReferenceURI(e.res, o)
	if err != nil {
		return &ecore.FeatureError{Class: owner.EClass().Name(), Feature: r.Name(), Err: err}
	}
	start := xml.StartElement{Name: xml.Name{Local: r.Name()}}
	if local {
		start.Attr = append(start.Attr, attr("href", "#"+uri.String()))
	} else {
		start.Attr = append(start.Attr, attr("xsi:type", e.qname(o.EClass())), attr("href", uri.String()))
	}
	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}
	return e.enc.EncodeToken(start.End())
}

// explicitID provides the ID of objects without ID attribute.
func (e *encoder) explicitID(o ecore.Object) string {
	if o.EClass().IDAttribute() != nil {
		return ""
	}
	return e.res.ID(o)
}

func format(a *ecore.Attribute, v any) (string, error) {
	switch t := a.EType().(type) {
	case *ecore.Enum:
		return t.FormatValue(v)
	case *ecore.DataType:
		return t.FormatValue(v)
	}
	return "", errors.Newf("attribute %q has no data type", a.Name())
}
