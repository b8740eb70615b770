package binary

import (
	"io"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mandelsoft/goutils/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

type encoder struct {
	res      *ecore.Resource
	pkgs     []*ecore.Package
	pkgIdx   map[*ecore.Package]int
	classes  []*ecore.Class
	classIdx map[*ecore.Class]int
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
		pkgIdx:   map[*ecore.Package]int{},
		classIdx: map[*ecore.Class]int{},
	}
	if err := e.collect(); err != nil {
		return err
	}

	var doc []byte
	for _, p := range e.pkgs {
		doc = protowire.AppendTag(doc, fieldPackage, protowire.BytesType)
		doc = protowire.AppendString(doc, p.NsURI())
	}
	for _, c := range e.classes {
		var m []byte
		m = protowire.AppendTag(m, fieldClassPackage, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(e.pkgIdx[c.EPackage()]))
		m = protowire.AppendTag(m, fieldClassName, protowire.BytesType)
		m = protowire.AppendString(m, c.Name())
		doc = protowire.AppendTag(doc, fieldClass, protowire.BytesType)
		doc = protowire.AppendBytes(doc, m)
	}
	for _, o := range r.Contents().Objects() {
		m, err := e.object(o)
		if err != nil {
			return err
		}
		doc = protowire.AppendTag(doc, fieldRoot, protowire.BytesType)
		doc = protowire.AppendBytes(doc, m)
	}

	buf := append([]byte(Magic), protowire.AppendVarint(nil, FormatVersion)...)
	_, err := w.Write(append(buf, doc...))
	return err
}

func (e *encoder) collect() error {
	for _, o := range e.res.AllContents() {
		if err := e.class(o.EClass()); err != nil {
			return err
		}
		for _, f := range o.EClass().AllReferences() {
			if f.IsContainment() || f.IsContainer() || f.IsTransient() || !o.EIsSet(f) {
				continue
			}
			for _, t := range values(o, f) {
				if err := e.class(t.(ecore.Object).EClass()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *encoder) class(c *ecore.Class) error {
	if _, ok := e.classIdx[c]; ok {
		return nil
	}
	if c == nil || c.EPackage() == nil {
		return errors.Newf("class %s has no package", c)
	}
	p := c.EPackage()
	if _, ok := e.pkgIdx[p]; !ok {
		e.pkgIdx[p] = len(e.pkgs)
		e.pkgs = append(e.pkgs, p)
	}
	e.classIdx[c] = len(e.classes)
	e.classes = append(e.classes, c)
	return nil
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

func (e *encoder) object(o ecore.Object) ([]byte, error) {
	var m []byte
	m = protowire.AppendTag(m, fieldObjectClass, protowire.VarintType)
	m = protowire.AppendVarint(m, uint64(e.classIdx[o.EClass()]))
	if o.EClass().IDAttribute() == nil {
		if id := e.res.ID(o); id != "" {
			m = protowire.AppendTag(m, fieldObjectID, protowire.BytesType)
			m = protowire.AppendString(m, id)
		}
	}
	for _, f := range o.EClass().AllStructuralFeatures() {
		if f.IsTransient() || !o.EIsSet(f) {
			continue
		}
		if r, ok := f.(*ecore.Reference); ok && r.IsContainer() {
			continue
		}
		slot, err := e.slot(o, f)
		if err != nil {
			return nil, err
		}
		m = protowire.AppendTag(m, fieldObjectSlot, protowire.BytesType)
		m = protowire.AppendBytes(m, slot)
	}
	return m, nil
}

func (e *encoder) slot(o ecore.Object, f ecore.StructuralFeature) ([]byte, error) {
	var m []byte
	m = protowire.AppendTag(m, fieldSlotFeature, protowire.BytesType)
	m = protowire.AppendString(m, f.Name())
	for _, v := range values(o, f) {
		var err error
		switch t := f.(type) {
		case *ecore.Attribute:
			m, err = e.value(m, t, v)
		case *ecore.Reference:
			if t.IsContainment() {
				var n []byte
				n, err = e.object(v.(ecore.Object))
				m = protowire.AppendTag(m, fieldValueObject, protowire.BytesType)
				m = protowire.AppendBytes(m, n)
			} else {
				target := v.(ecore.Object)
				var uri ecore.URI
				uri, _, err = ecore.ReferenceURI(e.res, target)
				if err != nil {
					return nil, &ecore.FeatureError{Class: o.EClass().Name(), Feature: f.Name(), Err: err}
				}
				var n []byte
				n = protowire.AppendTag(n, fieldRefClass, protowire.VarintType)
				n = protowire.AppendVarint(n, uint64(e.classIdx[target.EClass()]))
				n = protowire.AppendTag(n, fieldRefURI, protowire.BytesType)
				n = protowire.AppendString(n, uri.String())
				m = protowire.AppendTag(m, fieldValueRef, protowire.BytesType)
				m = protowire.AppendBytes(m, n)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (e *encoder) value(m []byte, a *ecore.Attribute, v any) ([]byte, error) {
	switch t := a.EType().(type) {
	case *ecore.Enum:
		s, err := t.FormatValue(v)
		if err != nil {
			return nil, err
		}
		m = protowire.AppendTag(m, fieldValueEnum, protowire.BytesType)
		return protowire.AppendString(m, s), nil
	case *ecore.DataType:
		switch t.Kind() {
		case ecore.KindInt, ecore.KindLong, ecore.KindShort, ecore.KindByte, ecore.KindChar:
			i, ok := toInt64(v)
			if !ok {
				return nil, errors.Newf("invalid value %v for attribute %q", v, a.Name())
			}
			m = protowire.AppendTag(m, fieldValueInt, protowire.VarintType)
			return protowire.AppendVarint(m, protowire.EncodeZigZag(i)), nil
		case ecore.KindBool:
			m = protowire.AppendTag(m, fieldValueBool, protowire.VarintType)
			b, _ := v.(bool)
			return protowire.AppendVarint(m, protowire.EncodeBool(b)), nil
		case ecore.KindDouble:
			f, _ := v.(float64)
			m = protowire.AppendTag(m, fieldValueDouble, protowire.Fixed64Type)
			return protowire.AppendFixed64(m, math.Float64bits(f)), nil
		case ecore.KindFloat:
			f, _ := v.(float32)
			m = protowire.AppendTag(m, fieldValueFloat, protowire.Fixed32Type)
			return protowire.AppendFixed32(m, math.Float32bits(f)), nil
		case ecore.KindDate:
			d, _ := v.(time.Time)
			m = protowire.AppendTag(m, fieldValueDate, protowire.BytesType)
			return protowire.AppendBytes(m, encodeDate(d)), nil
		default:
			s, err := t.FormatValue(v)
			if err != nil {
				return nil, err
			}
			m = protowire.AppendTag(m, fieldValueString, protowire.BytesType)
			return protowire.AppendString(m, s), nil
		}
	}
	return nil, errors.Newf("attribute %q has no data type", a.Name())
}

func toInt64(v any) (int64, bool) {
	switch e := v.(type) {
	case int:
		return int64(e), true
	case int64:
		return e, true
	case int16:
		return int64(e), true
	case int8:
		return int64(e), true
	case int32:
		return int64(e), true
	}
	return 0, false
}

func encodeDate(d time.Time) []byte {
	_, off := d.Zone()
	m := protowire.AppendTag(nil, fieldDateSeconds, protowire.VarintType)
	m = protowire.AppendVarint(m, protowire.EncodeZigZag(d.Unix()))
	if d.Nanosecond() != 0 {
		m = protowire.AppendTag(m, fieldDateNanos, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(d.Nanosecond()))
	}
	if off != 0 {
		m = protowire.AppendTag(m, fieldDateOffset, protowire.VarintType)
		m = protowire.AppendVarint(m, protowire.EncodeZigZag(int64(off)))
	}
	return m
}
