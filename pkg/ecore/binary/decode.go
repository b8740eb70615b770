package binary

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/mandelsoft/goutils/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

var ErrFormat = fmt.Errorf("invalid binary resource format")

type field struct {
	num protowire.Number
	typ protowire.Type
	v   uint64
	b   []byte
}

func parse(b []byte) ([]field, error) {
	var r []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %s", ErrFormat, protowire.ParseError(n))
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.v, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.v, n = protowire.ConsumeFixed64(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.v = uint64(v)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %s", ErrFormat, protowire.ParseError(n))
		}
		b = b[n:]
		r = append(r, f)
	}
	return r, nil
}

type decoder struct {
	res     *ecore.Resource
	linker  *ecore.Linker
	pkgs    []*ecore.Package
	classes []*ecore.Class
	lenient bool
}

func (c *codec) Decode(rd io.Reader, r *ecore.Resource, opts ecore.Options) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if !bytes.HasPrefix(data, []byte(Magic)) {
		return fmt.Errorf("%w: missing header", ErrFormat)
	}
	data = data[len(Magic):]
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return fmt.Errorf("%w: missing version", ErrFormat)
	}
	if v != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrFormat, v)
	}

	fields, err := parse(data[n:])
	if err != nil {
		return err
	}
	d := &decoder{
		res:     r,
		linker:  ecore.NewLinker(r),
		lenient: opts.Bool(ecore.OptionRecordUnknownFeatures),
	}
	d.linker.Classes = d.hintClass

	for _, f := range fields {
		switch f.num {
		case fieldPackage:
			p := r.PackageRegistry().Get(string(f.b))
			if p == nil {
				return errors.Wrapf(ecore.ErrUnknownPackage, "%q", string(f.b))
			}
			d.pkgs = append(d.pkgs, p)
		case fieldClass:
			c, err := d.class(f.b)
			if err != nil {
				return err
			}
			d.classes = append(d.classes, c)
		case fieldRoot:
			o, err := d.object(f.b)
			if err != nil {
				return err
			}
			if _, err := r.Contents().Add(o); err != nil {
				return err
			}
		}
	}
	return d.linker.Link()
}

func (d *decoder) hintClass(hint string) *ecore.Class {
	i, err := strconv.Atoi(hint)
	if err != nil || i < 0 || i >= len(d.classes) {
		return nil
	}
	return d.classes[i]
}

func (d *decoder) class(b []byte) (*ecore.Class, error) {
	fields, err := parse(b)
	if err != nil {
		return nil, err
	}
	var (
		pkg  *ecore.Package
		name string
	)
	for _, f := range fields {
		switch f.num {
		case fieldClassPackage:
			if int(f.v) >= len(d.pkgs) {
				return nil, fmt.Errorf("%w: invalid package index %d", ErrFormat, f.v)
			}
			pkg = d.pkgs[f.v]
		case fieldClassName:
			name = string(f.b)
		}
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: class %q without package", ErrFormat, name)
	}
	c := pkg.Class(name)
	if c == nil {
		return nil, fmt.Errorf("%w: class %q in package %q", ecore.ErrNotFound, name, pkg.NsURI())
	}
	return c, nil
}

func (d *decoder) object(b []byte) (ecore.Object, error) {
	fields, err := parse(b)
	if err != nil {
		return nil, err
	}
	var o ecore.Object
	for _, f := range fields {
		switch f.num {
		case fieldObjectClass:
			if int(f.v) >= len(d.classes) {
				return nil, fmt.Errorf("%w: invalid class index %d", ErrFormat, f.v)
			}
			c := d.classes[f.v]
			o, err = c.EPackage().Factory().Create(c)
			if err != nil {
				return nil, err
			}
		case fieldObjectID:
			if o == nil {
				return nil, fmt.Errorf("%w: object without class", ErrFormat)
			}
			d.res.SetID(o, string(f.b))
		case fieldObjectSlot:
			if o == nil {
				return nil, fmt.Errorf("%w: object without class", ErrFormat)
			}
			if err := d.slot(o, f.b); err != nil {
				return nil, err
			}
		}
	}
	if o == nil {
		return nil, fmt.Errorf("%w: object without class", ErrFormat)
	}
	return o, nil
}

func (d *decoder) slot(o ecore.Object, b []byte) error {
	fields, err := parse(b)
	if err != nil {
		return err
	}
	var feature ecore.StructuralFeature
	for _, f := range fields {
		if f.num == fieldSlotFeature {
			feature = o.EClass().StructuralFeature(string(f.b))
			if feature == nil {
				if d.lenient {
					log.Debug("skipping unknown feature {{feature}} of {{class}}", "feature", string(f.b), "class", o.EClass().Name())
					return nil
				}
				return &ecore.FeatureError{Class: o.EClass().Name(), Feature: string(f.b), Err: ecore.ErrUnknownFeature}
			}
			continue
		}
		if feature == nil {
			return fmt.Errorf("%w: slot without feature", ErrFormat)
		}
		var v any
		switch f.num {
		case fieldValueObject:
			v, err = d.object(f.b)
		case fieldValueRef:
			r, ok := feature.(*ecore.Reference)
			if !ok {
				return fmt.Errorf("%w: reference value for attribute %q", ErrFormat, feature.Name())
			}
			err = d.reference(o, r, f.b)
			if err != nil {
				return err
			}
			continue
		default:
			v, err = d.value(feature, f)
		}
		if err != nil {
			return err
		}
		if err := ecore.AddValue(o, feature, v); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) reference(o ecore.Object, r *ecore.Reference, b []byte) error {
	fields, err := parse(b)
	if err != nil {
		return err
	}
	hint := ""
	uri := ""
	for _, f := range fields {
		switch f.num {
		case fieldRefClass:
			hint = strconv.FormatUint(f.v, 10)
		case fieldRefURI:
			uri = string(f.b)
		}
	}
	if hint != "" {
		uri = hint + " " + uri
	}
	d.linker.Add(o, r, uri)
	return nil
}

func (d *decoder) value(feature ecore.StructuralFeature, f field) (any, error) {
	switch f.num {
	case fieldValueString:
		if t, ok := feature.EType().(*ecore.DataType); ok {
			if t.Kind() == ecore.KindString || t.Kind() == ecore.KindAny {
				return string(f.b), nil
			}
			return t.ParseValue(string(f.b))
		}
		return string(f.b), nil
	case fieldValueEnum:
		t, ok := feature.EType().(*ecore.Enum)
		if !ok {
			return nil, fmt.Errorf("%w: enum value for %q", ErrFormat, feature.Name())
		}
		return t.ParseValue(string(f.b))
	case fieldValueInt:
		return protowire.DecodeZigZag(f.v), nil
	case fieldValueBool:
		return protowire.DecodeBool(f.v), nil
	case fieldValueDouble:
		return math.Float64frombits(f.v), nil
	case fieldValueFloat:
		return math.Float32frombits(uint32(f.v)), nil
	case fieldValueDate:
		return decodeDate(f.b)
	}
	return nil, fmt.Errorf("%w: unknown value field %d", ErrFormat, f.num)
}

func decodeDate(b []byte) (time.Time, error) {
	fields, err := parse(b)
	if err != nil {
		return time.Time{}, err
	}
	var sec, off int64
	var nsec uint64
	for _, f := range fields {
		switch f.num {
		case fieldDateSeconds:
			sec = protowire.DecodeZigZag(f.v)
		case fieldDateNanos:
			nsec = f.v
		case fieldDateOffset:
			off = protowire.DecodeZigZag(f.v)
		}
	}
	if nsec >= uint64(time.Second) {
		return time.Time{}, fmt.Errorf("%w: invalid date nanos %d", ErrFormat, nsec)
	}
	t := time.Unix(sec, int64(nsec))
	if off == 0 {
		return t.UTC(), nil
	}
	return t.In(time.FixedZone("", int(off))), nil
}
