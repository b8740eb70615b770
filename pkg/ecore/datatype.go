package ecore

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

// Kind describes the Go representation of data type values.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindLong
	KindShort
	KindByte
	KindBool
	KindDouble
	KindFloat
	KindChar
	KindDate
)

var kindNames = map[Kind]string{
	KindAny:    "any",
	KindString: "string",
	KindInt:    "int",
	KindLong:   "int64",
	KindShort:  "int16",
	KindByte:   "int8",
	KindBool:   "bool",
	KindDouble: "float64",
	KindFloat:  "float32",
	KindChar:   "rune",
	KindDate:   "time.Time",
}

func (k Kind) String() string {
	return kindNames[k]
}

type kindInfo struct {
	kind      Kind
	primitive bool
}

// instanceClasses maps instance class names to kinds. Primitive
// types have a zero value as default, the others default to nil.
var instanceClasses = map[string]kindInfo{
	"java.lang.String":    {KindString, false},
	"string":              {KindString, false},
	"int":                 {KindInt, true},
	"java.lang.Integer":   {KindInt, false},
	"long":                {KindLong, true},
	"int64":               {KindLong, true},
	"java.lang.Long":      {KindLong, false},
	"short":               {KindShort, true},
	"int16":               {KindShort, true},
	"java.lang.Short":     {KindShort, false},
	"byte":                {KindByte, true},
	"int8":                {KindByte, true},
	"java.lang.Byte":      {KindByte, false},
	"boolean":             {KindBool, true},
	"bool":                {KindBool, true},
	"java.lang.Boolean":   {KindBool, false},
	"double":              {KindDouble, true},
	"float64":             {KindDouble, true},
	"java.lang.Double":    {KindDouble, false},
	"float":               {KindFloat, true},
	"float32":             {KindFloat, true},
	"java.lang.Float":     {KindFloat, false},
	"char":                {KindChar, true},
	"rune":                {KindChar, true},
	"java.lang.Character": {KindChar, false},
	"java.util.Date":      {KindDate, false},
	"time.Time":           {KindDate, false},
	"java.lang.Object":    {KindAny, false},
	"any":                 {KindAny, false},
}

// DataType is a classifier for plain data values.
type DataType struct {
	classifier
}

var _ Classifier = (*DataType)(nil)

func newDataType() *DataType {
	d := &DataType{}
	d.Init(d, metaDataType)
	return d
}

func (d *DataType) info() kindInfo {
	if i, ok := instanceClasses[d.InstanceClassName()]; ok {
		return i
	}
	return kindInfo{KindString, false}
}

// Kind provides the Go representation of the values. Unknown instance
// classes are represented as strings.
func (d *DataType) Kind() Kind {
	return d.info().kind
}

func (d *DataType) IsPrimitive() bool {
	return d.info().primitive
}

// DefaultValue provides the zero value for primitive types and nil
// otherwise.
func (d *DataType) DefaultValue() any {
	i := d.info()
	if !i.primitive {
		return nil
	}
	switch i.kind {
	case KindInt:
		return 0
	case KindLong:
		return int64(0)
	case KindShort:
		return int16(0)
	case KindByte:
		return int8(0)
	case KindBool:
		return false
	case KindDouble:
		return float64(0)
	case KindFloat:
		return float32(0)
	case KindChar:
		return rune(0)
	}
	return nil
}

func (d *DataType) IsInstance(v any) bool {
	if v == nil {
		return !d.IsPrimitive()
	}
	switch d.Kind() {
	case KindAny:
		return true
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		i, ok := v.(int)
		return ok && i >= math.MinInt32 && i <= math.MaxInt32
	case KindLong:
		_, ok := v.(int64)
		return ok
	case KindShort:
		_, ok := v.(int16)
		return ok
	case KindByte:
		_, ok := v.(int8)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindDouble:
		_, ok := v.(float64)
		return ok
	case KindFloat:
		_, ok := v.(float32)
		return ok
	case KindChar:
		_, ok := v.(rune)
		return ok
	case KindDate:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}

// ParseValue converts the string representation into a value.
func (d *DataType) ParseValue(s string) (any, error) {
	var (
		v   any
		err error
	)
	switch d.Kind() {
	case KindAny, KindString:
		return s, nil
	case KindInt:
		var i int64
		i, err = strconv.ParseInt(s, 10, 32)
		v = int(i)
	case KindLong:
		v, err = strconv.ParseInt(s, 10, 64)
	case KindShort:
		var i int64
		i, err = strconv.ParseInt(s, 10, 16)
		v = int16(i)
	case KindByte:
		var i int64
		i, err = strconv.ParseInt(s, 10, 8)
		v = int8(i)
	case KindBool:
		v, err = strconv.ParseBool(s)
	case KindDouble:
		v, err = strconv.ParseFloat(s, 64)
	case KindFloat:
		var f float64
		f, err = strconv.ParseFloat(s, 32)
		v = float32(f)
	case KindChar:
		r, n := utf8.DecodeRuneInString(s)
		if n == 0 || n != len(s) {
			i, perr := strconv.ParseInt(s, 10, 32)
			if perr != nil {
				return nil, fmt.Errorf("%w: %q is no character", ErrInvalidValue, s)
			}
			r = rune(i)
		}
		v = r
	case KindDate:
		v, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q for data type %s: %s", ErrInvalidValue, s, d.Name(), err)
	}
	return v, nil
}

// FormatValue provides the string representation of a value.
func (d *DataType) FormatValue(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	switch e := v.(type) {
	case string:
		return e, nil
	case bool:
		return strconv.FormatBool(e), nil
	case int:
		return strconv.Itoa(e), nil
	case int64:
		return strconv.FormatInt(e, 10), nil
	case int16:
		return strconv.FormatInt(int64(e), 10), nil
	case int8:
		return strconv.FormatInt(int64(e), 10), nil
	case rune:
		return string(e), nil
	case float64:
		return strconv.FormatFloat(e, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(e), 'g', -1, 32), nil
	case time.Time:
		return e.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return e.String(), nil
	}
	return fmt.Sprintf("%v", v), nil
}

// Coerce converts a value into the Go representation of the data type.
// Numeric values are converted if they fit, strings are parsed.
func (d *DataType) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	k := d.Kind()
	if k == KindAny || d.IsInstance(v) {
		return v, nil
	}
	if s, ok := v.(string); ok {
		return d.ParseValue(s)
	}
	switch k {
	case KindInt:
		if i, ok := toInt64(v); ok && i >= math.MinInt32 && i <= math.MaxInt32 {
			return int(i), nil
		}
	case KindLong:
		if i, ok := toInt64(v); ok {
			return i, nil
		}
	case KindShort:
		if i, ok := toInt64(v); ok && i >= math.MinInt16 && i <= math.MaxInt16 {
			return int16(i), nil
		}
	case KindByte:
		if i, ok := toInt64(v); ok && i >= math.MinInt8 && i <= math.MaxInt8 {
			return int8(i), nil
		}
	case KindChar:
		if i, ok := toInt64(v); ok && i >= 0 && i <= utf8.MaxRune {
			return rune(i), nil
		}
	case KindDouble:
		if f, ok := toFloat64(v); ok {
			return f, nil
		}
	case KindFloat:
		if f, ok := toFloat64(v); ok {
			return float32(f), nil
		}
	}
	return nil, fmt.Errorf("%w: %T(%v) for data type %s", ErrInvalidValue, v, v, d.Name())
}

func toInt64(v any) (int64, bool) {
	switch e := v.(type) {
	case int:
		return int64(e), true
	case int8:
		return int64(e), true
	case int16:
		return int64(e), true
	case int32:
		return int64(e), true
	case int64:
		return e, true
	case uint:
		return int64(e), e <= math.MaxInt64
	case uint8:
		return int64(e), true
	case uint16:
		return int64(e), true
	case uint32:
		return int64(e), true
	case uint64:
		return int64(e), e <= math.MaxInt64
	case float32:
		return int64(e), float32(int64(e)) == e
	case float64:
		return int64(e), float64(int64(e)) == e
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch e := v.(type) {
	case float32:
		return float64(e), true
	case float64:
		return e, true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

////////////////////////////////////////////////////////////////////////////////

// Enum is a data type with a fixed set of literals. Values of enum
// attributes are *EnumLiteral.
type Enum struct {
	DataType
}

var _ Classifier = (*Enum)(nil)

func newEnum() *Enum {
	e := &Enum{}
	e.Init(e, metaEnum)
	return e
}

func (e *Enum) ELiterals() []*EnumLiteral {
	var r []*EnumLiteral
	for _, o := range e.list(featLiterals).Objects() {
		if l, ok := o.(*EnumLiteral); ok {
			r = append(r, l)
		}
	}
	return r
}

// AddLiteral adds a new literal with the given name and value.
func (e *Enum) AddLiteral(name string, value int) *Enum {
	l := newEnumLiteral()
	l.put(featName, name)
	l.put(featValue, value)
	e.containRaw(featLiterals, l)
	return e
}

// Literal provides the literal with the given name, or nil.
func (e *Enum) Literal(name string) *EnumLiteral {
	for _, l := range e.ELiterals() {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// LiteralByLiteral provides the literal with the given literal string,
// or nil.
func (e *Enum) LiteralByLiteral(s string) *EnumLiteral {
	for _, l := range e.ELiterals() {
		if l.Literal() == s {
			return l
		}
	}
	return nil
}

func (e *Enum) LiteralByValue(v int) *EnumLiteral {
	for _, l := range e.ELiterals() {
		if l.Value() == v {
			return l
		}
	}
	return nil
}

func (e *Enum) Kind() Kind {
	return KindAny
}

// DefaultValue provides the first literal.
func (e *Enum) DefaultValue() any {
	if lits := e.ELiterals(); len(lits) > 0 {
		return lits[0]
	}
	return nil
}

func (e *Enum) IsInstance(v any) bool {
	l, ok := v.(*EnumLiteral)
	return ok && l.EEnum() == e
}

func (e *Enum) ParseValue(s string) (any, error) {
	if l := e.Literal(s); l != nil {
		return l, nil
	}
	if l := e.LiteralByLiteral(s); l != nil {
		return l, nil
	}
	return nil, fmt.Errorf("%w: unknown literal %q for enum %s", ErrInvalidValue, s, e.Name())
}

func (e *Enum) FormatValue(v any) (string, error) {
	l, err := e.literalFor(v)
	if err != nil {
		return "", err
	}
	return l.Literal(), nil
}

func (e *Enum) Coerce(v any) (any, error) {
	return e.literalFor(v)
}

// literalFor maps literals, names, literal strings and values to the
// literal of the enum.
func (e *Enum) literalFor(v any) (*EnumLiteral, error) {
	switch l := v.(type) {
	case *EnumLiteral:
		if l.EEnum() != e {
			return nil, fmt.Errorf("%w: literal %s does not belong to enum %s", ErrInvalidValue, l.Name(), e.Name())
		}
		return l, nil
	case string:
		r, err := e.ParseValue(l)
		if err != nil {
			return nil, err
		}
		return r.(*EnumLiteral), nil
	}
	if i, ok := toInt64(v); ok {
		if l := e.LiteralByValue(int(i)); l != nil {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %v for enum %s", ErrInvalidValue, v, e.Name())
}

////////////////////////////////////////////////////////////////////////////////

// EnumLiteral is a value of an Enum.
type EnumLiteral struct {
	namedElement
}

func newEnumLiteral() *EnumLiteral {
	l := &EnumLiteral{}
	l.Init(l, metaEnumLiteral)
	return l
}

func (l *EnumLiteral) Value() int {
	return l.rawInt(featValue, 0)
}

// Literal provides the literal string, which defaults to the name.
func (l *EnumLiteral) Literal() string {
	if s := l.rawString(featLiteral); s != "" {
		return s
	}
	return l.Name()
}

func (l *EnumLiteral) SetLiteral(s string) *EnumLiteral {
	l.put(featLiteral, s)
	return l
}

func (l *EnumLiteral) EEnum() *Enum {
	if e, ok := l.container.(*Enum); ok && l.containingFeature == StructuralFeature(featLiterals) {
		return e
	}
	return nil
}
