package ecore

import (
	"io"
)

// Options control loading and saving of resources.
type Options map[string]any

const (
	// OptionUseUUIDs assigns UUIDs as IDs to all objects without ID
	// on save.
	OptionUseUUIDs = "UseUUIDs"
	// OptionIndent sets the indentation string used by text formats.
	OptionIndent = "Indent"
	// OptionEncoding sets the XML encoding declaration.
	OptionEncoding = "Encoding"
	// OptionRecordUnknownFeatures skips unknown features on load
	// instead of failing.
	OptionRecordUnknownFeatures = "RecordUnknownFeatures"
)

func (o Options) Bool(key string) bool {
	b, _ := o[key].(bool)
	return b
}

// String provides a string option or the given default.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Merge provides a new option set with the given options
// overriding the actual ones.
func (o Options) Merge(opts ...Options) Options {
	r := Options{}
	for k, v := range o {
		r[k] = v
	}
	for _, e := range opts {
		for k, v := range e {
			r[k] = v
		}
	}
	return r
}

// Codec encodes and decodes the content of resources.
type Codec interface {
	Encode(w io.Writer, r *Resource, opts Options) error
	Decode(rd io.Reader, r *Resource, opts Options) error
}
