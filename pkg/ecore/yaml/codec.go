// Package yaml provides a YAML and a JSON codec for resources.
//
// A document has a list of root objects under the key contents. Each
// object is a map of feature names to values. The key eClass holds the
// class (nsURI#//Class) and is omitted for contained objects whose class
// is the type of the containing feature. References are maps with the
// key $ref holding the fragment or uri#fragment of the target. Explicit
// IDs are stored under _id.
package yaml

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/mandelsoft/logging"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

var REALM = logging.DefineRealm("dynemf/yaml", "YAML/JSON resource codec")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)

const (
	KeyContents = "contents"
	KeyClass    = "eClass"
	KeyID       = "_id"
	KeyRef      = "$ref"
)

type codec struct {
	json bool
}

var (
	// Codec is the YAML codec.
	Codec ecore.Codec = &codec{}
	// JSONCodec is the JSON codec.
	JSONCodec ecore.Codec = &codec{json: true}

	Factory     = ecore.CodecFactory(Codec)
	JSONFactory = ecore.CodecFactory(JSONCodec)
)

func NewResource(uri ecore.URI) *ecore.Resource {
	return ecore.NewResource(uri, Codec)
}

func (c *codec) Encode(w io.Writer, r *ecore.Resource, opts ecore.Options) error {
	t, err := Tree(r)
	if err != nil {
		return err
	}
	var data []byte
	if c.json {
		data, err = json.MarshalIndent(t, "", opts.String(ecore.OptionIndent, "  "))
		data = append(data, '\n')
	} else {
		data, err = sigsyaml.Marshal(t)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (c *codec) Decode(rd io.Reader, r *ecore.Resource, opts ecore.Options) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var t map[string]any
	if err := sigsyaml.Unmarshal(data, &t); err != nil {
		return err
	}
	return newDecoder(r, opts).decode(t)
}
