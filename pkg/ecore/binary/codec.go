// Package binary provides a compact binary codec for resources based on
// the protobuf wire encoding.
//
// A document starts with the magic header followed by a message with
// the package table (nsURIs), the class table (package index and name)
// and the root objects. An object record holds the class index, an
// optional ID and one slot per set feature. Slot values are typed
// according to the feature type. References are stored as tokens
// (fragment or uri#fragment) with the class index of the target as
// type hint, and are resolved after all objects have been read.
package binary

import (
	"github.com/mandelsoft/logging"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

var REALM = logging.DefineRealm("dynemf/binary", "binary resource codec")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)

// Magic is the document header.
const Magic = "\x89DYNEMF\n"

const FormatVersion = 2

// document fields
const (
	fieldPackage protowire.Number = 1
	fieldClass   protowire.Number = 2
	fieldRoot    protowire.Number = 3
)

// class fields
const (
	fieldClassPackage protowire.Number = 1
	fieldClassName    protowire.Number = 2
)

// object fields
const (
	fieldObjectClass protowire.Number = 1
	fieldObjectID    protowire.Number = 2
	fieldObjectSlot  protowire.Number = 3
)

// slot fields
const (
	fieldSlotFeature protowire.Number = 1
	fieldValueString protowire.Number = 2
	fieldValueInt    protowire.Number = 3
	fieldValueBool   protowire.Number = 4
	fieldValueDouble protowire.Number = 5
	fieldValueFloat  protowire.Number = 6
	fieldValueObject protowire.Number = 7
	fieldValueRef    protowire.Number = 8
	fieldValueEnum   protowire.Number = 9
	fieldValueDate   protowire.Number = 10
)

// date fields
const (
	fieldDateSeconds protowire.Number = 1
	fieldDateNanos   protowire.Number = 2
	fieldDateOffset  protowire.Number = 3
)

// reference fields
const (
	fieldRefClass protowire.Number = 1
	fieldRefURI   protowire.Number = 2
)

type codec struct{}

// Codec is the binary codec.
var Codec ecore.Codec = &codec{}

// Factory creates binary resources.
var Factory = ecore.CodecFactory(Codec)

func NewResource(uri ecore.URI) *ecore.Resource {
	return ecore.NewResource(uri, Codec)
}
