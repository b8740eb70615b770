// Package xmi provides the XMI 2.0 codec for resources. Metamodels
// (.ecore files) are XMI documents of the Ecore package and are handled
// by the same codec.
package xmi

import (
	"github.com/mandelsoft/logging"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

var REALM = logging.DefineRealm("dynemf/xmi", "XMI resource codec")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)

const (
	Version      = "2.0"
	XMINamespace = "http://www.omg.org/XMI"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
)

type codec struct{}

// Codec is the XMI codec.
var Codec ecore.Codec = &codec{}

// Factory creates XMI resources.
var Factory = ecore.CodecFactory(Codec)

// NewResource creates an XMI resource not bound to a resource set.
func NewResource(uri ecore.URI) *ecore.Resource {
	return ecore.NewResource(uri, Codec)
}
