// Package ecore provides a reflective, dynamically typed modeling
// framework.
//
// A metamodel is described by packages containing classes, data types and
// enumerations. Classes own structural features (attributes and
// references). Instances of classes are dynamic objects whose feature values
// are accessed by feature (EGet, ESet, EUnset). Metamodel elements are
// objects themselves (instances of the classes of the Ecore package), so
// metamodels can be navigated and extended with the same reflective API.
//
// Objects are persisted in resources, which are grouped in resource sets.
// A resource set provides a package registry (nsURI -> package) and a
// resource factory registry (file extension -> factory). The serialization
// formats are provided by the codec packages (xmi, binary, yaml).
//
// Objects, resources and resource sets are not safe for concurrent use.
package ecore
