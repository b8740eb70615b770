package ecore

import (
	"fmt"
)

var (
	ErrUnknownFeature  = fmt.Errorf("unknown feature")
	ErrNotMany         = fmt.Errorf("feature is not many")
	ErrMany            = fmt.Errorf("feature is many")
	ErrInvalidValue    = fmt.Errorf("invalid value")
	ErrUnchangeable    = fmt.Errorf("feature is not changeable")
	ErrAbstract        = fmt.Errorf("class is abstract")
	ErrIndex           = fmt.Errorf("index out of range")
	ErrNotFound        = fmt.Errorf("not found")
	ErrUnknownPackage  = fmt.Errorf("package not found")
	ErrNoFactory       = fmt.Errorf("no resource factory")
	ErrNoCodec         = fmt.Errorf("resource has no codec")
	ErrNotFile         = fmt.Errorf("uri does not denote a file")
	ErrUnresolved      = fmt.Errorf("unresolved reference")
	ErrBoundsViolation = fmt.Errorf("upper bound exceeded")
	ErrDangling        = fmt.Errorf("object is not contained in a resource")
)

// FeatureError describes a failed feature operation on an object.
type FeatureError struct {
	Class   string
	Feature string
	Err     error
}

func (e *FeatureError) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("feature %q: %s", e.Feature, e.Err)
	}
	return fmt.Sprintf("feature %q of class %q: %s", e.Feature, e.Class, e.Err)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

func featureError(o Object, f string, err error) error {
	cname := ""
	if o != nil && o.EClass() != nil {
		cname = o.EClass().Name()
	}
	return &FeatureError{Class: cname, Feature: f, Err: err}
}
