package dynemf

import (
	"github.com/mandelsoft/dynemf/pkg/ecore"
)

// EFeatureWrapper wraps a structural feature together with the object
// it has been requested for.
type EFeatureWrapper struct {
	wrapper[ecore.StructuralFeature]
	container *EObjectWrapper
}

var _ Wrapper = (*EFeatureWrapper)(nil)

// Container provides the object the feature has been requested for.
func (f *EFeatureWrapper) Container() *EObjectWrapper {
	return f.container
}

func (f *EFeatureWrapper) Name() string {
	if f.obj == nil {
		return ""
	}
	return f.obj.Name()
}

func (f *EFeatureWrapper) Type() ecore.Classifier {
	if f.obj == nil {
		return nil
	}
	return f.obj.EType()
}

func (f *EFeatureWrapper) IsAttribute() bool {
	_, ok := f.obj.(*ecore.Attribute)
	return ok
}

func (f *EFeatureWrapper) IsReference() bool {
	_, ok := f.obj.(*ecore.Reference)
	return ok
}

func (f *EFeatureWrapper) IsContainment() bool {
	r, ok := f.obj.(*ecore.Reference)
	return ok && r.IsContainment()
}

func (f *EFeatureWrapper) IsMany() bool {
	return f.obj != nil && f.obj.IsMany()
}

func (f *EFeatureWrapper) IsOrdered() bool {
	return f.obj != nil && f.obj.IsOrdered()
}

func (f *EFeatureWrapper) IsUnique() bool {
	return f.obj != nil && f.obj.IsUnique()
}

func (f *EFeatureWrapper) IsRequired() bool {
	return f.obj != nil && f.obj.IsRequired()
}

// Value provides the value of the feature for its container.
func (f *EFeatureWrapper) Value() Value {
	if f.err != nil {
		return valueError(f.err)
	}
	return f.container.Property(f.obj.Name())
}
