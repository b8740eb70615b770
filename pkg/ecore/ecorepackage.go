package ecore

const (
	EcoreNsURI    = "http://www.eclipse.org/emf/2002/Ecore"
	EcoreNsPrefix = "ecore"
)

// The built-in data types of the Ecore package.
var (
	EString,
	EInt,
	ELong,
	EShort,
	EByte,
	EBoolean,
	EDouble,
	EFloat,
	EChar,
	EDate,
	EJavaObject *DataType
)

var ecorePackage *Package

// EcorePackage provides the meta package describing metamodels.
// Its classes are the metaclasses of packages, classes, data types,
// enums, attributes and references, so metamodels can be created and
// modified like any other model.
func EcorePackage() *Package {
	return ecorePackage
}

// EObjectClass provides the implicit super class of all classes.
func EObjectClass() *Class {
	return metaObject
}

func init() {
	bootstrap()
}

type rawAttachment struct {
	owner   Object
	feature StructuralFeature
	child   Object
}

// bootstrap builds the Ecore package. The metaclasses describe
// themselves, so all objects are allocated first, then their values
// are set with raw access. Containment is established after all
// feature properties are in place.
func bootstrap() {
	newC := func() *Class { c := &Class{}; c.Init(c, nil); return c }
	newA := func() *Attribute { a := &Attribute{}; a.Init(a, nil); return a }
	newR := func() *Reference { r := &Reference{}; r.Init(r, nil); return r }
	newD := func() *DataType { d := &DataType{}; d.Init(d, nil); return d }

	p := &Package{}
	p.Init(p, nil)

	for _, c := range []**Class{
		&metaObject, &metaModelElement, &metaAnnotation, &metaStringEntry, &metaNamedElement,
		&metaPackage, &metaClassifier, &metaClass, &metaDataType, &metaEnum, &metaEnumLiteral,
		&metaTypedElement, &metaStructuralFeature, &metaAttribute, &metaReference,
	} {
		*c = newC()
	}
	for _, a := range []**Attribute{
		&featSource, &featKey, &featEntryValue, &featName, &featNsURI, &featNsPrefix,
		&featInstanceClassName, &featAbstract, &featInterface, &featValue, &featLiteral,
		&featOrdered, &featUnique, &featLowerBound, &featUpperBound, &featChangeable,
		&featTransient, &featVolatile, &featUnsettable, &featDerived, &featDefaultValueLiteral,
		&featSerializable, &featID, &featContainment, &featResolveProxies,
	} {
		*a = newA()
	}
	for _, r := range []**Reference{
		&featAnnotations, &featDetails, &featAnnotationModelElement, &featClassifiers,
		&featClassifierPackage, &featSubpackages, &featSuperPackage, &featSuperTypes,
		&featStructuralFeatures, &featContainingClass, &featLiterals, &featLiteralEnum,
		&featType, &featOpposite,
	} {
		*r = newR()
	}
	for _, d := range []**DataType{
		&EString, &EInt, &ELong, &EShort, &EByte, &EBoolean, &EDouble, &EFloat, &EChar, &EDate, &EJavaObject,
	} {
		*d = newD()
	}

	p.put(featName, "ecore")
	p.put(featNsURI, EcoreNsURI)
	p.put(featNsPrefix, EcoreNsPrefix)

	var attachments []rawAttachment
	attach := func(owner Object, f StructuralFeature, child Object) {
		attachments = append(attachments, rawAttachment{owner, f, child})
	}

	datatype := func(d *DataType, name, instanceClass string) *DataType {
		d.put(featName, name)
		d.put(featInstanceClassName, instanceClass)
		attach(p, featClassifiers, d)
		return d
	}
	datatype(EString, "EString", "java.lang.String")
	datatype(EInt, "EInt", "int")
	datatype(ELong, "ELong", "long")
	datatype(EShort, "EShort", "short")
	datatype(EByte, "EByte", "byte")
	datatype(EBoolean, "EBoolean", "boolean")
	datatype(EDouble, "EDouble", "double")
	datatype(EFloat, "EFloat", "float")
	datatype(EChar, "EChar", "char")
	datatype(EDate, "EDate", "java.util.Date")
	datatype(EJavaObject, "EJavaObject", "java.lang.Object")
	for _, n := range [][2]string{
		{"EIntegerObject", "java.lang.Integer"},
		{"ELongObject", "java.lang.Long"},
		{"EShortObject", "java.lang.Short"},
		{"EByteObject", "java.lang.Byte"},
		{"EBooleanObject", "java.lang.Boolean"},
		{"EDoubleObject", "java.lang.Double"},
		{"EFloatObject", "java.lang.Float"},
		{"ECharacterObject", "java.lang.Character"},
	} {
		datatype(newD(), n[0], n[1])
	}

	class := func(c *Class, name string, abstract bool, supers ...*Class) *Class {
		c.put(featName, name)
		if abstract {
			c.put(featAbstract, true)
		}
		for _, s := range supers {
			c.list(featSuperTypes).appendRaw(s)
		}
		attach(p, featClassifiers, c)
		return c
	}
	attr := func(c *Class, a *Attribute, name string, t *DataType, def string) {
		a.put(featName, name)
		a.put(featType, t)
		if def != "" {
			a.put(featDefaultValueLiteral, def)
		}
		attach(c, featStructuralFeatures, a)
	}
	ref := func(c *Class, r *Reference, name string, t *Class, many, containment bool) {
		r.put(featName, name)
		r.put(featType, t)
		if many {
			r.put(featUpperBound, Unbounded)
		}
		if containment {
			r.put(featContainment, true)
		}
		attach(c, featStructuralFeatures, r)
	}
	container := func(c *Class, r *Reference, name string, t *Class, op *Reference) {
		ref(c, r, name, t, false, false)
		r.put(featTransient, true)
		r.put(featChangeable, false)
		r.put(featOpposite, op)
		op.put(featOpposite, r)
	}

	class(metaObject, "EObject", false)

	class(metaModelElement, "EModelElement", true)
	class(metaAnnotation, "EAnnotation", false, metaModelElement)
	class(metaStringEntry, "EStringToStringMapEntry", false)
	ref(metaModelElement, featAnnotations, "eAnnotations", metaAnnotation, true, true)
	attr(metaAnnotation, featSource, "source", EString, "")
	ref(metaAnnotation, featDetails, "details", metaStringEntry, true, true)
	container(metaAnnotation, featAnnotationModelElement, "eModelElement", metaModelElement, featAnnotations)
	attr(metaStringEntry, featKey, "key", EString, "")
	attr(metaStringEntry, featEntryValue, "value", EString, "")

	class(metaNamedElement, "ENamedElement", true, metaModelElement)
	attr(metaNamedElement, featName, "name", EString, "")

	class(metaPackage, "EPackage", false, metaNamedElement)
	class(metaClassifier, "EClassifier", true, metaNamedElement)
	attr(metaPackage, featNsURI, "nsURI", EString, "")
	attr(metaPackage, featNsPrefix, "nsPrefix", EString, "")
	ref(metaPackage, featClassifiers, "eClassifiers", metaClassifier, true, true)
	ref(metaPackage, featSubpackages, "eSubpackages", metaPackage, true, true)
	container(metaPackage, featSuperPackage, "eSuperPackage", metaPackage, featSubpackages)
	attr(metaClassifier, featInstanceClassName, "instanceClassName", EString, "")
	container(metaClassifier, featClassifierPackage, "ePackage", metaPackage, featClassifiers)

	class(metaClass, "EClass", false, metaClassifier)
	class(metaDataType, "EDataType", false, metaClassifier)
	class(metaEnum, "EEnum", false, metaDataType)
	class(metaEnumLiteral, "EEnumLiteral", false, metaNamedElement)
	class(metaTypedElement, "ETypedElement", true, metaNamedElement)
	class(metaStructuralFeature, "EStructuralFeature", true, metaTypedElement)
	class(metaAttribute, "EAttribute", false, metaStructuralFeature)
	class(metaReference, "EReference", false, metaStructuralFeature)

	attr(metaClass, featAbstract, "abstract", EBoolean, "")
	attr(metaClass, featInterface, "interface", EBoolean, "")
	ref(metaClass, featSuperTypes, "eSuperTypes", metaClass, true, false)
	ref(metaClass, featStructuralFeatures, "eStructuralFeatures", metaStructuralFeature, true, true)

	attr(metaDataType, featSerializable, "serializable", EBoolean, "true")

	ref(metaEnum, featLiterals, "eLiterals", metaEnumLiteral, true, true)
	attr(metaEnumLiteral, featValue, "value", EInt, "")
	attr(metaEnumLiteral, featLiteral, "literal", EString, "")
	container(metaEnumLiteral, featLiteralEnum, "eEnum", metaEnum, featLiterals)

	attr(metaTypedElement, featOrdered, "ordered", EBoolean, "true")
	attr(metaTypedElement, featUnique, "unique", EBoolean, "true")
	attr(metaTypedElement, featLowerBound, "lowerBound", EInt, "")
	attr(metaTypedElement, featUpperBound, "upperBound", EInt, "1")
	ref(metaTypedElement, featType, "eType", metaClassifier, false, false)

	attr(metaStructuralFeature, featChangeable, "changeable", EBoolean, "true")
	attr(metaStructuralFeature, featVolatile, "volatile", EBoolean, "")
	attr(metaStructuralFeature, featTransient, "transient", EBoolean, "")
	attr(metaStructuralFeature, featDefaultValueLiteral, "defaultValueLiteral", EString, "")
	attr(metaStructuralFeature, featUnsettable, "unsettable", EBoolean, "")
	attr(metaStructuralFeature, featDerived, "derived", EBoolean, "")
	container(metaStructuralFeature, featContainingClass, "eContainingClass", metaClass, featStructuralFeatures)

	attr(metaAttribute, featID, "iD", EBoolean, "")

	attr(metaReference, featContainment, "containment", EBoolean, "")
	attr(metaReference, featResolveProxies, "resolveProxies", EBoolean, "true")
	ref(metaReference, featOpposite, "eOpposite", metaReference, false, false)

	for _, a := range attachments {
		a.owner.base().containRaw(a.feature, a.child)
	}

	fixClass(p)

	r := NewResource(URI(EcoreNsURI), nil)
	r.contents.appendRaw(p)
	p.resource = r
	r.loaded = true

	ecorePackage = p
	GlobalPackageRegistry.Put(p)
}

func fixClass(o Object) {
	b := o.base()
	switch o.(type) {
	case *Package:
		b.class = metaPackage
	case *Class:
		b.class = metaClass
	case *Enum:
		b.class = metaEnum
	case *DataType:
		b.class = metaDataType
	case *Attribute:
		b.class = metaAttribute
	case *Reference:
		b.class = metaReference
	case *EnumLiteral:
		b.class = metaEnumLiteral
	case *Annotation:
		b.class = metaAnnotation
	case *StringEntry:
		b.class = metaStringEntry
	}
	for _, c := range o.EContents() {
		fixClass(c)
	}
}
