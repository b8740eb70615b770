package ecore_test

import (
	"math"

	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

var _ = Describe("metamodel", func() {
	var m *company

	BeforeEach(func() {
		m = newCompany()
	})

	Context("packages", func() {
		It("provides classifiers", func() {
			Expect(m.pkg.Name()).To(Equal("company"))
			Expect(m.pkg.NsURI()).To(Equal("http://test/company"))
			Expect(m.pkg.NsPrefix()).To(Equal("comp"))
			Expect(m.pkg.Class("Person")).To(BeIdenticalTo(m.person))
			Expect(m.pkg.Classifier("Category")).To(BeIdenticalTo(ecore.Classifier(m.category)))
			Expect(m.pkg.Class("Category")).To(BeNil())
			Expect(m.pkg.Classifier("Unknown")).To(BeNil())
			Expect(m.pkg.Classes()).To(Equal([]*ecore.Class{m.named, m.person, m.manager, m.company}))
			Expect(m.person.EPackage()).To(BeIdenticalTo(m.pkg))
		})

		It("nests packages", func() {
			sub := ecore.NewPackage("sub", "http://test/company/sub", "sub")
			m.pkg.AddSubpackage(sub)
			Expect(sub.ESuperPackage()).To(BeIdenticalTo(m.pkg))
			Expect(m.pkg.ESubpackages()).To(Equal([]*ecore.Package{sub}))
			Expect(m.pkg.AllPackages()).To(Equal([]*ecore.Package{m.pkg, sub}))
		})
	})

	Context("classes", func() {
		It("handles inheritance", func() {
			Expect(m.manager.ESuperTypes()).To(Equal([]*ecore.Class{m.person}))
			Expect(m.manager.AllSuperTypes()).To(Equal([]*ecore.Class{m.named, m.person}))
			Expect(m.person.IsSuperTypeOf(m.manager)).To(BeTrue())
			Expect(m.named.IsSuperTypeOf(m.manager)).To(BeTrue())
			Expect(m.manager.IsSuperTypeOf(m.person)).To(BeFalse())
			Expect(ecore.EObjectClass().IsSuperTypeOf(m.company)).To(BeTrue())
		})

		It("provides features", func() {
			Expect(m.person.EStructuralFeatures()).To(HaveLen(5))
			Expect(m.manager.AllStructuralFeatures()).To(Equal([]ecore.StructuralFeature{
				m.name, m.age, m.nicknames, m.friends, m.employer, m.boss, m.staff,
			}))
			Expect(m.manager.StructuralFeature("name")).To(BeIdenticalTo(ecore.StructuralFeature(m.name)))
			Expect(m.manager.StructuralFeature("unknown")).To(BeNil())
			Expect(m.company.AllAttributes()).To(Equal([]*ecore.Attribute{m.name, m.kind}))
			Expect(m.company.AllContainments()).To(Equal([]*ecore.Reference{m.employees, m.ceo}))
			Expect(m.age.EContainingClass()).To(BeIdenticalTo(m.person))
		})

		It("determines the ID attribute", func() {
			Expect(m.person.IDAttribute()).To(BeNil())
			m.name.SetID(true)
			Expect(m.manager.IDAttribute()).To(BeIdenticalTo(m.name))
		})

		It("is an object", func() {
			Expect(m.person.EClass()).To(BeIdenticalTo(ecore.EcorePackage().Class("EClass")))
			Expect(m.person.EContainer()).To(BeIdenticalTo(ecore.Object(m.pkg)))
			Expect(m.pkg.EContents()).To(ContainElement(ecore.Object(m.person)))
		})
	})

	Context("features", func() {
		It("provides bounds", func() {
			Expect(m.name.IsMany()).To(BeFalse())
			Expect(m.name.UpperBound()).To(Equal(1))
			Expect(m.nicknames.IsMany()).To(BeTrue())
			Expect(m.nicknames.UpperBound()).To(Equal(ecore.Unbounded))
			Expect(m.name.IsRequired()).To(BeFalse())
			m.name.Bounds(1, 1)
			Expect(m.name.IsRequired()).To(BeTrue())
		})

		It("provides defaults", func() {
			Expect(m.name.DefaultValue()).To(BeNil())
			Expect(m.age.DefaultValue()).To(Equal(18))
			Expect(m.kind.DefaultValue()).To(BeIdenticalTo(m.category.Literal("Small")))
			Expect(m.nicknames.DefaultValue()).To(BeNil())
		})

		It("provides flags", func() {
			Expect(m.name.IsOrdered()).To(BeTrue())
			Expect(m.name.IsUnique()).To(BeTrue())
			Expect(m.name.IsChangeable()).To(BeTrue())
			Expect(m.name.IsTransient()).To(BeFalse())
		})

		It("handles references", func() {
			Expect(m.employees.IsContainment()).To(BeTrue())
			Expect(m.employer.IsContainer()).To(BeTrue())
			Expect(m.employees.IsContainer()).To(BeFalse())
			Expect(m.boss.EOpposite()).To(BeIdenticalTo(m.staff))
			Expect(m.staff.EOpposite()).To(BeIdenticalTo(m.boss))
			Expect(m.boss.EReferenceType()).To(BeIdenticalTo(m.manager))
			Expect(m.friends.ResolveProxies()).To(BeTrue())
		})
	})

	Context("data types", func() {
		It("parses and formats values", func() {
			Expect(Must(ecore.EInt.ParseValue("42"))).To(Equal(42))
			Expect(Must(ecore.ELong.ParseValue("42"))).To(Equal(int64(42)))
			Expect(Must(ecore.EBoolean.ParseValue("true"))).To(Equal(true))
			Expect(Must(ecore.EDouble.ParseValue("1.5"))).To(Equal(1.5))
			Expect(Must(ecore.EFloat.ParseValue("1.5"))).To(Equal(float32(1.5)))
			Expect(Must(ecore.EChar.ParseValue("x"))).To(Equal('x'))
			Expect(Must(ecore.EString.ParseValue("x"))).To(Equal("x"))
			Expect(Must(ecore.EInt.FormatValue(42))).To(Equal("42"))
			Expect(Must(ecore.EDouble.FormatValue(1.5))).To(Equal("1.5"))
			Expect(Must(ecore.EBoolean.FormatValue(false))).To(Equal("false"))

			_, err := ecore.EInt.ParseValue("x")
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
			_, err = ecore.EByte.ParseValue("1000")
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
		})

		It("coerces values", func() {
			Expect(Must(ecore.EInt.Coerce(int64(3)))).To(Equal(3))
			Expect(Must(ecore.EInt.Coerce(3.0))).To(Equal(3))
			Expect(Must(ecore.EInt.Coerce("3"))).To(Equal(3))
			Expect(Must(ecore.ELong.Coerce(3))).To(Equal(int64(3)))
			Expect(Must(ecore.EDouble.Coerce(3))).To(Equal(3.0))
			Expect(Must(ecore.EJavaObject.Coerce([]int{1}))).To(Equal([]int{1}))

			_, err := ecore.EInt.Coerce(3.5)
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
			_, err = ecore.EShort.Coerce(100000)
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
			_, err = ecore.EBoolean.Coerce(1)
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
		})

		It("bounds int values to 32 bits", func() {
			Expect(Must(ecore.EInt.Coerce(math.MaxInt32))).To(Equal(math.MaxInt32))
			Expect(Must(ecore.EInt.Coerce(int64(math.MinInt32)))).To(Equal(math.MinInt32))
			Expect(Must(ecore.EInt.ParseValue("-2147483648"))).To(Equal(math.MinInt32))
			Expect(ecore.EInt.IsInstance(math.MaxInt32 + 1)).To(BeFalse())

			_, err := ecore.EInt.Coerce(math.MaxInt32 + 1)
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
			_, err = ecore.EInt.Coerce(int64(math.MinInt32) - 1)
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
			_, err = ecore.EInt.ParseValue("2147483648")
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
			Expect(Must(ecore.ELong.Coerce(math.MaxInt32 + 1))).To(Equal(int64(math.MaxInt32 + 1)))
		})

		It("provides defaults", func() {
			Expect(ecore.EInt.DefaultValue()).To(Equal(0))
			Expect(ecore.EBoolean.DefaultValue()).To(Equal(false))
			Expect(ecore.EcorePackage().Classifier("EIntegerObject").(*ecore.DataType).DefaultValue()).To(BeNil())
			Expect(ecore.EString.DefaultValue()).To(BeNil())
		})

		It("handles custom data types", func() {
			d := m.pkg.NewDataType("Count", "int64")
			Expect(d.Kind()).To(Equal(ecore.KindLong))
			Expect(Must(d.ParseValue("7"))).To(Equal(int64(7)))
			d = m.pkg.NewDataType("Custom", "org.example.Custom")
			Expect(d.Kind()).To(Equal(ecore.KindString))
		})
	})

	Context("enums", func() {
		It("looks up literals", func() {
			small := m.category.Literal("Small")
			large := m.category.Literal("Large")
			Expect(small).NotTo(BeNil())
			Expect(large.Value()).To(Equal(1))
			Expect(large.EEnum()).To(BeIdenticalTo(m.category))
			Expect(m.category.LiteralByValue(1)).To(BeIdenticalTo(large))
			Expect(m.category.LiteralByLiteral("Large")).To(BeIdenticalTo(large))
			Expect(m.category.ELiterals()).To(Equal([]*ecore.EnumLiteral{small, large}))
			Expect(m.category.Literal("Medium")).To(BeNil())
		})

		It("uses literal strings", func() {
			large := m.category.Literal("Large").SetLiteral("L")
			Expect(Must(m.category.ParseValue("L"))).To(BeIdenticalTo(large))
			Expect(Must(m.category.ParseValue("Large"))).To(BeIdenticalTo(large))
			Expect(Must(m.category.FormatValue(large))).To(Equal("L"))
			Expect(Must(m.category.Coerce(1))).To(BeIdenticalTo(large))
			_, err := m.category.Coerce(5)
			Expect(err).To(MatchError(ecore.ErrInvalidValue))
		})
	})

	Context("ecore package", func() {
		It("is registered", func() {
			p := ecore.EcorePackage()
			Expect(p.NsURI()).To(Equal(ecore.EcoreNsURI))
			Expect(p.NsPrefix()).To(Equal("ecore"))
			Expect(ecore.GlobalPackageRegistry.Get(ecore.EcoreNsURI)).To(BeIdenticalTo(p))
			Expect(p.EResource()).NotTo(BeNil())
		})

		It("describes itself", func() {
			p := ecore.EcorePackage()
			eclass := p.Class("EClass")
			Expect(eclass).NotTo(BeNil())
			Expect(eclass.EClass()).To(BeIdenticalTo(eclass))
			Expect(p.EClass()).To(BeIdenticalTo(p.Class("EPackage")))
			Expect(eclass.StructuralFeature("eStructuralFeatures")).NotTo(BeNil())
			Expect(eclass.StructuralFeature("name")).NotTo(BeNil())
			Expect(p.Class("EClassifier").IsAbstract()).To(BeTrue())
			Expect(p.Classifier("EString")).To(BeIdenticalTo(ecore.Classifier(ecore.EString)))
		})

		It("maps Go types to meta classes", func() {
			p := ecore.EcorePackage()
			Expect(ecore.ClassFor[*ecore.Class](p)).To(BeIdenticalTo(p.Class("EClass")))
			Expect(ecore.ClassFor[*ecore.Attribute](p)).To(BeIdenticalTo(p.Class("EAttribute")))
			Expect(ecore.ClassFor[*ecore.Package](p)).To(BeIdenticalTo(p.Class("EPackage")))
		})

		It("creates meta objects", func() {
			p := ecore.EcorePackage()
			o := Must(p.Factory().Create(p.Class("EClass")))
			Expect(o).To(BeAssignableToTypeOf(&ecore.Class{}))
			_, err := p.Factory().Create(p.Class("EClassifier"))
			Expect(err).To(MatchError(ecore.ErrAbstract))
		})

		It("modifies metamodels reflectively", func() {
			p := ecore.EcorePackage()
			o := Must(p.Factory().Create(p.Class("EClass")))
			MustBeSuccessful(o.ESet(p.Class("EClass").StructuralFeature("name"), "Department"))
			l := m.pkg.EGet(p.Class("EPackage").StructuralFeature("eClassifiers")).(*ecore.List)
			Expect(Must(l.Add(o))).To(BeTrue())
			c := m.pkg.Class("Department")
			Expect(c).To(BeIdenticalTo(o))
			Expect(c.EPackage()).To(BeIdenticalTo(m.pkg))
			d := Must(m.pkg.Factory().Create(c))
			Expect(d.EClass()).To(BeIdenticalTo(c))
		})
	})
})
