package dynemf_test

import (
	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/dynemf/pkg/dynemf"
	"github.com/mandelsoft/dynemf/pkg/ecore"
	"github.com/mandelsoft/dynemf/pkg/testutils"
)

var _ = Describe("objects", func() {
	var fs vfs.FileSystem
	var rs *dynemf.ResourceSetWrapper
	var lib *dynemf.EPackageWrapper
	var root *dynemf.EObjectWrapper

	BeforeEach(func() {
		fs = Must(testutils.TestFileSystem(true, "testdata"))
		rs = dynemf.RSet(fs).RegisterPath(LIBRARY_MM)
		MustBeSuccessful(rs.Err())
		lib = rs.EPackage(LIBRARY)
		MustBeSuccessful(lib.Err())
		root = rs.Open("testdata/models/library.xmi").Root()
		MustBeSuccessful(root.Err())
	})

	AfterEach(func() {
		vfs.Cleanup(fs)
	})

	Context("navigation", func() {
		It("provides properties", func() {
			Expect(root.EClass().Name()).To(Equal("Library"))
			Expect(root.Property("name").Unwrap()).To(Equal("City Library"))

			books := root.Property("books")
			Expect(books.IsList()).To(BeTrue())
			Expect(books.AsList().Len()).To(Equal(2))

			b := books.AsList().At(0)
			Expect(b.Property("title").Unwrap()).To(Equal("Solaris"))
			Expect(b.Property("pages").Unwrap()).To(Equal(204))
			Expect(b.Property("tags").AsList().Values()).To(HaveLen(2))
			Expect(b.Property("tags").AsList().Value(1).Unwrap()).To(Equal("space"))
			Expect(b.Property("tags").AsList().Includes("classic")).To(BeTrue())

			cat := b.Property("category")
			Expect(cat.IsLiteral()).To(BeTrue())
			Expect(cat.AsLiteral().Name()).To(Equal("ScienceFiction"))
			Expect(cat.AsLiteral().Value()).To(Equal(1))

			author := b.Property("author")
			Expect(author.IsEObject()).To(BeTrue())
			Expect(author.AsEObject().Property("name").Unwrap()).To(Equal("Lem"))
			Expect(author.AsEObject().Property("books").AsList().All()).To(HaveLen(2))
		})

		It("provides defaults and null", func() {
			b := root.Property("books").AsList().At(1)
			Expect(b.IsSet("pages")).To(BeFalse())
			Expect(b.Property("pages").Unwrap()).To(Equal(100))

			n := lib.Create("Book")
			Expect(n.Property("title").IsNull()).To(BeTrue())
			Expect(n.Property("author").IsNull()).To(BeTrue())
			Expect(n.Property("author").AsEObject().Err()).To(MatchError(dynemf.ErrType))
			Expect(n.Property("category").AsLiteral().Name()).To(Equal("Mystery"))
		})

		It("provides containers and resources", func() {
			b := root.Property("books").AsList().At(0)
			Expect(b.Container().Equal(root)).To(BeTrue())
			Expect(b.Container().AsEObject().Container().IsNull()).To(BeTrue())
			Expect(b.Resource().URI()).To(Equal(ecore.URI("testdata/models/library.xmi")))
			Expect(b.Resource().Equal(root.Resource())).To(BeTrue())
			Expect(lib.Create("Book").Resource().Err()).To(MatchError(ecore.ErrNotFound))
		})

		It("provides features", func() {
			b := root.Property("books").AsList().At(0)
			f := b.EFeature("author")
			MustBeSuccessful(f.Err())
			Expect(f.Name()).To(Equal("author"))
			Expect(f.Type().Name()).To(Equal("Writer"))
			Expect(f.IsReference()).To(BeTrue())
			Expect(f.IsAttribute()).To(BeFalse())
			Expect(f.IsContainment()).To(BeFalse())
			Expect(f.IsMany()).To(BeFalse())
			Expect(f.IsRequired()).To(BeFalse())
			Expect(f.Container()).To(BeIdenticalTo(b))
			Expect(f.Value().AsEObject().Property("name").Unwrap()).To(Equal("Lem"))

			f = root.EFeature("books")
			Expect(f.IsContainment()).To(BeTrue())
			Expect(f.IsMany()).To(BeTrue())
			Expect(f.IsOrdered()).To(BeTrue())
			Expect(f.IsUnique()).To(BeTrue())

			f = b.EFeature("tags")
			Expect(f.IsAttribute()).To(BeTrue())
			Expect(f.Type()).To(BeIdenticalTo(ecore.Classifier(ecore.EString)))

			Expect(b.EFeature("unknown").Err()).To(MatchError(ecore.ErrUnknownFeature))
			Expect(b.EFeature("unknown").Value().Err()).To(MatchError(ecore.ErrUnknownFeature))
		})

		It("unwraps typed", func() {
			o := Must(dynemf.As[ecore.Object](root))
			Expect(o.EClass().Name()).To(Equal("Library"))
			p := Must(dynemf.As[*ecore.Package](lib))
			Expect(p.NsURI()).To(Equal(LIBRARY))
			_, err := dynemf.As[*ecore.Package](root)
			Expect(err).To(MatchError(dynemf.ErrType))
			_, err = dynemf.As[ecore.Object](root.Property("unknown"))
			Expect(err).To(MatchError(ecore.ErrUnknownFeature))
		})
	})

	Context("modification", func() {
		It("chains modifications", func() {
			lem := root.Property("writers").AsList().At(0)
			b := lib.Create("Book").
				Set("title", "Fiasco").
				Set("pages", 322).
				Set("category", "ScienceFiction").
				Add("tags", "late", "novel").
				Set("author", lem)
			MustBeSuccessful(b.Err())
			MustBeSuccessful(root.Add("books", b).Err())

			Expect(root.Property("books").AsList().Len()).To(Equal(3))
			Expect(root.Property("books").AsList().At(2).Equal(b)).To(BeTrue())
			Expect(lem.Property("books").AsList().Includes(b)).To(BeTrue())
			Expect(b.Container().Equal(root)).To(BeTrue())
			Expect(b.Property("tags").AsList().Len()).To(Equal(2))
		})

		It("replaces many values", func() {
			b := root.Property("books").AsList().At(0)
			MustBeSuccessful(b.Set("tags", []string{"a", "b", "c"}).Err())
			Expect(b.Property("tags").AsList().Len()).To(Equal(3))

			w := root.Property("writers").AsList().At(0)
			books := []*dynemf.EObjectWrapper{root.Property("books").AsList().At(1)}
			MustBeSuccessful(w.Set("books", books).Err())
			Expect(w.Property("books").AsList().Len()).To(Equal(1))
			Expect(b.Property("author").IsNull()).To(BeTrue())
		})

		It("removes values", func() {
			b := root.Property("books").AsList().At(0)
			MustBeSuccessful(b.Remove("tags", "classic", "unknown").Err())
			Expect(b.Property("tags").AsList().Len()).To(Equal(1))

			MustBeSuccessful(root.RemoveAt("books", 0).Err())
			Expect(root.Property("books").AsList().Len()).To(Equal(1))
			Expect(b.Container().IsNull()).To(BeTrue())
			Expect(root.RemoveAt("books", 5).Err()).To(MatchError(ecore.ErrIndex))
		})

		It("unsets values", func() {
			b := root.Property("books").AsList().At(0)
			MustBeSuccessful(b.Unset("pages").Unset("author").Err())
			Expect(b.Property("pages").Unwrap()).To(Equal(100))
			Expect(b.IsSet("author")).To(BeFalse())
			Expect(root.Property("writers").AsList().At(0).Property("books").AsList().Len()).To(Equal(1))
		})
	})

	Context("errors", func() {
		It("keeps the first error", func() {
			b := lib.Create("Book").Set("unknown", 1).Set("title", "x")
			Expect(b.Err()).To(MatchError(ecore.ErrUnknownFeature))
			Expect(b.Err().Error()).To(ContainSubstring(`"unknown"`))
			Expect(b.IsSet("title")).To(BeFalse())
			Expect(b.Property("title").Err()).To(MatchError(ecore.ErrUnknownFeature))
		})

		It("rejects add on single valued features", func() {
			err := lib.Create("Book").Add("title", "x").Err()
			Expect(err).To(MatchError(ecore.ErrNotMany))
			Expect(err.Error()).To(ContainSubstring("use Set instead of Add"))
		})

		It("rejects add on many valued container references", func() {
			writers := lib.Class("Library").StructuralFeature("writers").(*ecore.Reference)
			owner := lib.Class("Writer").NewReference("owner", lib.Class("Library")).Many()
			ecore.SetOpposite(writers, owner)

			Expect(lib.Create("Writer").Add("owner", root).Err()).To(MatchError(ecore.ErrNotMany))
		})

		It("rejects invalid values", func() {
			Expect(lib.Create("Book").Set("pages", "many").Err()).To(MatchError(ecore.ErrInvalidValue))
			Expect(lib.Create("Book").Set("category", "Poetry").Err()).To(MatchError(ecore.ErrInvalidValue))
			Expect(lib.Create("Book").Set("author", lib.Create("Book")).Err()).To(MatchError(ecore.ErrInvalidValue))
			Expect(lib.Create("Book").Set("tags", "single").Err()).To(MatchError(ecore.ErrMany))
		})

		It("propagates errors of arguments", func() {
			b := lib.Create("Book").Set("author", lib.Create("Unknown"))
			Expect(b.Err()).To(MatchError(dynemf.ErrNoClass))
			Expect(root.Add("books", lib.Create("Named")).Err()).To(MatchError(ecore.ErrAbstract))
		})
	})
})
