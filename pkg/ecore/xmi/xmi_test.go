package xmi_test

import (
	"bytes"
	"strings"

	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/dynemf/pkg/ecore"
	"github.com/mandelsoft/dynemf/pkg/ecore/xmi"
	"github.com/mandelsoft/dynemf/pkg/ecore/yaml"
)

func feature(o ecore.Object, name string) ecore.StructuralFeature {
	f := o.EClass().StructuralFeature(name)
	ExpectWithOffset(1, f).NotTo(BeNil())
	return f
}

func get(o ecore.Object, name string) any {
	return o.EGet(feature(o, name))
}

func objects(o ecore.Object, name string) []ecore.Object {
	return get(o, name).(*ecore.List).Objects()
}

var _ = Describe("xmi codec", func() {
	var s *ecore.ResourceSet

	BeforeEach(func() {
		s = newResourceSet()
	})

	Context("metamodels", func() {
		It("loads a simple metamodel", func() {
			p := register(s, "/testdata/metamodels/simple.ecore")
			Expect(p.Name()).To(Equal("simple"))
			Expect(p.NsURI()).To(Equal("http://DynEMF/simple/1.0"))
			Expect(p.NsPrefix()).To(Equal("simple"))

			a := p.Class("A")
			Expect(a).NotTo(BeNil())
			name := a.StructuralFeature("name").(*ecore.Attribute)
			Expect(name.EType()).To(BeIdenticalTo(ecore.Classifier(ecore.EString)))
			ref := a.StructuralFeature("a").(*ecore.Reference)
			Expect(ref.IsContainment()).To(BeTrue())
			Expect(ref.IsMany()).To(BeTrue())
			Expect(ref.EReferenceType()).To(BeIdenticalTo(a))
		})

		It("loads a metamodel with inheritance, opposites and enums", func() {
			p := register(s, "/testdata/metamodels/library.ecore")
			named := p.Class("Named")
			Expect(named.IsAbstract()).To(BeTrue())
			writer := p.Class("Writer")
			book := p.Class("Book")
			Expect(writer.ESuperTypes()).To(Equal([]*ecore.Class{named}))
			Expect(writer.StructuralFeature("name")).NotTo(BeNil())

			books := writer.StructuralFeature("books").(*ecore.Reference)
			author := book.StructuralFeature("author").(*ecore.Reference)
			Expect(books.EOpposite()).To(BeIdenticalTo(author))
			Expect(author.EOpposite()).To(BeIdenticalTo(books))

			pages := book.StructuralFeature("pages").(*ecore.Attribute)
			Expect(pages.DefaultValue()).To(Equal(100))

			cat := p.Classifier("BookCategory").(*ecore.Enum)
			Expect(cat.LiteralByValue(2).Name()).To(Equal("Biography"))
			Expect(book.StructuralFeature("category").EType()).To(BeIdenticalTo(ecore.Classifier(cat)))
		})

		It("round trips a metamodel", func() {
			p := register(s, "/testdata/metamodels/library.ecore")
			var buf bytes.Buffer
			MustBeSuccessful(p.EResource().SaveTo(&buf))
			Expect(buf.String()).To(ContainSubstring(`nsURI="http://DynEMF/library/1.0"`))
			Expect(buf.String()).To(ContainSubstring(`xsi:type="ecore:EEnum"`))

			r := xmi.NewResource("copy.ecore")
			MustBeSuccessful(r.LoadFrom(&buf))
			c := r.Contents().Get(0).(*ecore.Package)
			Expect(c).NotTo(BeIdenticalTo(p))
			Expect(c.NsURI()).To(Equal(p.NsURI()))
			var names []string
			for _, e := range c.EClassifiers() {
				names = append(names, e.Name())
			}
			Expect(names).To(Equal([]string{"Named", "Library", "Writer", "Book", "BookCategory"}))
			book := c.Class("Book")
			Expect(book.StructuralFeature("author").(*ecore.Reference).EOpposite()).To(BeIdenticalTo(c.Class("Writer").StructuralFeature("books")))
			Expect(book.StructuralFeature("tags").IsMany()).To(BeTrue())
			Expect(book.StructuralFeature("pages").DefaultValue()).To(Equal(100))
		})
	})

	Context("models", func() {
		BeforeEach(func() {
			register(s, "/testdata/metamodels/simple.ecore")
			register(s, "/testdata/metamodels/library.ecore")
		})

		It("loads a model", func() {
			r := Must(s.GetResource(ecore.FileURI("/testdata/models/01.xmi"), true))
			Expect(r.IsLoaded()).To(BeTrue())
			root := r.Contents().Get(0).(ecore.Object)
			Expect(root.EClass().Name()).To(Equal("A"))
			Expect(get(root, "name")).To(Equal("root"))
			children := objects(root, "a")
			Expect(children).To(HaveLen(2))
			Expect(get(children[1], "name")).To(Equal("child2"))
			Expect(get(objects(children[1], "a")[0], "name")).To(Equal("grandchild"))
			Expect(r.EObject("//@a.1/@a.0")).To(BeIdenticalTo(objects(children[1], "a")[0]))
		})

		It("loads references and many valued attributes", func() {
			r := Must(s.GetResource(ecore.FileURI("/testdata/models/library.xmi"), true))
			lib := r.Contents().Get(0).(ecore.Object)
			lem := objects(lib, "writers")[0]
			books := objects(lib, "books")
			Expect(books).To(HaveLen(2))
			Expect(objects(lem, "books")).To(Equal(books))
			Expect(get(books[1], "author")).To(BeIdenticalTo(lem))

			Expect(get(books[0], "pages")).To(Equal(204))
			Expect(get(books[1], "pages")).To(Equal(100))
			Expect(books[1].EIsSet(feature(books[1], "pages"))).To(BeFalse())
			Expect(get(books[0], "category").(*ecore.EnumLiteral).Name()).To(Equal("ScienceFiction"))
			Expect(get(books[0], "tags").(*ecore.List).Values()).To(Equal([]any{"classic", "space"}))
		})

		It("round trips a model", func() {
			r := Must(s.GetResource(ecore.FileURI("/testdata/models/library.xmi"), true))
			var buf bytes.Buffer
			MustBeSuccessful(r.SaveTo(&buf))
			data := buf.String()
			Expect(data).To(HavePrefix(`<?xml version="1.0" encoding="UTF-8"?>`))
			Expect(data).To(ContainSubstring(`xmlns:lib="http://DynEMF/library/1.0"`))
			Expect(data).To(ContainSubstring(`name="Lem" books="//@books.0 //@books.1"`))
			Expect(data).To(ContainSubstring(`<tags>classic</tags>`))
			Expect(data).NotTo(ContainSubstring(`pages="100"`))

			c := s.ResourceFactoryRegistry().Get("xmi").CreateResource("copy.xmi")
			s.AddResource(c)
			MustBeSuccessful(c.LoadFrom(&buf))
			Expect(Must(yaml.Tree(c))).To(Equal(Must(yaml.Tree(r))))
		})

		It("saves to the file system", func() {
			r := Must(s.GetResource(ecore.FileURI("/testdata/models/01.xmi"), true))
			r.SetURI(ecore.FileURI("/out/sub/01.xmi"))
			MustBeSuccessful(r.Save())
			Expect(Must(s.FileSystem().Stat("/out/sub/01.xmi")).IsDir()).To(BeFalse())

			n := ecore.NewResourceSet(s.FileSystem())
			n.ResourceFactoryRegistry().Put("xmi", xmi.Factory)
			n.PackageRegistry().PutAll(s.PackageRegistry())
			c := Must(n.GetResource(ecore.FileURI("/out/sub/01.xmi"), true))
			Expect(Must(yaml.Tree(c))).To(Equal(Must(yaml.Tree(r))))
		})

		It("handles multiple roots", func() {
			p := s.PackageRegistry().Get("http://DynEMF/simple/1.0")
			r := Must(s.CreateResource(ecore.FileURI("/out/multi.xmi")))
			for _, n := range []string{"first", "second"} {
				o := Must(p.Factory().CreateByName("A"))
				MustBeSuccessful(o.ESet(feature(o, "name"), n))
				Must(r.Contents().Add(o))
			}
			var buf bytes.Buffer
			MustBeSuccessful(r.SaveTo(&buf))
			Expect(buf.String()).To(ContainSubstring("<xmi:XMI "))

			c := xmi.NewResource("copy.xmi")
			s.AddResource(c)
			MustBeSuccessful(c.LoadFrom(&buf))
			Expect(c.Contents().Len()).To(Equal(2))
			Expect(get(c.EObject("/1"), "name")).To(Equal("second"))
		})

		It("assigns uuids", func() {
			r := Must(s.GetResource(ecore.FileURI("/testdata/models/01.xmi"), true))
			var buf bytes.Buffer
			MustBeSuccessful(r.SaveTo(&buf, ecore.Options{ecore.OptionUseUUIDs: true}))
			Expect(strings.Count(buf.String(), "xmi:id=")).To(Equal(4))
			id := r.ID(r.EObject("//@a.0"))
			Expect(id).NotTo(BeEmpty())

			c := xmi.NewResource("copy.xmi")
			s.AddResource(c)
			MustBeSuccessful(c.LoadFrom(&buf))
			Expect(get(c.EObject(id), "name")).To(Equal("child1"))
		})

		It("handles unknown features", func() {
			doc := `<simple:A xmlns:simple="http://DynEMF/simple/1.0" name="x" color="red"><b/></simple:A>`
			r := xmi.NewResource("x.xmi")
			s.AddResource(r)
			Expect(r.LoadFrom(strings.NewReader(doc))).To(MatchError(ecore.ErrUnknownFeature))
			MustBeSuccessful(r.LoadFrom(strings.NewReader(doc), ecore.Options{ecore.OptionRecordUnknownFeatures: true}))
			Expect(get(r.EObject("/"), "name")).To(Equal("x"))
		})

		It("fails for unknown packages", func() {
			r := xmi.NewResource("x.xmi")
			s.AddResource(r)
			Expect(r.LoadFrom(strings.NewReader(`<u:A xmlns:u="http://unknown"/>`))).To(MatchError(ecore.ErrUnknownPackage))
		})

		It("resolves references to other documents", func() {
			p := s.PackageRegistry().Get("http://DynEMF/library/1.0")
			wr := Must(s.CreateResource(ecore.FileURI("/out/writers.xmi")))
			br := Must(s.CreateResource(ecore.FileURI("/out/books.xmi")))
			w := Must(p.Factory().CreateByName("Writer"))
			MustBeSuccessful(w.ESet(feature(w, "name"), "Lem"))
			b := Must(p.Factory().CreateByName("Book"))
			MustBeSuccessful(b.ESet(feature(b, "title"), "Solaris"))
			MustBeSuccessful(b.ESet(feature(b, "author"), w))
			Must(wr.Contents().Add(w))
			Must(br.Contents().Add(b))
			MustBeSuccessful(wr.Save())
			MustBeSuccessful(br.Save())
			data := Must(vfs.ReadFile(s.FileSystem(), "/out/books.xmi"))
			Expect(string(data)).To(ContainSubstring(`<author xsi:type="lib:Writer" href="writers.xmi#/"></author>`))

			n := ecore.NewResourceSet(s.FileSystem())
			n.ResourceFactoryRegistry().Put("xmi", xmi.Factory)
			n.PackageRegistry().PutAll(s.PackageRegistry())
			c := Must(n.GetResource(ecore.FileURI("/out/books.xmi"), true))
			book := c.EObject("/")
			Expect(n.Resources()).To(HaveLen(1))
			author := get(book, "author").(ecore.Object)
			Expect(author.EIsProxy()).To(BeFalse())
			Expect(get(author, "name")).To(Equal("Lem"))
			Expect(n.Resources()).To(HaveLen(2))
		})
	})
})

var _ = Describe("xmi references", func() {
	var s *ecore.ResourceSet
	var p *ecore.Package
	var item *ecore.Class
	var key *ecore.Attribute
	var refs, ref *ecore.Reference

	BeforeEach(func() {
		s = newResourceSet()
		p = ecore.NewPackage("ids", "http://test/ids", "ids")
		item = p.NewClass("Item")
		key = item.NewAttribute("key", ecore.EString).SetID(true)
		refs = item.NewReference("refs", item).Many()
		ref = item.NewReference("ref", item)
		item.NewReference("items", item).Many().Containment()
		s.PackageRegistry().Put(p)
	})

	create := func(k string) ecore.Object {
		o := Must(p.Factory().Create(item))
		MustBeSuccessful(o.ESet(key, k))
		return o
	}

	It("keeps ids with colons", func() {
		root := create("root")
		a := create("a:b")
		c := create("c:d")
		Must(root.EGet(feature(root, "items")).(*ecore.List).Add(a))
		Must(root.EGet(feature(root, "items")).(*ecore.List).Add(c))
		Must(root.EGet(refs).(*ecore.List).Add(a))
		Must(root.EGet(refs).(*ecore.List).Add(c))

		r := xmi.NewResource("ids.xmi")
		s.AddResource(r)
		Must(r.Contents().Add(root))
		var buf bytes.Buffer
		MustBeSuccessful(r.SaveTo(&buf))
		Expect(buf.String()).To(ContainSubstring(`refs="a:b c:d"`))

		n := xmi.NewResource("copy.xmi")
		s.AddResource(n)
		MustBeSuccessful(n.LoadFrom(&buf))
		keys := []any{}
		for _, o := range objects(n.EObject("/"), "refs") {
			keys = append(keys, get(o, "key"))
		}
		Expect(keys).To(Equal([]any{"a:b", "c:d"}))
	})

	It("writes mixed references as href elements", func() {
		other := Must(s.CreateResource(ecore.FileURI("/out/other.xmi")))
		x := create("x")
		Must(other.Contents().Add(x))
		MustBeSuccessful(other.Save())

		root := create("root")
		a := create("a:b")
		Must(root.EGet(feature(root, "items")).(*ecore.List).Add(a))
		Must(root.EGet(refs).(*ecore.List).Add(a))
		Must(root.EGet(refs).(*ecore.List).Add(x))

		r := Must(s.CreateResource(ecore.FileURI("/out/main.xmi")))
		Must(r.Contents().Add(root))
		var buf bytes.Buffer
		MustBeSuccessful(r.SaveTo(&buf))
		Expect(buf.String()).To(ContainSubstring(`<refs href="#a:b"></refs>`))
		Expect(buf.String()).To(ContainSubstring(`<refs xsi:type="ids:Item" href="other.xmi#x"></refs>`))

		n := Must(s.CreateResource(ecore.FileURI("/out/copy.xmi")))
		MustBeSuccessful(n.LoadFrom(&buf))
		targets := objects(n.EObject("/"), "refs")
		Expect(targets).To(HaveLen(2))
		Expect(get(targets[0], "key")).To(Equal("a:b"))
		Expect(targets[1]).To(BeIdenticalTo(x))
	})

	It("rejects references to objects outside of resources", func() {
		root := create("root")
		MustBeSuccessful(root.ESet(ref, create("free")))
		r := xmi.NewResource("dangling.xmi")
		s.AddResource(r)
		Must(r.Contents().Add(root))
		var buf bytes.Buffer
		Expect(r.SaveTo(&buf)).To(MatchError(ecore.ErrDangling))
	})
})
