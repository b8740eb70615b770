package app_test

import (
	"bytes"
	"os"
	"strings"

	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/dynemf/cmds/dynemf/app"
	"github.com/mandelsoft/dynemf/pkg/dynemf"
	"github.com/mandelsoft/dynemf/pkg/ecore"
	"github.com/mandelsoft/dynemf/pkg/testutils"
)

const LIBRARY = "http://DynEMF/library/1.0"
const LIBRARY_MM = "testdata/metamodels/library.ecore"
const LIBRARY_MODEL = "testdata/models/library.xmi"

var _ = Describe("Command", func() {
	var fs vfs.FileSystem
	var cmd *cobra.Command
	var buf *bytes.Buffer

	run := func(args ...string) error {
		cmd = app.New(fs)
		buf = bytes.NewBuffer(nil)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	BeforeEach(func() {
		fs = Must(testutils.TestFileSystem(false, "testdata"))
	})

	AfterEach(func() {
		vfs.Cleanup(fs)
	})

	Context("demo", func() {
		It("runs the walkthrough", func() {
			MustBeSuccessful(run("demo", "out"))
			Expect("\n" + buf.String()).To(Equal(`
metamodel stored in out/demo.ecore
model stored in out/model.xmi
root: first second
removed second
root: first
metamodel extended by class B
root: first third
model stored in out/model.xmi and out/model.bin
`))

			rs := dynemf.RSet(fs).RegisterPath("out/demo.ecore")
			mm := rs.EPackage(app.DEMO_NSURI)
			Expect(mm.Class("B")).NotTo(BeNil())
			for _, p := range []string{"out/model.xmi", "out/model.bin"} {
				root := rs.Open(p).Root()
				MustBeSuccessful(root.Err())
				children := root.Property("a").AsList()
				Expect(children.Len()).To(Equal(2))
				Expect(children.At(1).EClass().Name()).To(Equal("B"))
				Expect(children.At(1).Property("value").Unwrap()).To(Equal(3))
			}
		})
	})

	Context("dump", func() {
		It("prints the containment tree", func() {
			MustBeSuccessful(run("-m", LIBRARY_MM, "dump", LIBRARY_MODEL))
			Expect("\n" + buf.String()).To(Equal(`
Library name="City Library"
  writers: Writer name="Lem" books=[//@books.0 //@books.1]
  books: Book title="Solaris" pages=204 category=ScienceFiction tags=["classic" "space"] author=//@writers.0
  books: Book title="The Invincible" category=ScienceFiction author=//@writers.0
`))
		})

		It("fails without metamodel", func() {
			Expect(run("dump", LIBRARY_MODEL)).To(MatchError(ecore.ErrUnknownPackage))
		})

		It("fails for missing metamodels", func() {
			Expect(run("-m", "testdata/metamodels/missing.ecore", "dump", LIBRARY_MODEL)).To(HaveOccurred())
		})
	})

	Context("convert", func() {
		It("converts between formats", func() {
			MustBeSuccessful(run("-m", LIBRARY_MM, "convert", LIBRARY_MODEL, "gen/library.json", "--indent", "  "))
			Expect(buf.String()).To(Equal("gen/library.json: 1 root object(s)\n"))
			Expect(string(Must(vfs.ReadFile(fs, "gen/library.json")))).To(HavePrefix("{\n  "))

			MustBeSuccessful(run("-m", LIBRARY_MM, "convert", "gen/library.json", "gen/library.bin"))
			MustBeSuccessful(run("-m", LIBRARY_MM, "digest", LIBRARY_MODEL, "gen/library.json", "gen/library.bin"))
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			Expect(lines).To(HaveLen(3))
			d := strings.Fields(lines[0])[0]
			Expect(d).To(HaveLen(64))
			for _, l := range lines {
				Expect(strings.Fields(l)[0]).To(Equal(d))
			}
		})

		It("stores ids", func() {
			MustBeSuccessful(run("-m", LIBRARY_MM, "convert", "-u", LIBRARY_MODEL, "gen/library.xmi"))
			Expect(string(Must(vfs.ReadFile(fs, "gen/library.xmi")))).To(ContainSubstring("xmi:id="))
		})
	})

	Context("describe", func() {
		It("lists classes and features", func() {
			MustBeSuccessful(run("-m", LIBRARY_MM, "describe", LIBRARY))
			out := buf.String()
			Expect(out).To(ContainSubstring("Named (abstract)"))
			Expect(out).To(ContainSubstring("containment"))
			Expect(out).To(ContainSubstring("reference <-> author"))
			Expect(out).To(ContainSubstring("0..*"))
			Expect(out).To(ContainSubstring("BookCategory"))
		})

		It("describes the ecore package", func() {
			MustBeSuccessful(run("describe", "ecore"))
			Expect(buf.String()).To(ContainSubstring("eStructuralFeatures"))
		})

		It("fails for unknown packages", func() {
			Expect(run("describe", LIBRARY)).To(MatchError(ecore.ErrUnknownPackage))
		})
	})

	Context("generate", func() {
		It("generates named objects", func() {
			MustBeSuccessful(run("-m", LIBRARY_MM, "generate", "gen/writers.xmi", "Writer", "--count", "3", "--seed", "1"))
			names := strings.Split(strings.TrimSpace(buf.String()), "\n")
			Expect(names).To(HaveLen(3))

			r := dynemf.RSet(fs).RegisterPath(LIBRARY_MM).Open("gen/writers.xmi")
			MustBeSuccessful(r.Err())
			Expect(r.FindRoots("Writer")).To(HaveLen(3))
			Expect(r.RootAt(2).Property("name").Unwrap()).To(Equal(names[2]))
		})

		It("uses qualified classes and other features", func() {
			MustBeSuccessful(run("-m", LIBRARY_MM, "generate", "gen/books.yaml", LIBRARY+"#Book", "-f", "title", "-s", "2"))
			r := dynemf.RSet(fs).RegisterPath(LIBRARY_MM).Open("gen/books.yaml")
			Expect(r.Root().Property("title").Unwrap()).To(Equal(strings.TrimSpace(buf.String())))
		})

		It("fails for unknown classes and features", func() {
			Expect(run("-m", LIBRARY_MM, "generate", "gen/x.xmi", "Shelf")).To(MatchError(ecore.ErrNotFound))
			Expect(run("-m", LIBRARY_MM, "generate", "gen/x.xmi", "Book")).To(MatchError(ecore.ErrUnknownFeature))
		})
	})

	Context("configuration", func() {
		BeforeEach(func() {
			os.Setenv("DYNEMF_METAMODEL", LIBRARY_MM)
			DeferCleanup(os.Unsetenv, "DYNEMF_METAMODEL")
		})

		It("reads metamodels from the config file", func() {
			MustBeSuccessful(vfs.WriteFile(fs, app.CONFIG_FILE, []byte("metamodels:\n- ${DYNEMF_METAMODEL}\n"), 0o600))
			cfg := app.ReadConfig(fs, app.CONFIG_FILE)
			Expect(cfg).NotTo(BeNil())
			Expect(cfg.Metamodels).To(Equal([]string{LIBRARY_MM}))

			MustBeSuccessful(run("digest", LIBRARY_MODEL))
			Expect(buf.String()).To(HaveSuffix("  " + LIBRARY_MODEL + "\n"))
		})

		It("merges configurations", func() {
			level := "debug"
			cfg := &app.Config{Metamodels: []string{"a"}}
			app.MergeConfig(cfg, &app.Config{Metamodels: []string{"b"}, LogLevel: &level})
			app.MergeConfig(cfg, nil)
			Expect(cfg.Metamodels).To(Equal([]string{"a", "b"}))
			Expect(*cfg.LogLevel).To(Equal("debug"))
		})

		It("ignores invalid files", func() {
			MustBeSuccessful(vfs.WriteFile(fs, app.CONFIG_FILE, []byte("metamodels: {"), 0o600))
			Expect(app.ReadConfig(fs, app.CONFIG_FILE)).To(BeNil())
			Expect(app.ReadConfig(fs, "missing")).To(BeNil())
		})

		It("rejects invalid log levels", func() {
			Expect(run("-L", "loud", "describe", "ecore")).To(HaveOccurred())
		})
	})
})
