package app

import (
	"fmt"
	"io"
	"path"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/dynemf/pkg/dynemf"
	"github.com/mandelsoft/dynemf/pkg/ecore"
)

const DEMO_NSURI = "http://DynEMF/demo/1.0"

type Demo struct {
	cmd      *cobra.Command
	mainopts *Options
}

func NewDemo(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo <dir>",
		Short: "run the fluent API walkthrough",
		Long: `
The demo stores a small metamodel in the given directory, registers it,
creates and modifies a model, extends the metamodel reflectively and
saves the result as XMI and binary resource.
`,
		Args: cobra.ExactArgs(1),
	}
	c := &Demo{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args[0]) }
	return cmd
}

// DemoMetamodel provides a package with class A having a name and
// contained children.
func DemoMetamodel() *ecore.Package {
	p := ecore.NewPackage("demo", DEMO_NSURI, "demo")
	a := p.NewClass("A")
	a.NewAttribute("name", ecore.EString)
	a.NewReference("a", a).Many().Containment()
	return p
}

func (c *Demo) Run(dir string) error {
	w := c.cmd.OutOrStdout()
	fs := c.mainopts.fs

	err := fs.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}
	mmpath := path.Join(dir, "demo.ecore")
	err = dynemf.RSet(fs).Create(mmpath).Add(DemoMetamodel()).Save().Err()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "metamodel stored in %s\n", mmpath)

	rs := dynemf.RSet(fs).RegisterPath(mmpath)
	mm := rs.EPackage(DEMO_NSURI)

	root := mm.Create("A").Set("name", "root").
		Add("a", mm.Create("A").Set("name", "first")).
		Add("a", mm.Create("A").Set("name", "second"))
	model := rs.Create(path.Join(dir, "model.xmi")).Add(root).Save()
	if err := model.Err(); err != nil {
		return err
	}
	fmt.Fprintf(w, "model stored in %s\n", model.URI())
	list(w, model.Root())

	second := root.Property("a").AsList().At(1)
	root.Remove("a", second)
	if err := root.Err(); err != nil {
		return err
	}
	fmt.Fprintf(w, "removed %s\n", second.Property("name").Unwrap())
	list(w, root)

	eco := dynemf.Ecore()
	b := dynemf.CreateAs[*ecore.Class](eco).
		Set("name", "B").
		Add("eSuperTypes", mm.Class("A")).
		Add("eStructuralFeatures", eco.Create("EAttribute").
			Set("name", "value").
			Set("eType", ecore.EInt))
	if err := mm.AsEObject().Add("eClassifiers", b).Err(); err != nil {
		return err
	}
	fmt.Fprintf(w, "metamodel extended by class B\n")

	root.Add("a", mm.Create("B").Set("name", "third").Set("value", 3))
	if err := root.Err(); err != nil {
		return err
	}
	list(w, root)

	if err := model.Save().Err(); err != nil {
		return err
	}
	if err := dynemf.Resource(mm.Result().EResource()).Save().Err(); err != nil {
		return err
	}
	bin := rs.Create(path.Join(dir, "model.bin")).Load(path.Join(dir, "model.xmi")).Save()
	if err := bin.Err(); err != nil {
		return err
	}
	fmt.Fprintf(w, "model stored in %s and %s\n", model.URI(), bin.URI())
	return nil
}

func list(w io.Writer, o *dynemf.EObjectWrapper) {
	fmt.Fprintf(w, "%s:", o.Property("name").Unwrap())
	for _, e := range o.Property("a").AsList().All() {
		fmt.Fprintf(w, " %s", e.Property("name").Unwrap())
	}
	fmt.Fprintln(w)
}
