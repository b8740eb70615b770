package app

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/dynemf/pkg/dynemf"
	"github.com/mandelsoft/dynemf/pkg/ecore"
)

type Describe struct {
	cmd      *cobra.Command
	mainopts *Options
	all      bool
}

func NewDescribe(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <nsURI>|ecore",
		Short: "list the classes and features of a metamodel",
		Args:  cobra.ExactArgs(1),
	}
	c := &Describe{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args[0]) }
	cmd.Flags().BoolVarP(&c.all, "all", "a", false, "include inherited features")
	return cmd
}

func (c *Describe) Run(nsURI string) error {
	var mm *dynemf.EPackageWrapper
	if nsURI == "ecore" {
		mm = dynemf.Ecore()
	} else {
		mm = c.mainopts.RSet().EPackage(nsURI)
	}
	if err := mm.Err(); err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.cmd.OutOrStdout())
	table.Header("Class", "Feature", "Type", "Kind", "Bounds")
	for _, cls := range mm.Result().Classes() {
		name := cls.Name()
		if cls.IsAbstract() {
			name += " (abstract)"
		}
		features := cls.EStructuralFeatures()
		if c.all {
			features = cls.AllStructuralFeatures()
		}
		if len(features) == 0 {
			table.Append(name, "", superTypes(cls), "", "")
			continue
		}
		for _, f := range features {
			table.Append(name, f.Name(), typeName(f.EType()), featureKind(f), bounds(f))
			name = ""
		}
	}
	return table.Render()
}

func superTypes(c *ecore.Class) string {
	var names []string
	for _, s := range c.ESuperTypes() {
		names = append(names, s.Name())
	}
	if len(names) == 0 {
		return ""
	}
	return "extends " + strings.Join(names, ", ")
}

func typeName(c ecore.Classifier) string {
	if c == nil {
		return ""
	}
	return c.Name()
}

func featureKind(f ecore.StructuralFeature) string {
	switch e := f.(type) {
	case *ecore.Attribute:
		if e.IsID() {
			return "id"
		}
		return "attribute"
	case *ecore.Reference:
		switch {
		case e.IsContainment():
			return "containment"
		case e.IsContainer():
			return "container"
		case e.EOpposite() != nil:
			return "reference <-> " + e.EOpposite().Name()
		}
		return "reference"
	}
	return ""
}

func bounds(f ecore.StructuralFeature) string {
	if f.UpperBound() == ecore.Unbounded {
		return fmt.Sprintf("%d..*", f.LowerBound())
	}
	return fmt.Sprintf("%d..%d", f.LowerBound(), f.UpperBound())
}
