package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/dynemf/pkg/dynemf"
	"github.com/mandelsoft/dynemf/pkg/ecore"
)

type Dump struct {
	cmd      *cobra.Command
	mainopts *Options
}

func NewDump(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <model>",
		Short: "print the containment tree of a model",
		Args:  cobra.ExactArgs(1),
	}
	c := &Dump{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args[0]) }
	return cmd
}

func (c *Dump) Run(path string) error {
	r := c.mainopts.RSet().Open(path)
	if err := r.Err(); err != nil {
		return err
	}
	for _, o := range r.Roots() {
		DumpObject(c.cmd.OutOrStdout(), r.Result(), "", "", o)
	}
	return nil
}

// DumpObject prints an object with its set attributes and
// cross references followed by its contained objects.
func DumpObject(w io.Writer, r *ecore.Resource, indent, feature string, o *dynemf.EObjectWrapper) {
	var b strings.Builder
	b.WriteString(indent)
	if feature != "" {
		b.WriteString(feature + ": ")
	}
	b.WriteString(o.EClass().Name())

	var containments []ecore.StructuralFeature
	for _, f := range o.EClass().AllStructuralFeatures() {
		if ref, ok := f.(*ecore.Reference); ok {
			if ref.IsContainment() {
				containments = append(containments, f)
				continue
			}
			if ref.IsContainer() {
				continue
			}
		}
		if !o.IsSet(f.Name()) {
			continue
		}
		fmt.Fprintf(&b, " %s=%s", f.Name(), formatValue(r, o.Property(f.Name())))
	}
	fmt.Fprintln(w, b.String())

	for _, f := range containments {
		v := o.Property(f.Name())
		if v.IsList() {
			for _, e := range v.AsList().All() {
				DumpObject(w, r, indent+"  ", f.Name(), e)
			}
		} else if v.IsEObject() {
			DumpObject(w, r, indent+"  ", f.Name(), v.AsEObject())
		}
	}
}

func formatValue(r *ecore.Resource, v dynemf.Value) string {
	switch {
	case v.IsNull():
		return "null"
	case v.IsList():
		var elems []string
		for _, e := range v.AsList().Values() {
			elems = append(elems, formatValue(r, e))
		}
		return "[" + strings.Join(elems, " ") + "]"
	case v.IsLiteral():
		return v.AsLiteral().Name()
	case v.IsEObject():
		o := v.AsEObject().Result()
		if o.EResource() == r {
			return r.URIFragment(o)
		}
		if o.EResource() != nil {
			return string(o.EResource().URI()) + "#" + o.EResource().URIFragment(o)
		}
		return o.EClass().Name()
	}
	if s, ok := v.Unwrap().(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v.Unwrap())
}
