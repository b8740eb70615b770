package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/goombaio/namegenerator"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/dynemf/pkg/dynemf"
	"github.com/mandelsoft/dynemf/pkg/ecore"
)

type Generate struct {
	cmd      *cobra.Command
	mainopts *Options
	count    int
	feature  string
	seed     int64
}

func NewGenerate(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <out> [<nsURI>#]<class>",
		Short: "generate a model with instances of a class",
		Long: `
The model contains the given number of root objects of the class.
The selected feature of each object is set to a generated name.
Without namespace URI the class is searched in all registered
metamodels.
`,
		Args: cobra.ExactArgs(2),
	}
	c := &Generate{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args[0], args[1]) }
	flags := cmd.Flags()
	flags.IntVarP(&c.count, "count", "c", 1, "number of generated objects")
	flags.StringVarP(&c.feature, "feature", "f", "name", "feature set to the generated name")
	flags.Int64VarP(&c.seed, "seed", "s", 0, "seed for the name generator")
	return cmd
}

func (c *Generate) Run(out, class string) error {
	rs := c.mainopts.RSet()
	mm, name, err := findPackage(rs, class)
	if err != nil {
		return err
	}

	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	generator := namegenerator.NewNameGenerator(seed)

	r := rs.Create(out)
	for i := 0; i < c.count; i++ {
		r.Add(mm.Create(name).Set(c.feature, generator.Generate()))
	}
	if err := r.Save().Err(); err != nil {
		return err
	}
	log.Info("generated {{count}} objects of class {{class}}", "count", c.count, "class", name)
	for _, o := range r.Roots() {
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s\n", o.Property(c.feature).Unwrap())
	}
	return nil
}

func findPackage(rs *dynemf.ResourceSetWrapper, class string) (*dynemf.EPackageWrapper, string, error) {
	if err := rs.Err(); err != nil {
		return nil, "", err
	}
	if i := strings.LastIndex(class, "#"); i >= 0 {
		mm := rs.EPackage(class[:i])
		return mm, class[i+1:], mm.Err()
	}
	for _, n := range rs.Result().PackageRegistry().NsURIs() {
		if mm := rs.EPackage(n); mm.Class(class) != nil {
			return mm, class, nil
		}
	}
	return nil, "", fmt.Errorf("%w: class %q in registered packages", ecore.ErrNotFound, class)
}
