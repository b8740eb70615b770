package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

type Digest struct {
	cmd      *cobra.Command
	mainopts *Options
}

func NewDigest(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest {<model>}",
		Short: "print the content digest of models",
		Long: `
The digest is calculated for the canonical form of the model content.
It does not depend on the serialization format or the location of
the model.
`,
		Args: cobra.MinimumNArgs(1),
	}
	c := &Digest{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	return cmd
}

func (c *Digest) Run(paths []string) error {
	rs := c.mainopts.RSet()
	for _, p := range paths {
		d, err := rs.Open(p).Digest()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s  %s\n", d, p)
	}
	return nil
}
