package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/dynemf/pkg/ecore"
)

type Convert struct {
	cmd      *cobra.Command
	mainopts *Options
	uuids    bool
	indent   string
}

func NewConvert(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "convert a model",
		Long: `
The format of the input and output file is selected by the file
extension: .xmi and .ecore for XMI, .bin for the binary format,
.yaml or .yml for YAML and .json for JSON. Other extensions use XMI.
`,
		Args: cobra.ExactArgs(2),
	}
	c := &Convert{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args[0], args[1]) }
	flags := cmd.Flags()
	flags.BoolVarP(&c.uuids, "uuids", "u", false, "store object ids")
	flags.StringVarP(&c.indent, "indent", "i", "", "indentation for JSON output")
	return cmd
}

func (c *Convert) Run(in, out string) error {
	opts := ecore.Options{}
	if c.uuids {
		opts[ecore.OptionUseUUIDs] = true
	}
	if c.indent != "" {
		opts[ecore.OptionIndent] = c.indent
	}
	r := c.mainopts.RSet().Create(out).Load(in).Save(opts)
	if err := r.Err(); err != nil {
		return err
	}
	log.Info("converted {{in}} to {{out}}", "in", in, "out", out)
	fmt.Fprintf(c.cmd.OutOrStdout(), "%s: %d root object(s)\n", r.URI(), r.Len())
	return nil
}
