package app

import (
	"github.com/mandelsoft/goutils/errors"
	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/dynemf/pkg/dynemf"
	"github.com/mandelsoft/dynemf/pkg/utils"
)

type Options struct {
	fs         vfs.FileSystem
	metamodels []string
	level      string
}

// Complete merges the configuration files and configures logging.
func (o *Options) Complete() error {
	cfg := GetConfig(o.fs)
	o.metamodels = append(cfg.Metamodels, o.metamodels...)
	if o.level == "" && cfg.LogLevel != nil {
		o.level = *cfg.LogLevel
	}
	if o.level != "" {
		l, err := logging.ParseLevel(o.level)
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", o.level)
		}
		logging.DefaultContext().AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("dynemf")))
	}
	return nil
}

// RSet provides a resource set with all configured metamodels.
func (o *Options) RSet() *dynemf.ResourceSetWrapper {
	rs := dynemf.RSet(o.fs)
	for _, m := range o.metamodels {
		rs.RegisterPath(m)
	}
	return rs
}

func New(fss ...vfs.FileSystem) *cobra.Command {
	opts := &Options{
		fs: utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...),
	}

	maincmd := &cobra.Command{
		Use:   "dynemf <options> <cmd> <args>",
		Short: "work with dynamic models",
		Long: `
This command can be used to inspect, convert and generate models
for metamodels given as .ecore files. Metamodels are registered
with the --metamodel option or the metamodels list of the .dynemf
configuration file.
`,
		TraverseChildren: true,
		SilenceUsage:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.Complete()
		},
	}

	flags := maincmd.PersistentFlags()

	flags.StringArrayVarP(&opts.metamodels, "metamodel", "m", nil, "metamodel file")
	flags.StringVarP(&opts.level, "log-level", "L", "", "log level")

	maincmd.AddCommand(NewDemo(opts))
	maincmd.AddCommand(NewDump(opts))
	maincmd.AddCommand(NewConvert(opts))
	maincmd.AddCommand(NewDescribe(opts))
	maincmd.AddCommand(NewGenerate(opts))
	maincmd.AddCommand(NewDigest(opts))
	return maincmd
}
