// Command zerv computes, converts, and renders version strings from VCS state.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datawire/zerv/pkg/cliutil"
)

var logger = logrus.New()

// extraSetup is run on the root command after the standard subcommands are added.
var extraSetup []func(root *cobra.Command)

func newArgparser() *cobra.Command {
	argparser := &cobra.Command{
		Use:   "zerv {[flags]|SUBCOMMAND...}",
		Short: "Dynamic versioning from VCS state, for SemVer and PEP 440",

		Args: cliutil.OnlySubcommands,
		RunE: cliutil.RunSubcommands,

		SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
		SilenceUsage:  true, // main() prints our FlagErrorFunc's *UsageError
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)

	var verbose bool
	argparser.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debugging information to stderr")
	argparser.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	}

	argparser.AddCommand(
		newVersionCommand(),
		newCheckCommand(),
		newRenderCommand(),
		newSchemaCommand(),
	)
	for _, setup := range extraSetup {
		setup(argparser)
	}
	return argparser
}

func main() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	ctx := dlog.WithLogger(context.Background(), dlog.WrapLogrus(logger))

	argparser := newArgparser()
	err := argparser.ExecuteContext(ctx)
	var usageErr *cliutil.UsageError
	switch {
	case err == nil:
	case errors.As(err, &usageErr):
		fmt.Fprintln(argparser.ErrOrStderr(), usageErr)
		os.Exit(2)
	default:
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
