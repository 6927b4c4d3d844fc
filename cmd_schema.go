package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/zerv/pkg/cliutil"
	"github.com/datawire/zerv/pkg/config"
	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/zerv"
)

func newSchemaCommand() *cobra.Command {
	argparserSchema := &cobra.Command{
		Use:   "schema {[flags]|SUBCOMMAND...}",
		Short: "Inspect and validate version schemas",

		Args: cliutil.OnlySubcommands,
		RunE: cliutil.RunSubcommands,
	}
	argparserSchema.AddCommand(
		newSchemaListCommand(),
		newSchemaShowCommand(),
		newSchemaValidateCommand(),
	)
	return argparserSchema
}

func newSchemaListCommand() *cobra.Command {
	var flags struct {
		Config string
	}
	cmd := &cobra.Command{
		Use:   "list [flags]",
		Short: "List the built-in presets and the schemas in the config file",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context(), flags.Config)
			if err != nil {
				return err
			}
			for _, name := range cfg.SchemaNames() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Config, "config", "",
		"Read schemas from `FILE` instead of "+config.DefaultFile)

	return cmd
}

func newSchemaShowCommand() *cobra.Command {
	var flags struct {
		Config string
		Dirty  bool
	}
	cmd := &cobra.Command{
		Use:   "show [flags] NAME",
		Short: "Print a schema in the structured notation",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		Long: "Print the schema NAME.  The smart presets depend on the state of the " +
			"checkout; they are shown for a clean checkout of a tag, or with --dirty for " +
			"a checkout with uncommitted changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context(), flags.Config)
			if err != nil {
				return err
			}
			var vars zerv.Vars
			if flags.Dirty {
				vars.Dirty = &flags.Dirty
			}
			schema, err := cfg.ResolveSchema(args[0], vars)
			if err != nil {
				return err
			}
			bs, err := zerv.MarshalSchema(schema)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(bs)
			return err
		},
	}
	cmd.Flags().StringVar(&flags.Config, "config", "",
		"Read schemas from `FILE` instead of "+config.DefaultFile)
	cmd.Flags().BoolVar(&flags.Dirty, "dirty", false,
		"Show a smart preset as it applies to a dirty checkout")

	return cmd
}

func newSchemaValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags] FILE",
		Short: "Check a schema file for errors",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeIO, "reading schema file", err).
					WithContext("file", args[0])
			}
			if _, err := zerv.ParseSchema(bs); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return err
		},
	}

	return cmd
}
