// Copyright (C) 2026  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/datawire/zerv/pkg/bump"
	"github.com/datawire/zerv/pkg/cliutil"
	"github.com/datawire/zerv/pkg/config"
	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/output"
	"github.com/datawire/zerv/pkg/pipeline"
	"github.com/datawire/zerv/pkg/zerv"
)

// outputFlags are shared by the subcommands that print a version.
type outputFlags struct {
	Format   string
	Prefix   string
	Template string
}

func (o *outputFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.Format, "output-format", "",
		"Print the version as `FORMAT`: "+strings.Join(zerv.OutputFormats(), ", ")+" (default semver)")
	flags.StringVar(&o.Prefix, "output-prefix", "",
		"Prepend `PREFIX` to the output, e.g. 'v'")
	flags.StringVar(&o.Template, "output-template", "",
		"Print the version with the Go `TEMPLATE` instead, e.g. '{{.major}}.{{.minor}}'")
}

func (o outputFlags) options() output.Options {
	return output.Options{
		Format:   o.Format,
		Prefix:   o.Prefix,
		Template: o.Template,
	}
}

func registerBumps(flags *pflag.FlagSet, b *bump.Bumps) {
	levels := []struct {
		Name     string
		Override **uint64
		Bump     **uint64
	}{
		{"epoch", &b.Epoch, &b.BumpEpoch},
		{"major", &b.Major, &b.BumpMajor},
		{"minor", &b.Minor, &b.BumpMinor},
		{"patch", &b.Patch, &b.BumpPatch},
		{"pre-release-num", &b.PreReleaseNum, &b.BumpPreReleaseNum},
		{"post", &b.Post, &b.BumpPost},
		{"dev", &b.Dev, &b.BumpDev},
	}
	for _, level := range levels {
		flags.Var(cliutil.Uint64Ptr{Ptr: level.Override}, level.Name,
			fmt.Sprintf("Set the %s number to `N`", level.Name))
		cliutil.OptionalValue(flags, cliutil.Uint64Ptr{Ptr: level.Bump}, "bump-"+level.Name, "1",
			fmt.Sprintf("Add `N` to the %s number (default 1), resetting lower levels", level.Name))
	}
	flags.StringVar(&b.PreReleaseLabel, "pre-release-label", "",
		"Set the pre-release `LABEL` (alpha, beta, rc)")
	flags.StringVar(&b.BumpPreReleaseLabel, "bump-pre-release-label", "",
		"Switch to the pre-release `LABEL` (alpha, beta, rc) and reset lower levels")

	sections := []struct {
		Name     string
		Override *[]string
		Bump     *[]string
	}{
		{"core", &b.Core, &b.BumpCore},
		{"extra-core", &b.ExtraCore, &b.BumpExtraCore},
		{"build", &b.Build, &b.BumpBuild},
	}
	for _, sec := range sections {
		flags.StringArrayVar(sec.Override, sec.Name, nil,
			fmt.Sprintf("Set the %s schema component at `INDEX=VALUE`; a negative INDEX counts from the end", sec.Name))
		flags.StringArrayVar(sec.Bump, "bump-"+sec.Name, nil,
			fmt.Sprintf("Add to the %s schema component at `INDEX[=N]` (default 1)", sec.Name))
	}
}

func registerContext(flags *pflag.FlagSet, c *bump.Context) {
	flags.StringVar(&c.TagVersion, "tag-version", "",
		"Use `VERSION` instead of the latest tag")
	flags.Var(cliutil.Uint64Ptr{Ptr: &c.Distance}, "distance",
		"Pretend to be `N` commits past the tag")
	flags.BoolVar(&c.Dirty, "dirty", false,
		"Pretend the working tree has uncommitted changes")
	flags.BoolVar(&c.NoDirty, "no-dirty", false,
		"Pretend the working tree is clean")
	flags.BoolVar(&c.Clean, "clean", false,
		"Pretend to be a clean checkout of the tag (no distance, not dirty)")
	flags.Var(cliutil.StringPtr{Ptr: &c.BumpedBranch}, "bumped-branch",
		"Use `BRANCH` as the current branch")
	flags.Var(cliutil.StringPtr{Ptr: &c.BumpedCommitHash}, "bumped-commit-hash",
		"Use `HASH` as the current commit")
	flags.Var(cliutil.Int64Ptr{Ptr: &c.BumpedTimestamp}, "bumped-timestamp",
		"Use `UNIX_SECONDS` as the current commit time")
	flags.StringVar(&c.Custom, "custom", "",
		"Set the custom variables to the `JSON` object")
	flags.BoolVar(&c.BumpContext, "bump-context", false,
		"Include the VCS context (the default)")
	flags.BoolVar(&c.NoBumpContext, "no-bump-context", false,
		"Ignore the VCS context; print the pure tag version")
}

func newVersionCommand() *cobra.Command {
	var flags struct {
		Source      string
		Dir         string
		InputFormat string
		TagPattern  string
		Schema      string
		SchemaFile  string
		Config      string
		Output      outputFlags
		Context     bump.Context
		Bumps       bump.Bumps
	}
	cmd := &cobra.Command{
		Use:   "version [flags]",
		Short: "Compute the version of a checkout",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		Long: "Compute a version from the latest version tag reachable from HEAD and the " +
			"state of the checkout (distance from the tag, branch, commit, and whether there " +
			"are uncommitted changes), lay it out according to a schema, apply any overrides " +
			"and bumps, and print it." +
			"\n\n" +
			"With --source=stdin, the variables and schema are read from the output of " +
			"`zerv version --output-format=zerv`, so that invocations can be chained.  With " +
			"--source=none, no VCS is consulted and --tag-version supplies the version." +
			"\n\n" +
			"Defaults are read from " + config.DefaultFile + " in the working directory, if it exists.",

		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, flags.Config)
			if err != nil {
				return err
			}

			var schemaText string
			if flags.SchemaFile != "" {
				bs, err := os.ReadFile(flags.SchemaFile)
				if err != nil {
					return errors.Wrap(errors.ErrCodeIO, "reading schema file", err).
						WithContext("file", flags.SchemaFile)
				}
				schemaText = string(bs)
			}

			out, err := pipeline.Version(ctx, pipeline.VersionArgs{
				Source:      flags.Source,
				Dir:         flags.Dir,
				Stdin:       cmd.InOrStdin(),
				InputFormat: flags.InputFormat,
				TagPattern:  flags.TagPattern,
				Schema:      flags.Schema,
				SchemaText:  schemaText,
				Context:     flags.Context,
				Bumps:       flags.Bumps,
				Output:      flags.Output.options(),
				Config:      cfg,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&flags.Source, "source", "s", "",
		"Read the version from `SOURCE`: "+strings.Join(pipeline.Sources(), ", ")+" (default git)")
	cmd.Flags().StringVarP(&flags.Dir, "directory", "C", "",
		"Inspect the git checkout in `DIR` instead of the working directory")
	cmd.Flags().StringVarP(&flags.InputFormat, "input-format", "f", "",
		"Parse tags as `FORMAT`: "+strings.Join(zerv.InputFormats(), ", ")+" (default auto)")
	cmd.Flags().StringVar(&flags.TagPattern, "tag-pattern", "",
		"Only consider tags matching the glob `PATTERN`")
	cmd.Flags().StringVar(&flags.Schema, "schema", "",
		"Lay the version out with the schema `NAME`; see `zerv schema list`")
	cmd.Flags().StringVar(&flags.SchemaFile, "schema-file", "",
		"Lay the version out with the schema in `FILE`")
	cmd.Flags().StringVar(&flags.Config, "config", "",
		"Read defaults from `FILE` instead of "+config.DefaultFile)
	cliutil.AddFlagGroup(cmd, "Output", flags.Output.register)
	cliutil.AddFlagGroup(cmd, "Context", func(fs *pflag.FlagSet) {
		registerContext(fs, &flags.Context)
	})
	cliutil.AddFlagGroup(cmd, "Override and Bump", func(fs *pflag.FlagSet) {
		registerBumps(fs, &flags.Bumps)
	})

	return cmd
}
