// Copyright (C) 2020  Ambassador Labs (for Telepresence)
// Copyright (C) 2021-2026  Ambassador Labs (for ocibuild and zerv)
//
// SPDX-License-Identifier: Apache-2.0
//
// Contains code from
// https://github.com/telepresenceio/telepresence/blob/3b63073ceafae6b548c664a83f7ac90497eab2ae/pkg/client/cli/command.go

package cliutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// UsageError is a bad invocation, as opposed to a failure of the command itself.  Its message
// ends by pointing at --help; callers should print it as-is and exit with status 2.
type UsageError struct {
	CommandPath string
	Err         error
}

func (e *UsageError) Error() string {
	// If the error is multiple lines, include an extra blank line before the "See --help" line.
	errStr := strings.TrimRight(e.Err.Error(), "\n")
	if strings.Contains(errStr, "\n") {
		errStr += "\n"
	}
	return fmt.Sprintf("%s: %s\nSee '%s --help' for more information.",
		e.CommandPath, errStr, e.CommandPath)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// OnlySubcommands is a cobra.PositionalArgs that is similar to cobra.NoArgs, but prints a better
// error message.
func OnlySubcommands(cmd *cobra.Command, args []string) error {
	// Copyright note: This code was originally written by LukeShu for Telepresence.
	if len(args) != 0 {
		err := fmt.Errorf("invalid subcommand %q", args[0])

		if cmd.SuggestionsMinimumDistance <= 0 {
			cmd.SuggestionsMinimumDistance = 2
		}
		if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
			err = fmt.Errorf("%w\nDid you mean one of these?\n\t%s", err, strings.Join(suggestions, "\n\t"))
		}

		return cmd.FlagErrorFunc()(cmd, err)
	}
	return nil
}

// WrapPositionalArgs wraps a cobra.PositionalArgs to have it pass any errors through FlagErrorFunc,
// in order to have more consistent bad-usage reporting.
func WrapPositionalArgs(inner cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return FlagErrorFunc(cmd, inner(cmd, args))
	}
}

// RunSubcommands is for use as a cobra.Command.RunE for commands that don't do anything
// themselves but have subcommands.  It prints the help to stderr and returns a *UsageError, so
// that running such a command bare is not a success.
func RunSubcommands(cmd *cobra.Command, args []string) error {
	// Copyright note: This code was originally written by LukeShu for Telepresence.
	cmd.SetOut(cmd.ErrOrStderr())
	cmd.HelpFunc()(cmd, args)
	return &UsageError{
		CommandPath: cmd.CommandPath(),
		Err:         fmt.Errorf("a subcommand is required"),
	}
}

// FlagErrorFunc is a function to be passed to (*cobra.Command).SetFlagErrorFunc that establishes
// GNU-ish behavior for invalid flag usage: it wraps err in a *UsageError, so that
// (*cobra.Command).Execute's caller can tell usage errors from execution errors.
func FlagErrorFunc(cmd *cobra.Command, err error) error {
	// Copyright note: This code was originally written by LukeShu for Telepresence.
	if err == nil {
		return nil
	}
	return &UsageError{
		CommandPath: cmd.CommandPath(),
		Err:         err,
	}
}
