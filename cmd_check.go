package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/datawire/zerv/pkg/cliutil"
	"github.com/datawire/zerv/pkg/errors"
	"github.com/datawire/zerv/pkg/pipeline"
)

var formatTitles = map[string]string{
	"semver": "SemVer",
	"pep440": "PEP 440",
}

func printCheck(w io.Writer, results []pipeline.CheckResult) error {
	for _, res := range results {
		title := formatTitles[res.Format]
		var err error
		switch {
		case res.Valid() && res.PreRelease:
			_, err = fmt.Fprintf(w, "%s valid %s version: %s %s\n",
				color.GreenString("✓"), title, res.Normalized, color.YellowString("(pre-release)"))
		case res.Valid():
			_, err = fmt.Fprintf(w, "%s valid %s version: %s\n",
				color.GreenString("✓"), title, res.Normalized)
		default:
			_, err = fmt.Fprintf(w, "%s invalid %s version: %v\n",
				color.RedString("✗"), title, res.Err)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func newCheckCommand() *cobra.Command {
	var flags struct {
		Format string
	}
	cmd := &cobra.Command{
		Use:   "check [flags] VERSION",
		Short: "Check whether a string is a valid version",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		Long: "Check VERSION against the SemVer and PEP 440 grammars, and print its " +
			"normalized form in each grammar that accepts it.  Fails if no grammar " +
			"accepts it.",

		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := pipeline.Check(cmd.Context(), args[0], flags.Format)
			if err != nil {
				return err
			}
			if err := printCheck(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			for _, res := range results {
				if res.Valid() {
					return nil
				}
			}
			var names []string
			for _, res := range results {
				names = append(names, formatTitles[res.Format])
			}
			return errors.Newf(errors.ErrCodeParse, "%q is not a valid %s version",
				args[0], strings.Join(names, " or "))
		},
	}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "auto",
		"Check against `FORMAT`: auto, semver, or pep440")

	return cmd
}
