package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datawire/zerv/pkg/cliutil"
	"github.com/datawire/zerv/pkg/pipeline"
	"github.com/datawire/zerv/pkg/zerv"
)

func newRenderCommand() *cobra.Command {
	var flags struct {
		InputFormat string
		Output      outputFlags
	}
	cmd := &cobra.Command{
		Use:   "render [flags] VERSION",
		Short: "Convert a version string from one format to another",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		Example: "" +
			"  $ zerv render --output-format=pep440 1.2.3-alpha.1\n" +
			"  1.2.3a1",

		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := pipeline.Render(cmd.Context(), pipeline.RenderArgs{
				Version:     args[0],
				InputFormat: flags.InputFormat,
				Output:      flags.Output.options(),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&flags.InputFormat, "input-format", "f", zerv.FormatAuto,
		"Parse VERSION as `FORMAT`: "+strings.Join(zerv.InputFormats(), ", "))
	cliutil.AddFlagGroup(cmd, "Output", flags.Output.register)

	return cmd
}
