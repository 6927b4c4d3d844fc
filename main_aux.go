//go:build aux

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/datawire/zerv/pkg/cliutil"
)

// docsCommand is a hidden "NAME OUT_DIRECTORY" subcommand that regenerates the documentation
// tree in OUT_DIRECTORY.
func docsCommand(name, short string, gen func(root *cobra.Command, dir string) error) *cobra.Command {
	return &cobra.Command{
		Hidden: true,
		Use:    name + " OUT_DIRECTORY",
		Short:  short,
		Args:   cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.RemoveAll(dir); err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0777); err != nil {
				return err
			}
			root := cmd.Root()
			root.DisableAutoGenTag = true
			return gen(root, dir)
		},
	}
}

func init() {
	extraSetup = append(extraSetup, func(root *cobra.Command) {
		// completion
		root.CompletionOptions.DisableDefaultCmd = false
		preRun := root.PersistentPreRun
		root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			preRun(cmd, args)
			if completionCmd, _, err := cmd.Root().Find([]string{"completion"}); err == nil {
				completionCmd.Hidden = true
			}
		}

		root.AddCommand(
			docsCommand("man", "Generate man pages", func(root *cobra.Command, dir string) error {
				return doc.GenManTree(root, &doc.GenManHeader{
					Source: "Ambassador Labs",
					Manual: root.Name(),
				}, dir)
			}),
			docsCommand("mddoc", "Generate markdown documentation", doc.GenMarkdownTree),
		)
	})
}
