package cliutil

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	cobra.AddTemplateFunc("flagGroups", FlagGroups)
	cobra.AddTemplateFunc("getTerminalWidth", GetTerminalWidth)
	cobra.AddTemplateFunc("wrap", Wrap)
	cobra.AddTemplateFunc("wrapIndent", WrapIndent)
	cobra.AddTemplateFunc("add", func(args ...int) int {
		ret := 0
		for _, arg := range args {
			ret += arg
		}
		return ret
	})
}

// flagGroupKey is both the pflag annotation naming a flag's group, and the cobra annotation
// listing a command's groups in order (newline-separated).
const flagGroupKey = "cliutil_flag_group"

// AddFlagGroup calls register to define flags on cmd, and files them under a "NAME Flags:"
// heading in HelpTemplate.  Groups are listed after the ungrouped flags, in the order they were
// added.
func AddFlagGroup(cmd *cobra.Command, name string, register func(*pflag.FlagSet)) {
	group := pflag.NewFlagSet(name, pflag.ContinueOnError)
	register(group)
	group.VisitAll(func(flag *pflag.Flag) {
		_ = group.SetAnnotation(flag.Name, flagGroupKey, []string{name})
	})
	cmd.Flags().AddFlagSet(group)

	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	order := groupOrder(cmd)
	if !lo.Contains(order, name) {
		cmd.Annotations[flagGroupKey] = strings.Join(append(order, name), "\n")
	}
}

func groupOrder(cmd *cobra.Command) []string {
	str := cmd.Annotations[flagGroupKey]
	if str == "" {
		return nil
	}
	return strings.Split(str, "\n")
}

// FlagGroup is a heading of local flags in HelpTemplate.  Name is empty for the ungrouped
// flags.
type FlagGroup struct {
	Name  string
	Flags *pflag.FlagSet
}

// FlagGroups splits the visible local flags of cmd by the groups set with AddFlagGroup.
// Groups with no visible flags are left out.
func FlagGroups(cmd *cobra.Command) []FlagGroup {
	local := cmd.LocalFlags()
	sets := make(map[string]*pflag.FlagSet)
	local.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		var name string
		if names := flag.Annotations[flagGroupKey]; len(names) > 0 {
			name = names[0]
		}
		set, ok := sets[name]
		if !ok {
			set = pflag.NewFlagSet(name, pflag.ContinueOnError)
			set.SortFlags = local.SortFlags
			sets[name] = set
		}
		set.AddFlag(flag)
	})

	var ret []FlagGroup
	for _, name := range append([]string{""}, groupOrder(cmd)...) {
		if set, ok := sets[name]; ok {
			ret = append(ret, FlagGroup{Name: name, Flags: set})
		}
	}
	return ret
}

// HelpTemplate is a cobra help template that word-wraps to the terminal and lists flags by
// their AddFlagGroup group.
const HelpTemplate = `Usage: {{ .UseLine }}

{{- /* Short help text ---------------------------------------------------- */}}
{{- if .Short }}
{{ .Short }}
{{- end }}

{{- /* Long help text ----------------------------------------------------- */}}
{{- if .Long }}

{{ .Long | wrap getTerminalWidth | trimTrailingWhitespaces }}
{{- end }}

{{- /* Aliases ------------------------------------------------------------ */}}
{{- if .Aliases }}

Aliases:
  {{ .NameAndAliases }}
{{- end }}

{{- /* Examples ----------------------------------------------------------- */}}
{{- if .HasExample }}

Examples:
{{ .Example }}
{{- end }}

{{- /* Subcommands -------------------------------------------------------- */}}
{{- if .HasAvailableSubCommands }}

Available Commands:
{{- range .Commands}}
  {{- if (or .IsAvailableCommand (eq .Name "help")) }}
    {{- "\n" }}  {{ rpad .Name .NamePadding }}   {{ .Short | wrapIndent (add .NamePadding 5) getTerminalWidth }}
  {{- end }}
{{- end }}
{{- end }}

{{- /* Local Flags -------------------------------------------------------- */}}
{{- if .HasAvailableLocalFlags }}
  {{- range flagGroups . }}

{{ with .Name }}{{ . }} {{ end }}Flags:
{{ getTerminalWidth | .Flags.FlagUsagesWrapped | trimTrailingWhitespaces }}
  {{- end }}
{{- end }}

{{- /* Global flags ------------------------------------------------------- */}}
{{- if .HasAvailableInheritedFlags }}

Global Flags:
{{ getTerminalWidth | .InheritedFlags.FlagUsagesWrapped | trimTrailingWhitespaces }}
{{- end }}

{{- /* Help topics -------------------------------------------------------- */}}
{{- if .HasHelpSubCommands }}

Additional help topics:
{{- range .Commands }}
  {{- if .IsAdditionalHelpTopicCommand }}
    {{- "\n" }}  {{ rpad .CommandPath .CommandPathPadding }}   {{ .Short | wrapIndent (add .NamePadding 5) getTerminalWidth }}
  {{- end }}
{{- end }}
{{- end }}

{{- /* Help footer -------------------------------------------------------- */}}
{{- if .HasAvailableSubCommands }}

Use "{{ .CommandPath }} [command] --help" for more information about a command.
{{- end}}
`
