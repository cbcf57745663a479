package cli

import (
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/mithrel/notebook/internal/present"
	"github.com/mithrel/notebook/internal/render"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion [bash|zsh|fish|powershell]",
		Short:       "Generate shell completion scripts",
		Args:        cobra.ExactArgs(1),
		ValidArgs:   []string{"bash", "zsh", "fish", "powershell"},
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
	return cmd
}

// matchCompletions returns candidates fuzzy-matching input, best first.
func matchCompletions(input string, candidates []string) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

func registerStyleCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("style", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return matchCompletions(toComplete, render.StyleNames), cobra.ShellCompDirectiveNoFileComp
	})
}

func registerOutputCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return matchCompletions(toComplete, present.Modes), cobra.ShellCompDirectiveNoFileComp
	})
}
