package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/ccreverse/pkg/pipeline"
)

// completionCommand generates shell completion scripts on stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ccreverse.

Bash:
  $ source <(ccreverse completion bash)

Zsh:
  $ ccreverse completion zsh > "${fpath[1]}/_ccreverse"

Fish:
  $ ccreverse completion fish > ~/.config/fish/completions/ccreverse.fish

PowerShell:
  PS> ccreverse completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// graphFormats lists the graph formats, which double as file extensions.
var graphFormats = []string{pipeline.FormatDOT, pipeline.FormatSVG}

// completeBuildDir completes the source argument with directories only.
func completeBuildDir(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// registerReverseCompletions wires flag completion for the reverse command.
func registerReverseCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeBuildDir
	_ = cmd.MarkFlagDirname("output")
	_ = cmd.RegisterFlagCompletionFunc("graph", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return graphFormats, cobra.ShellCompDirectiveFilterFileExt
	})
}

// registerGraphCompletions wires flag completion for the graph command.
func registerGraphCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeBuildDir
	_ = cmd.MarkFlagFilename("output", graphFormats...)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return graphFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
