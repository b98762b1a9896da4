package cli

import (
	"github.com/spf13/cobra"
)

// Extensions offered when completing file arguments.
var (
	assetExtensions = []string{"kfm", "yaml", "yml"}
	patchExtensions = []string{"yaml", "yml"}
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for kfmtool.

File flags and arguments complete to .kfm and .yaml assets only.

  $ source <(kfmtool completion bash)
  $ kfmtool completion zsh > "${fpath[1]}/_kfmtool"
  $ kfmtool completion fish > ~/.config/fish/completions/kfmtool.fish
  PS> kfmtool completion powershell | Out-String | Invoke-Expression
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

// completeAssetArg completes a single positional asset file argument.
func completeAssetArg(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return assetExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// markAssetFlags restricts file completion of the named flags to assets.
func markAssetFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagFilename(name, assetExtensions...)
	}
}
