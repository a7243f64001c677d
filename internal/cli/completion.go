package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/forumone/f1-ext-install/pkg/extension"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for f1-ext-install.

Bash:
  $ source <(f1-ext-install completion bash)

Zsh:
  $ f1-ext-install completion zsh > "${fpath[1]}/_f1-ext-install"

Fish:
  $ f1-ext-install completion fish | source

PowerShell:
  PS> f1-ext-install completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
}

// completeSpecifiers suggests specifiers for the registered extensions.
// Names outside the registry are still accepted; they just are not offered.
func completeSpecifiers(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, kind := range []extension.Kind{extension.KindBuiltin, extension.KindPecl} {
		for _, name := range extension.Known(kind) {
			spec := kind.String() + ":" + name.String()
			if strings.HasPrefix(spec, toComplete) {
				out = append(out, spec)
			}
		}
	}
	if !strings.Contains(toComplete, ":") {
		for _, prefix := range []string{extension.BuiltinPrefix, extension.PeclPrefix} {
			if strings.HasPrefix(prefix, toComplete) {
				out = append(out, prefix)
			}
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
