package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fractals.

To load completions:

Bash:
  $ source <(fractals completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ fractals completion bash > /etc/bash_completion.d/fractals
  # macOS:
  $ fractals completion bash > $(brew --prefix)/etc/bash_completion.d/fractals

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ fractals completion zsh > "${fpath[1]}/_fractals"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ fractals completion fish | source

  # To load completions for each session, execute once:
  $ fractals completion fish > ~/.config/fish/completions/fractals.fish

PowerShell:
  PS> fractals completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> fractals completion powershell > fractals.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), cmd.OutOrStdout(), args[0], !noDesc)
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")
	return cmd
}

// writeCompletion generates the completion script for shell.
func writeCompletion(root *cobra.Command, w io.Writer, shell string, desc bool) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, desc)
	case "zsh":
		if desc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	case "fish":
		return root.GenFishCompletion(w, desc)
	case "powershell":
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	default:
		return fmt.Errorf("unsupported shell %q", shell)
	}
}
