package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tubetrend/internal/config"
	"github.com/matzehuels/tubetrend/pkg/stats"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for tubetrend.

Besides subcommands, the scripts complete region codes for --region,
output formats for --format, sort fields for --sort, and cache backends
for --cache.

Load for the current shell:
  bash:        source <(tubetrend completion bash)
  zsh:         source <(tubetrend completion zsh)
  fish:        tubetrend completion fish | source
  powershell:  tubetrend completion powershell | Out-String | Invoke-Expression

Install permanently, for example:
  tubetrend completion bash > ~/.local/share/bash-completion/completions/tubetrend
  tubetrend completion zsh > "${fpath[1]}/_tubetrend"
  tubetrend completion fish > ~/.config/fish/completions/tubetrend.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(c.Out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}

	return cmd
}

// completeRegions offers region codes described by their names.
func completeRegions(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := strings.ToUpper(toComplete)
	var out []string
	for _, r := range videos.Regions {
		if strings.HasPrefix(r.Code, prefix) {
			out = append(out, r.Code+"\t"+r.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return outputFormats, cobra.ShellCompDirectiveNoFileComp
}

func completeSortFields(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(stats.SortFields))
	for i, f := range stats.SortFields {
		out[i] = string(f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeBackends(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{config.BackendMemory, config.BackendFile, config.BackendRedis, config.BackendNone},
		cobra.ShellCompDirectiveNoFileComp
}
