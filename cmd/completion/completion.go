package completion

import (
	"fmt"
	"os"

	"github.com/carapace-sh/carapace"
	"github.com/spf13/cobra"

	"github.com/snmp-tools/mibfs/internal/cmd/utils"
)

var supportedShells = []string{"bash", "zsh", "fish", "elvish", "nushell", "powershell"}

func CompletionCommand() *cobra.Command {
	cmd := cobra.Command{
		Use:                   "completion {bash|zsh|fish|elvish|nushell|powershell}",
		Short:                 "Generate completion scripts",
		Long:                  "Generate completion scripts for use in shells. Module names are completed from the configured sources.",
		Hidden:                true,
		DisableFlagsInUseLine: true,
		ValidArgs:             supportedShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := carapace.Gen(cmd.Root()).Snippet(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return cmdUtils.CommandErrorHandler(err)
			}
			fmt.Println(script)
			return nil
		},
	}

	cmdUtils.SetHelpFlagText(&cmd)

	return &cmd
}
