package root

import (
	"fmt"
	"os"

	"github.com/carapace-sh/carapace"
	"github.com/spf13/cobra"

	"github.com/snmp-tools/mibfs/internal/utils"
)

func addAliasCmd(parent *cobra.Command, alias string, args []string) error {
	displayedArgs := utils.EscapeAndJoinArgs(args)
	description := fmt.Sprintf("Alias for `%v`.", displayedArgs)

	for _, v := range parent.Commands() {
		if v.Name() == alias || v.HasAlias(alias) {
			return fmt.Errorf("alias conflicts with existing command '%s'", v.Name())
		}
	}

	if !parent.ContainsGroup("aliases") {
		parent.AddGroup(&cobra.Group{
			ID:    "aliases",
			Title: "Aliases",
		})
	}

	cmd := &cobra.Command{
		Use:                alias,
		Short:              description,
		Long:               description,
		GroupID:            "aliases",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, passedArgs []string) error {
			fullArgsList := append(append([]string{}, args...), passedArgs...)

			root := cmd.Root()
			root.SetArgs(fullArgsList)
			return root.Execute()
		},
	}

	parent.AddCommand(cmd)

	carapace.Gen(cmd).PositionalAnyCompletion(
		carapace.ActionCallback(
			func(c carapace.Context) carapace.Action {
				// Completing an alias is delegated to the hidden carapace
				// export command, run against the resolved arguments.
				completionArgv := []string{os.Args[0], "_carapace", "export", ""}
				completionArgv = append(completionArgv, args...)
				completionArgv = append(completionArgv, c.Args...)
				completionArgv = append(completionArgv, c.Value)

				return carapace.ActionExecCommand(completionArgv[0], completionArgv[1:]...)(func(output []byte) carapace.Action {
					if string(output) == "" {
						return carapace.ActionValues()
					}
					return carapace.ActionImport(output)
				})
			},
		),
	)

	return nil
}
