package aliases

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/snmp-tools/mibfs/internal/cmd/opts"
	"github.com/snmp-tools/mibfs/internal/cmd/utils"
	"github.com/snmp-tools/mibfs/internal/settings"
	"github.com/snmp-tools/mibfs/internal/utils"
)

func AliasCommand() *cobra.Command {
	opts := cmdOpts.AliasesOpts{}

	cmd := cobra.Command{
		Use:   "aliases",
		Short: "List configured aliases",
		Long:  "List configured aliases and what commands they resolve to.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdUtils.CommandErrorHandler(aliasesMain(cmd, &opts))
		},
	}

	cmdUtils.SetHelpFlagText(&cmd)
	cmd.Flags().BoolVarP(&opts.DisplayJson, "json", "j", false, "Output aliases in JSON format")

	return &cmd
}

// Resolve the effective alias table: defaults (if enabled) overridden
// by configured aliases.
func resolveAliases(cfg *settings.Settings) map[string][]string {
	aliases := make(map[string][]string)

	if cfg.UseDefaultAliases {
		maps.Copy(aliases, settings.DefaultAliases)
	}
	maps.Copy(aliases, cfg.Aliases)

	return aliases
}

func aliasesMain(cmd *cobra.Command, opts *cmdOpts.AliasesOpts) error {
	cfg := settings.FromContext(cmd.Context())

	aliases := resolveAliases(cfg)

	if opts.DisplayJson {
		bytes, _ := json.MarshalIndent(aliases, "", "  ")
		fmt.Printf("%v\n", string(bytes))
		return nil
	}

	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		fmt.Fprintf(os.Stdout, "%s :: %s\n", alias, utils.EscapeAndJoinArgs(aliases[alias]))
	}

	return nil
}
