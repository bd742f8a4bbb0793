package list

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/snmp-tools/mibfs/internal/artifact"
	"github.com/snmp-tools/mibfs/internal/cmd/opts"
	"github.com/snmp-tools/mibfs/internal/cmd/utils"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/reader"
	"github.com/snmp-tools/mibfs/internal/settings"
	"github.com/snmp-tools/mibfs/internal/system"
)

func ListCommand() *cobra.Command {
	opts := cmdOpts.ListOpts{}

	cmd := cobra.Command{
		Use:   "list",
		Short: "List MIB modules in the configured sources",
		Long:  "List every MIB module visible in the configured sources, in search order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdUtils.CommandErrorHandler(listMain(cmd, &opts))
		},
	}

	cmdUtils.SetHelpFlagText(&cmd)
	cmd.Flags().BoolVarP(&opts.Json, "json", "j", false, "Output modules in JSON format")

	return &cmd
}

type listedModule struct {
	artifact.Info
	// Whether an earlier source provides a module with the same name.
	Shadowed bool `json:"shadowed"`
}

func listMain(cmd *cobra.Command, opts *cmdOpts.ListOpts) error {
	log := logger.FromContext(cmd.Context())
	cfg := settings.FromContext(cmd.Context())

	s := system.NewLocalSystem(log)

	readers, err := cmdUtils.NewReaders(s, cfg, log)
	if err != nil {
		log.Error(err)
		return err
	}

	modules, errs := collectModules(readers)
	for _, err := range errs {
		log.Warn(err)
	}

	if opts.Json {
		bytes, _ := json.MarshalIndent(modules, "", "  ")
		fmt.Printf("%v\n", string(bytes))
	} else {
		renderTable(os.Stdout, modules)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d entries could not be read", len(errs))
	}

	return nil
}

func collectModules(readers []reader.Reader) ([]listedModule, []error) {
	modules := []listedModule{}
	var errs []error

	seen := make(map[string]bool)

	for _, r := range readers {
		for entry, err := range r.Enumerate() {
			if err != nil {
				errs = append(errs, err)
				continue
			}

			modules = append(modules, listedModule{
				Info:     entry.Info,
				Shadowed: seen[entry.Info.Name],
			})
			seen[entry.Info.Name] = true
		}
	}

	return modules, errs
}

func renderTable(w io.Writer, modules []listedModule) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "File", "Modified", "Origin"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, m := range modules {
		name := m.Name
		if m.Shadowed {
			name += " (shadowed)"
		}

		table.Append([]string{
			name,
			m.FileName,
			m.ModTime.Local().Format(time.DateTime),
			m.Origin,
		})
	}

	table.Render()
}
