package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/carapace-sh/carapace"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/snmp-tools/mibfs/internal/cmd/opts"
	"github.com/snmp-tools/mibfs/internal/cmd/utils"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/reader"
	"github.com/snmp-tools/mibfs/internal/settings"
	"github.com/snmp-tools/mibfs/internal/system"
)

func FetchCommand() *cobra.Command {
	opts := cmdOpts.FetchOpts{}

	cmd := cobra.Command{
		Use:   "fetch {NAME}",
		Short: "Print the source of a MIB module",
		Long:  "Locate a MIB module by name in the configured sources and print its text.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return err
			}
			opts.Name = args[0]
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdUtils.CommandErrorHandler(fetchMain(cmd, &opts))
		},
	}

	cmdUtils.SetHelpFlagText(&cmd)
	cmd.Flags().BoolVarP(&opts.Info, "info", "i", false, "Print where the module was found as JSON instead of its text")
	cmd.Flags().StringVar(&opts.Newer, "newer-than", "", "Only accept sources modified after `time` (RFC 3339)")

	carapace.Gen(&cmd).PositionalCompletion(cmdUtils.ModuleNameCompletions())

	cmd.SetHelpTemplate(cmd.HelpTemplate() + `
Arguments:
  [NAME]  Logical name of the module, such as IF-MIB

Sources are searched in order; the first one that has the module wins.
`)

	return &cmd
}

func fetchMain(cmd *cobra.Command, opts *cmdOpts.FetchOpts) error {
	log := logger.FromContext(cmd.Context())
	cfg := settings.FromContext(cmd.Context())

	fetchOpts := reader.FetchOptions{}
	if opts.Newer != "" {
		newerThan, err := time.Parse(time.RFC3339, opts.Newer)
		if err != nil {
			log.Errorf("invalid time for --newer-than: %v", err)
			return err
		}
		fetchOpts.NewerThan = newerThan
	}

	s := system.NewLocalSystem(log)

	readers, err := cmdUtils.NewReaders(s, cfg, log)
	if err != nil {
		log.Error(err)
		return err
	}

	result, err := fetchFirst(readers, opts.Name, fetchOpts)
	if err != nil {
		log.Error(err)
		return err
	}

	switch result.Status {
	case reader.StatusFound:
		if opts.Info {
			bytes, _ := json.MarshalIndent(result.Info, "", "  ")
			fmt.Printf("%v\n", string(bytes))
			return nil
		}
		fmt.Print(result.Data)
		return nil

	case reader.StatusStale:
		err := result.Err()
		log.Error(err)
		return err
	}

	err = result.Err()
	log.Error(err)

	if cfg.Fetch.MaxSuggestions > 0 {
		names := cmdUtils.ModuleNames(s, cfg, log)
		if similar := suggestions(opts.Name, names, int(cfg.Fetch.MaxSuggestions)); len(similar) > 0 {
			fmt.Fprintln(os.Stderr, "\ndid you mean one of these?")
			for _, name := range similar {
				fmt.Fprintf(os.Stderr, "  %s\n", name)
			}
		}
	}

	return err
}

// Try each reader in order. A module found anywhere wins over one that
// was only seen stale.
func fetchFirst(readers []reader.Reader, name string, opts reader.FetchOptions) (reader.Result, error) {
	result := reader.Result{Status: reader.StatusNotFound, Name: name}

	for _, r := range readers {
		res, err := r.Fetch(name, opts)
		if err != nil {
			var accessErr *reader.AccessError
			if errors.As(err, &accessErr) {
				return reader.Result{}, fmt.Errorf("failed to search %s: %w", r, err)
			}
			return reader.Result{}, err
		}

		switch res.Status {
		case reader.StatusFound:
			return res, nil
		case reader.StatusStale:
			if result.Status == reader.StatusNotFound {
				result = res
			}
		}
	}

	return result, nil
}

func suggestions(name string, names []string, limit int) []string {
	matches := fuzzy.Find(name, names)

	result := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(result) == limit {
			break
		}
		result = append(result, m.Str)
	}

	return result
}
