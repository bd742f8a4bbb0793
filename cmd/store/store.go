package store

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/snmp-tools/mibfs/internal/cmd/opts"
	"github.com/snmp-tools/mibfs/internal/cmd/utils"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/settings"
	"github.com/snmp-tools/mibfs/internal/system"
	"github.com/snmp-tools/mibfs/internal/writer"
)

func StoreCommand() *cobra.Command {
	opts := cmdOpts.StoreOpts{}

	cmd := cobra.Command{
		Use:   "store {NAME} [FILE]",
		Short: "Store an artifact in the destination directory",
		Long:  "Store generated text under a module name in the destination directory, reading it from FILE or standard input.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
				return err
			}
			opts.Name = args[0]
			if len(args) > 1 {
				opts.File = args[1]
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return nil, cobra.ShellCompDirectiveDefault
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdUtils.CommandErrorHandler(storeMain(cmd, &opts))
		},
	}

	cmdUtils.SetHelpFlagText(&cmd)
	cmd.Flags().StringArrayVar(&opts.Comments, "comment", nil, "Add a `line` to the comment block of the artifact")
	cmd.Flags().BoolVar(&opts.Dry, "dry", false, "Validate arguments without writing anything")
	cmd.Flags().BoolVarP(&opts.AlwaysConfirm, "yes", "y", false, "Automatically confirm overwriting an existing artifact")

	cmd.SetHelpTemplate(cmd.HelpTemplate() + `
Arguments:
  [NAME]  Module name; the artifact is stored as NAME plus the configured suffix
  [FILE]  File to read the artifact text from (default: standard input)
`)

	return &cmd
}

func storeMain(cmd *cobra.Command, opts *cmdOpts.StoreOpts) error {
	log := logger.FromContext(cmd.Context())
	cfg := settings.FromContext(cmd.Context())

	s := system.NewLocalSystem(log)

	data, err := readInput(s.FS(), opts.File)
	if err != nil {
		log.Error(err)
		return err
	}

	w, err := cmdUtils.NewWriter(s, cfg, log)
	if err != nil {
		log.Error(err)
		return err
	}

	if !opts.Dry && !opts.AlwaysConfirm && !cfg.Confirmation.Always {
		if readsStdin(opts.File) {
			if _, err := s.FS().Stat(w.Path(opts.Name)); err == nil {
				err := fmt.Errorf("%s already exists; use --yes to overwrite it when reading from standard input", w.Path(opts.Name))
				log.Error(err)
				return err
			}
		}

		proceed, err := confirmOverwrite(w.Path(opts.Name), s.FS(), os.Stdin, os.Stderr, cmdUtils.ConfirmationPromptOptionsFromSettings(cfg))
		if err != nil {
			log.Errorf("failed to get confirmation: %v", err)
			return err
		}
		if !proceed {
			msg := "confirmation was not given, not overwriting " + w.Path(opts.Name)
			log.Warn(msg)
			return fmt.Errorf("%s", msg)
		}
	}

	err = w.Store(opts.Name, data, writer.StoreOptions{
		Comments: opts.Comments,
		DryRun:   opts.Dry,
	})
	if err != nil {
		log.Error(err)
		return err
	}

	if opts.Dry {
		log.Infof("this is a dry run, %s was not written", w.Path(opts.Name))
	} else {
		log.Infof("stored %s", w.Path(opts.Name))
	}

	return nil
}

func readsStdin(file string) bool {
	return file == "" || file == "-"
}

func readInput(fs system.Filesystem, file string) (string, error) {
	if readsStdin(file) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	}

	data, err := fs.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}

// Ask before replacing an existing artifact. Storing a new one never
// needs confirmation.
func confirmOverwrite(path string, fs system.Filesystem, in io.Reader, out io.Writer, opts cmdUtils.ConfirmationPromptOptions) (bool, error) {
	if _, err := fs.Stat(path); err != nil {
		return true, nil
	}

	return cmdUtils.ConfirmationInputFrom(in, out, fmt.Sprintf("%s already exists. Overwrite?", path), opts)
}
