package compile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/carapace-sh/carapace"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/yarlson/pin"
	"golang.org/x/term"

	"github.com/snmp-tools/mibfs/internal/cmd/opts"
	"github.com/snmp-tools/mibfs/internal/cmd/utils"
	"github.com/snmp-tools/mibfs/internal/compiler"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/settings"
	"github.com/snmp-tools/mibfs/internal/system"
)

func CompileCommand() *cobra.Command {
	opts := cmdOpts.CompileOpts{}

	cmd := cobra.Command{
		Use:   "compile [NAME...]",
		Short: "Compile MIB modules into artifacts",
		Long:  "Compile MIB modules from the configured sources and store the results in the destination directory.",
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.All && len(args) > 0 {
				return fmt.Errorf("module names cannot be given together with --all")
			}
			if !opts.All && len(args) == 0 {
				return fmt.Errorf("at least one module name is required, or use --all")
			}
			opts.Names = args
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdUtils.CommandErrorHandler(compileMain(cmd, &opts))
		},
	}

	cmdUtils.SetHelpFlagText(&cmd)
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Compile every module in the configured sources")
	cmd.Flags().BoolVar(&opts.Dry, "dry", false, "Show what would be compiled without writing anything")
	cmd.Flags().BoolVarP(&opts.Rebuild, "rebuild", "r", false, "Compile even if the source has not changed")
	cmd.Flags().StringArrayVar(&opts.Comments, "comment", nil, "Add a `line` to the comment block of each artifact")
	cmd.Flags().BoolVarP(&opts.Json, "json", "j", false, "Output results in JSON format")

	carapace.Gen(&cmd).PositionalAnyCompletion(cmdUtils.ModuleNameCompletions())

	return &cmd
}

type outcomeJson struct {
	compiler.Outcome
	Error string `json:"error,omitempty"`
}

func compileMain(cmd *cobra.Command, opts *cmdOpts.CompileOpts) error {
	log := logger.FromContext(cmd.Context())
	cfg := settings.FromContext(cmd.Context())

	s := system.NewLocalSystem(log)

	readers, err := cmdUtils.NewReaders(s, cfg, log)
	if err != nil {
		log.Error(err)
		return err
	}

	w, err := cmdUtils.NewWriter(s, cfg, log)
	if err != nil {
		log.Error(err)
		return err
	}

	var st compiler.State
	store, err := cmdUtils.OpenState(s, cfg)
	if err != nil {
		log.Warnf("build state is unavailable, compiling everything: %v", err)
	} else if store != nil {
		defer func() { _ = store.Close() }()
		st = store
	}

	c := compiler.NewCompiler(readers, w, compiler.GoSourceGenerator{Package: cfg.Compile.Package}, st, log)

	compileOpts := compiler.Options{
		DryRun:   opts.Dry,
		Rebuild:  opts.Rebuild,
		Comments: append(append([]string{}, cfg.Compile.Comments...), opts.Comments...),
	}

	showSpinner := !opts.Json && log.GetLogLevel() > logger.LogLevelDebug && term.IsTerminal(int(os.Stdout.Fd()))

	var spinner *pin.Pin
	if showSpinner {
		spinner = pin.New("Compiling MIB modules")
		cancel := spinner.Start(context.Background())
		defer cancel()

		compileOpts.Progress = func(o compiler.Outcome) {
			spinner.UpdateMessage(fmt.Sprintf("%s: %s", o.Name, o.Status))
		}
	} else if !opts.Json {
		log.Step("Compiling MIB modules...")
	}

	var outcomes []compiler.Outcome
	if opts.All {
		outcomes = c.CompileAll(compileOpts)
	} else {
		outcomes = c.Compile(opts.Names, compileOpts)
	}

	summary := compiler.Summarize(outcomes)

	if spinner != nil {
		spinner.Stop(summary.String())
	}

	if opts.Json {
		results := make([]outcomeJson, 0, len(outcomes))
		for _, o := range outcomes {
			r := outcomeJson{Outcome: o}
			if o.Err != nil {
				r.Error = o.Err.Error()
			}
			results = append(results, r)
		}
		bytes, _ := json.MarshalIndent(results, "", "  ")
		fmt.Printf("%v\n", string(bytes))
	} else {
		renderOutcomes(os.Stdout, outcomes)
		if spinner == nil {
			log.Print(summary.String())
		}
	}

	for _, o := range outcomes {
		if o.Status == compiler.OutcomeFailed {
			log.Errorf("%s: %v", o.Name, o.Err)
		}
	}

	if opts.Dry {
		log.Info("this is a dry run, no artifacts were written")
	}

	if summary.Failed() {
		return fmt.Errorf("%s", summary)
	}

	return nil
}

func renderOutcomes(w io.Writer, outcomes []compiler.Outcome) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Module", "Status", "Source"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, o := range outcomes {
		table.Append([]string{o.Name, o.Status.String(), o.Info.Origin})
	}

	table.Render()
}
