package root

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/carapace-sh/carapace"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	aliasesCmd "github.com/snmp-tools/mibfs/cmd/aliases"
	compileCmd "github.com/snmp-tools/mibfs/cmd/compile"
	completionCmd "github.com/snmp-tools/mibfs/cmd/completion"
	fetchCmd "github.com/snmp-tools/mibfs/cmd/fetch"
	listCmd "github.com/snmp-tools/mibfs/cmd/list"
	storeCmd "github.com/snmp-tools/mibfs/cmd/store"
	"github.com/snmp-tools/mibfs/internal/artifact"
	"github.com/snmp-tools/mibfs/internal/build"
	"github.com/snmp-tools/mibfs/internal/cmd/opts"
	"github.com/snmp-tools/mibfs/internal/cmd/utils"
	"github.com/snmp-tools/mibfs/internal/constants"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/settings"
)

const helpTemplate = `{{.Long}}

Usage:
  {{.UseLine}}
{{if .HasAvailableSubCommands}}
Commands:{{range .Commands}}{{if (and .IsAvailableCommand (not .GroupID))}}
  {{rpad .Name .NamePadding }}  {{.Short}}{{end}}{{end}}
{{end}}{{if .HasAvailableLocalFlags}}
Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
Source text encodings (reader.encoding):
%s
Configuration is read from $%s, or %s if unset.
`

func mainCommand() (*cobra.Command, error) {
	opts := cmdOpts.MainOpts{}

	log := logger.NewConsoleLogger()
	cmdCtx := logger.WithLogger(context.Background(), log)

	configLocation := os.Getenv(constants.ConfigEnvVar)
	if configLocation == "" {
		configLocation = constants.DefaultConfigLocation
	}

	cfg, err := settings.ParseSettings(configLocation)
	if err != nil {
		if _, statErr := os.Stat(configLocation); statErr == nil || os.Getenv(constants.ConfigEnvVar) != "" {
			log.Error(err)
			log.Warn("proceeding with defaults only, you have been warned")
		}
		cfg = settings.NewSettings()
	}

	errs := cfg.Validate()
	for _, err := range errs {
		log.Warn(err.Error())
	}

	cmdCtx = settings.WithConfig(cmdCtx, cfg)

	cmd := cobra.Command{
		Use:          "mibfs {command} [flags]",
		Short:        "mibfs",
		Long:         "Locate, read and store MIB modules on the local filesystem.",
		Version:      build.Version(),
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for key, value := range opts.ConfigValues {
				err := cfg.SetValue(key, value)
				if err != nil {
					return fmt.Errorf("failed to set %v: %w", key, err)
				}
			}

			if len(opts.Sources) > 0 {
				cfg.Sources = opts.Sources
			}
			if opts.Destination != "" {
				cfg.Destination = opts.Destination
			}

			errs := cfg.Validate()
			for _, err := range errs {
				log.Warn(err.Error())
			}

			if opts.ColorAlways {
				color.NoColor = false
			} else if !cfg.UseColor {
				color.NoColor = true
			}
			log.RefreshColorPrefixes()

			if opts.Verbose {
				log.SetLogLevel(logger.LogLevelDebug)
			}

			if cfg.Syslog && build.Syslog() {
				syslogger, err := logger.NewSyslogLogger("mibfs")
				if err != nil {
					log.Warnf("failed to connect to syslog: %v", err)
				} else {
					syslogger.SetLogLevel(log.GetLogLevel())
					multi := logger.NewMultiLogger(log, syslogger)
					cmd.SetContext(logger.WithLogger(cmd.Context(), multi))
				}
			}

			return nil
		},
	}

	cmd.SetContext(cmdCtx)
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetHelpTemplate(fmt.Sprintf(helpTemplate,
		cmdUtils.AlignedOptions(artifact.AvailableEncodings),
		constants.ConfigEnvVar, constants.DefaultConfigLocation))

	cmdUtils.SetHelpFlagText(&cmd)
	cmd.Flags().Bool("version", false, "Show version information")

	cmd.PersistentFlags().BoolVar(&opts.ColorAlways, "color-always", false, "Always color output when possible")
	cmd.PersistentFlags().StringToStringVarP(&opts.ConfigValues, "config", "c", map[string]string{}, "Set a configuration `key=value`")
	cmd.PersistentFlags().StringArrayVarP(&opts.Sources, "source", "s", nil, "Search MIB sources in `dir` (repeatable, replaces configured sources)")
	cmd.PersistentFlags().StringVarP(&opts.Destination, "dest", "d", "", "Store artifacts in `dir`")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show debug logs")

	carapace.Gen(&cmd).FlagCompletion(carapace.ActionMap{
		"source": carapace.ActionDirectories(),
		"dest":   carapace.ActionDirectories(),
		"config": carapace.ActionCallback(func(c carapace.Context) carapace.Action {
			return carapace.ActionMultiParts("=", func(c carapace.Context) carapace.Action {
				switch len(c.Parts) {
				case 0:
					keys := make([]string, 0, len(settings.SettingsDocs)*2)
					for key, doc := range settings.SettingsDocs {
						keys = append(keys, key, doc.Short)
					}
					return carapace.ActionValuesDescribed(keys...).Suffix("=")
				default:
					return carapace.ActionValues()
				}
			})
		}),
	})

	cmd.AddCommand(aliasesCmd.AliasCommand())
	cmd.AddCommand(compileCmd.CompileCommand())
	cmd.AddCommand(completionCmd.CompletionCommand())
	cmd.AddCommand(fetchCmd.FetchCommand())
	cmd.AddCommand(listCmd.ListCommand())
	cmd.AddCommand(storeCmd.StoreCommand())

	if cfg.UseDefaultAliases {
		for alias, resolved := range settings.DefaultAliases {
			if _, overridden := cfg.Aliases[alias]; overridden {
				continue
			}
			if err := addAliasCmd(&cmd, alias, resolved); err != nil {
				log.Warnf("failed to add default alias '%v': %v", alias, err.Error())
			}
		}
	}

	for alias, resolved := range cfg.Aliases {
		if err := addAliasCmd(&cmd, alias, resolved); err != nil {
			log.Warnf("failed to add alias '%v': %v", alias, err.Error())
		}
	}

	return &cmd, nil
}

// Accept --newer_than and friends as spellings of --newer-than.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func Execute() {
	cmd, err := mainCommand()
	if err != nil {
		os.Exit(1)
	}

	if err = cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
