package cmdUtils

import (
	"os"
	"slices"
	"strings"

	"github.com/carapace-sh/carapace"

	"github.com/snmp-tools/mibfs/internal/constants"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/settings"
	"github.com/snmp-tools/mibfs/internal/system"
)

// Prepare command resources that are needed for completion, but that
// otherwise need to be retrieved from the Cobra command context.
//
// Only for use in carapace completion functions.
func PrepareCompletionResources() (logger.Logger, *settings.Settings) {
	var log logger.Logger
	if debugMode := os.Getenv("MIBFS_DEBUG_MODE"); debugMode != "" {
		log = logger.NewConsoleLogger()
	} else {
		log = logger.NewNoOpLogger()
	}

	configLocation := os.Getenv(constants.ConfigEnvVar)
	if configLocation == "" {
		configLocation = constants.DefaultConfigLocation
	}

	cfg, err := settings.ParseSettings(configLocation)
	if err != nil {
		cfg = settings.NewSettings()
	}
	_ = cfg.Validate()

	return log, cfg
}

// Collect the names of every module visible in the configured
// sources, sorted and without duplicates. Unreadable entries are
// skipped.
func ModuleNames(s system.System, cfg *settings.Settings, log logger.Logger) []string {
	readers, err := NewReaders(s, cfg, log)
	if err != nil {
		log.Debugf("failed to prepare sources: %v", err)
		return nil
	}

	var names []string
	for _, r := range readers {
		for entry, err := range r.Enumerate() {
			if err != nil {
				log.Debugf("%v", err)
				continue
			}
			names = append(names, entry.Info.Name)
		}
	}

	slices.Sort(names)
	return slices.Compact(names)
}

func ModuleNameCompletions() carapace.Action {
	return carapace.ActionCallback(func(c carapace.Context) carapace.Action {
		log, cfg := PrepareCompletionResources()

		names := ModuleNames(system.NewLocalSystem(log), cfg, log)

		matches := make([]string, 0, len(names))
		for _, name := range names {
			if strings.HasPrefix(name, c.Value) {
				matches = append(matches, name)
			}
		}

		return carapace.ActionValues(matches...)
	})
}
