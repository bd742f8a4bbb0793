package cmdUtils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/snmp-tools/mibfs/internal/constants"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/reader"
	"github.com/snmp-tools/mibfs/internal/settings"
	"github.com/snmp-tools/mibfs/internal/state"
	"github.com/snmp-tools/mibfs/internal/system"
	"github.com/snmp-tools/mibfs/internal/writer"
)

func ReaderOptions(cfg *settings.Settings, fsys system.Filesystem) reader.Options {
	return reader.Options{
		Recursive:    cfg.Reader.Recursive,
		UseIndex:     cfg.Reader.UseIndex,
		IndexFile:    cfg.Reader.IndexFile,
		IgnoreErrors: cfg.Reader.IgnoreErrors,
		MaxReadSize:  cfg.Reader.MaxReadSize,
		Encoding:     cfg.Reader.Encoding,
		Variants:     reader.ExtensionVariants(cfg.Reader.Extensions...),
		FS:           fsys,
	}
}

// Build one reader per configured source, in search order.
func NewReaders(s system.System, cfg *settings.Settings, log logger.Logger) ([]reader.Reader, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no MIB sources configured")
	}

	opts := ReaderOptions(cfg, s.FS())

	readers := make([]reader.Reader, 0, len(cfg.Sources))
	for _, source := range cfg.Sources {
		r, err := reader.NewDirectoryReader(source, opts, log)
		if err != nil {
			return nil, fmt.Errorf("invalid source '%s': %w", source, err)
		}
		readers = append(readers, r)
	}

	return readers, nil
}

func WriterOptions(s system.System, cfg *settings.Settings) writer.Options {
	opts := writer.Options{
		Suffix:        cfg.Writer.Suffix,
		CommentPrefix: cfg.Writer.CommentPrefix,
		Validate:      cfg.Writer.Validate,
		Validator:     writer.ParseValidator{},
		FS:            s.FS(),
	}

	if len(cfg.Writer.ValidateCommand) > 0 {
		opts.Validator = writer.CommandValidator{
			Runner: s,
			Argv:   cfg.Writer.ValidateCommand,
		}
	}

	return opts
}

func NewWriter(s system.System, cfg *settings.Settings, log logger.Logger) (*writer.DirectoryWriter, error) {
	w, err := writer.NewDirectoryWriter(cfg.Destination, WriterOptions(s, cfg), log)
	if err != nil {
		return nil, fmt.Errorf("invalid destination '%s': %w", cfg.Destination, err)
	}
	return w, nil
}

// Open the build state database, if one is configured. A nil store
// with a nil error means that no state is kept.
func OpenState(s system.System, cfg *settings.Settings) (*state.Store, error) {
	location := os.Getenv(constants.StateDatabaseEnvVar)
	if location == "" {
		location = cfg.StateDatabase
	}
	if location == "" {
		return nil, nil
	}

	if err := s.FS().MkdirAll(filepath.Dir(location), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return state.Open(location)
}
