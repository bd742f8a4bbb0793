package settings

import (
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/snmp-tools/mibfs/internal/artifact"
)

type Settings struct {
	Aliases           map[string][]string  `koanf:"aliases" noset:"true"`
	Compile           CompileSettings      `koanf:"compile"`
	Confirmation      ConfirmationSettings `koanf:"confirmation"`
	UseColor          bool                 `koanf:"color"`
	Destination       string               `koanf:"destination"`
	Fetch             FetchSettings        `koanf:"fetch"`
	Reader            ReaderSettings       `koanf:"reader"`
	Sources           []string             `koanf:"sources" noset:"true"`
	StateDatabase     string               `koanf:"state_database"`
	Syslog            bool                 `koanf:"syslog"`
	UseDefaultAliases bool                 `koanf:"use_default_aliases"`
	Writer            WriterSettings       `koanf:"writer"`
}

type CompileSettings struct {
	Package  string   `koanf:"package"`
	Comments []string `koanf:"comments" noset:"true"`
}

type ConfirmationSettings struct {
	Always  bool                       `koanf:"always"`
	Invalid ConfirmationPromptBehavior `koanf:"invalid"`
	Empty   ConfirmationPromptBehavior `koanf:"empty"`
}

type FetchSettings struct {
	MaxSuggestions int64 `koanf:"max_suggestions"`
}

type ReaderSettings struct {
	Recursive    bool              `koanf:"recursive"`
	UseIndex     bool              `koanf:"use_index"`
	IndexFile    string            `koanf:"index_file"`
	IgnoreErrors bool              `koanf:"ignore_errors"`
	MaxReadSize  int64             `koanf:"max_read_size"`
	Encoding     artifact.Encoding `koanf:"encoding"`
	Extensions   []string          `koanf:"extensions" noset:"true"`
}

type WriterSettings struct {
	Suffix          string   `koanf:"suffix"`
	CommentPrefix   string   `koanf:"comment_prefix"`
	Validate        bool     `koanf:"validate"`
	ValidateCommand []string `koanf:"validate_command" noset:"true"`
}

type ConfirmationPromptBehavior string

const (
	ConfirmationPromptRetry      ConfirmationPromptBehavior = "retry"
	ConfirmationPromptDefaultYes ConfirmationPromptBehavior = "default-yes"
	ConfirmationPromptDefaultNo  ConfirmationPromptBehavior = "default-no"
)

var AvailableConfirmationPromptSettings = map[string]string{
	string(ConfirmationPromptDefaultNo):  "Default to input of 'no'",
	string(ConfirmationPromptDefaultYes): "Default to input of 'yes'",
	string(ConfirmationPromptRetry):      "Retry the input function again",
}

func (c *ConfirmationPromptBehavior) UnmarshalText(text []byte) error {
	val := ConfirmationPromptBehavior(text)
	switch val {
	case ConfirmationPromptDefaultYes, ConfirmationPromptDefaultNo, ConfirmationPromptRetry:
		*c = val
		return nil
	}

	return fmt.Errorf("invalid value for ConfirmationPromptBehavior '%s'", val)
}

type DescriptionEntry struct {
	Short   string
	Long    string
	Example any
}

const (
	confirmationInputPossibleValues = "Possible values are `default-no` (treat as a no input), `default-yes` (treat as a yes input), or `retry` (try again)."

	defaultMaxReadSize = 500 * 1024
)

var DefaultAliases = map[string][]string{
	"ls":      []string{"list"},
	"get":     []string{"fetch"},
	"show":    []string{"fetch", "--info"},
	"build":   []string{"compile"},
	"rebuild": []string{"compile", "--all", "--rebuild"},
	"check":   []string{"compile", "--all", "--dry"},
}

var SettingsDocs = map[string]DescriptionEntry{
	"aliases": {
		Short: "Shortcuts for long commands",
		Long:  "Defines alternative aliases for long commands to improve user ergonomics.",
		Example: map[string][]string{
			"ifmib": {"fetch", "IF-MIB"},
			"all":   {"compile", "--all"},
		},
	},
	"color": {
		Short: "Enable colored output",
		Long:  "Turns on ANSI color sequences for decorated output in supported terminals.",
	},
	"compile": {
		Short: "Settings for `compile` command",
	},
	"compile.package": {
		Short: "Go package name of generated artifacts",
		Long:  "Package clause written at the top of every generated Go file.",
	},
	"compile.comments": {
		Short:   "Extra comment lines for generated artifacts",
		Long:    "Lines appended to the comment block written at the top of every generated artifact, after the source and producer lines.",
		Example: []string{"Do not edit."},
	},
	"confirmation": {
		Short: "Settings for confirmation prompts throughout the program",
	},
	"confirmation.always": {
		Short: "Disable interactive confirmation input entirely",
		Long:  "Disables prompts that ask for user confirmation; useful for automation.",
	},
	"confirmation.empty": {
		Short: "Control confirmation prompt behavior when no input is provided",
		Long:  "Control confirmation prompt behavior when no input is provided. " + confirmationInputPossibleValues,
	},
	"confirmation.invalid": {
		Short: "Control confirmation prompt behavior when invalid input is provided",
		Long:  "Control confirmation prompt behavior when invalid input is provided. " + confirmationInputPossibleValues,
	},
	"destination": {
		Short: "Directory to store generated artifacts in",
		Long:  "Directory that `compile` and `store` write artifacts to. It is created on first write.",
	},
	"fetch": {
		Short: "Settings for `fetch` command",
	},
	"fetch.max_suggestions": {
		Short: "Maximum number of suggestions for unknown modules",
		Long:  "Number of similarly named modules to suggest when `fetch` cannot find the requested one. Set to 0 to disable.",
	},
	"reader": {
		Short: "Settings for reading MIB sources",
	},
	"reader.recursive": {
		Short: "Search subdirectories of each source",
		Long:  "When enabled, every subdirectory of a source is searched as well, depth-first, after the source directory itself.",
	},
	"reader.use_index": {
		Short: "Consult the index file of each source",
		Long:  "When enabled, module names listed in the index file at the root of a source resolve directly to the listed file.",
	},
	"reader.index_file": {
		Short: "Name of the index file",
		Long:  "File name of the index at the root of each source. Each line maps a module name to a file name, separated by whitespace.",
	},
	"reader.ignore_errors": {
		Short: "Skip unreadable files and directories",
		Long:  "When enabled, files and directories that cannot be read are skipped instead of failing the operation. Files over `reader.max_read_size` always fail.",
	},
	"reader.max_read_size": {
		Short: "Size limit for source files, in bytes",
		Long:  "Source files of this size or larger are rejected.",
	},
	"reader.encoding": {
		Short: "Text encoding of source files",
		Long:  "Possible values are `utf-8`, `latin-1`, or `auto` (UTF-8 when valid, Latin-1 otherwise).",
	},
	"reader.extensions": {
		Short:   "File extensions to try when looking up a module",
		Long:    "Extensions appended to each spelling of a module name when it is not found in the index. Include an empty string to try the bare name.",
		Example: []string{"", ".txt", ".mib", ".my"},
	},
	"sources": {
		Short:   "Directories to look for MIB sources in",
		Long:    "Source directories, searched in order. The `--source` flag replaces this list.",
		Example: []string{"/usr/share/snmp/mibs", "/var/lib/mibs/ietf"},
	},
	"state_database": {
		Short: "Location of the build state database",
		Long:  "SQLite database recording the source each module was last compiled from. Set to an empty string to always compile.",
	},
	"syslog": {
		Short: "Also log to syslog",
		Long:  "Sends log messages to the system logger in addition to the terminal.",
	},
	"use_default_aliases": {
		Short: "Enables default aliases",
		Long: "Enables the following default aliases: \n\n```\n" + formatStringSliceMap(DefaultAliases) + "```" +
			"\n\nEach alias can be overriden using the `aliases` setting.",
	},
	"writer": {
		Short: "Settings for storing artifacts",
	},
	"writer.suffix": {
		Short: "File name suffix of stored artifacts",
		Long:  "Appended to the module name to form the artifact file name.",
	},
	"writer.comment_prefix": {
		Short: "Line comment marker of the artifact language",
		Long:  "Prefix used for each line of the comment block written at the top of an artifact.",
	},
	"writer.validate": {
		Short: "Check artifacts after storing them",
		Long: "Parses every stored artifact as Go source, or runs `writer.validate_command` if set." +
			" Artifacts that fail the check are kept with a warning.",
	},
	"writer.validate_command": {
		Short:   "Command used to check stored artifacts",
		Long:    "Command to run for each stored artifact, with its path appended. A non-zero exit status is reported as a warning.",
		Example: []string{"gofmt", "-e", "-l"},
	},
}

func NewSettings() *Settings {
	return &Settings{
		Aliases: make(map[string][]string),
		Compile: CompileSettings{
			Package: "mibs",
		},
		Confirmation: ConfirmationSettings{
			Always:  false,
			Invalid: ConfirmationPromptRetry,
			Empty:   ConfirmationPromptDefaultNo,
		},
		UseColor:    true,
		Destination: ".",
		Fetch: FetchSettings{
			MaxSuggestions: 5,
		},
		Reader: ReaderSettings{
			Recursive:    true,
			UseIndex:     true,
			IndexFile:    ".index",
			IgnoreErrors: true,
			MaxReadSize:  defaultMaxReadSize,
			Encoding:     artifact.EncodingUTF8,
			Extensions:   []string{"", ".txt", ".mib", ".my"},
		},
		Sources:           []string{"."},
		UseDefaultAliases: true,
		Writer: WriterSettings{
			Suffix:        ".go",
			CommentPrefix: "//",
			Validate:      true,
		},
	}
}

func ParseSettings(location string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(location), toml.Parser()); err != nil {
		return nil, err
	}

	cfg := NewSettings()

	err := k.Unmarshal("", cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func ParseSettingsFromString(input string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(input)), toml.Parser()); err != nil {
		return nil, err
	}

	cfg := NewSettings()

	err := k.Unmarshal("", cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

var (
	hasWhitespaceRegex = regexp.MustCompile(`\s`)
	goPackageRegex     = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Validate the configuration and remove any erroneous values.
// A list of detected errors is returned, if any exist.
func (cfg *Settings) Validate() SettingsErrors {
	errs := []error{}
	defaults := NewSettings()

	// First, validate the aliases. Any alias has to adhere to the following rules:
	// 1. Alias names cannot be empty.
	// 2. Alias names cannot have whitespace
	// 3. Alias names cannot start with a -
	// 4. Resolved arguments list must have a len > 1
	for alias, resolved := range cfg.Aliases {
		if len(alias) == 0 {
			errs = append(errs, SettingsError{Field: "aliases", Message: "alias name cannot be empty"})
			delete(cfg.Aliases, alias)
		} else if alias[0] == '-' {
			errs = append(errs, SettingsError{Field: fmt.Sprintf("aliases.%s", alias), Message: "alias cannot start with a '-'"})
			delete(cfg.Aliases, alias)
		} else if hasWhitespaceRegex.MatchString(alias) {
			errs = append(errs, SettingsError{Field: fmt.Sprintf("aliases.%s", alias), Message: "alias cannot have whitespace"})
			delete(cfg.Aliases, alias)
		} else if len(resolved) == 0 {
			errs = append(errs, SettingsError{Field: fmt.Sprintf("aliases.%s", alias), Message: "args list cannot be empty"})
			delete(cfg.Aliases, alias)
		}
	}

	if cfg.Reader.MaxReadSize <= 0 {
		errs = append(errs, SettingsError{Field: "reader.max_read_size", Message: "must be a positive number of bytes"})
		cfg.Reader.MaxReadSize = defaults.Reader.MaxReadSize
	}

	// SetValue bypasses UnmarshalText, so the encoding may still be bogus.
	if _, ok := artifact.AvailableEncodings[string(cfg.Reader.Encoding)]; !ok {
		var enc artifact.Encoding
		if err := enc.UnmarshalText([]byte(cfg.Reader.Encoding)); err != nil {
			errs = append(errs, SettingsError{Field: "reader.encoding", Message: err.Error()})
			enc = defaults.Reader.Encoding
		}
		cfg.Reader.Encoding = enc
	}

	if cfg.Reader.IndexFile == "" || strings.ContainsAny(cfg.Reader.IndexFile, `/\`) {
		errs = append(errs, SettingsError{Field: "reader.index_file", Message: "must be a plain file name"})
		cfg.Reader.IndexFile = defaults.Reader.IndexFile
	}

	if len(cfg.Reader.Extensions) == 0 {
		errs = append(errs, SettingsError{Field: "reader.extensions", Message: "at least one extension is required"})
		cfg.Reader.Extensions = defaults.Reader.Extensions
	}

	if strings.ContainsAny(cfg.Writer.Suffix, `/\`) {
		errs = append(errs, SettingsError{Field: "writer.suffix", Message: "cannot contain path separators"})
		cfg.Writer.Suffix = defaults.Writer.Suffix
	}

	if cfg.Writer.CommentPrefix == "" {
		errs = append(errs, SettingsError{Field: "writer.comment_prefix", Message: "cannot be empty"})
		cfg.Writer.CommentPrefix = defaults.Writer.CommentPrefix
	}

	if !goPackageRegex.MatchString(cfg.Compile.Package) {
		errs = append(errs, SettingsError{Field: "compile.package", Message: fmt.Sprintf("'%s' is not a valid Go package name", cfg.Compile.Package)})
		cfg.Compile.Package = defaults.Compile.Package
	}

	if cfg.Fetch.MaxSuggestions < 0 {
		errs = append(errs, SettingsError{Field: "fetch.max_suggestions", Message: "cannot be negative"})
		cfg.Fetch.MaxSuggestions = defaults.Fetch.MaxSuggestions
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (cfg *Settings) SetValue(key string, value string) error {
	fields := strings.Split(key, ".")
	current := reflect.ValueOf(cfg).Elem()

	for i, field := range fields {
		// Find the struct field with the matching koanf tag
		if current.Kind() != reflect.Struct {
			return SettingsError{Field: key, Message: "setting not found"}
		}

		found := false
		noset := false
		for j := 0; j < current.Type().NumField(); j++ {
			fieldInfo := current.Type().Field(j)
			if fieldInfo.Tag.Get("koanf") == field {
				current = current.Field(j)
				noset = fieldInfo.Tag.Get("noset") == "true"
				found = true
				break
			}
		}

		if !found {
			return SettingsError{Field: field, Message: "setting not found"}
		}

		if current.Kind() == reflect.Pointer {
			if current.IsNil() {
				current.Set(reflect.New(current.Type().Elem()))
			}
			current = current.Elem()
		}

		if i == len(fields)-1 {
			if noset || !current.CanSet() || !isSettable(&current) {
				return SettingsError{Field: field, Message: "cannot change value of this setting dynamically"}
			}

			switch current.Kind() {
			case reflect.String:
				current.SetString(value)
			case reflect.Bool:
				boolVal, err := strconv.ParseBool(value)
				if err != nil {
					return SettingsError{Field: field, Message: fmt.Sprintf("invalid boolean value '%s' for field", value)}
				}
				current.SetBool(boolVal)
			case reflect.Int, reflect.Int64:
				intVal, err := strconv.ParseInt(value, 10, 64)
				if err != nil {
					return SettingsError{Field: field, Message: fmt.Sprintf("invalid integer value '%s' for field", value)}
				}
				current.SetInt(intVal)
			case reflect.Float64:
				floatVal, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return SettingsError{Field: field, Message: fmt.Sprintf("invalid float value '%s' for field", value)}
				}
				current.SetFloat(floatVal)
			default:
				return SettingsError{Field: field, Message: "unsupported field type"}
			}

			return nil
		}
	}

	return nil
}

func isSettable(value *reflect.Value) bool {
	switch value.Kind() {
	case reflect.String, reflect.Bool, reflect.Int, reflect.Int64, reflect.Float64:
		return true
	}

	return false
}

func formatStringSliceMap(m map[string][]string) (result string) {
	for _, key := range slices.Sorted(maps.Keys(m)) {
		result += fmt.Sprintf("%s = [%s]\n", key, strings.Join(m[key], ", "))
	}
	return result
}
