package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snmp-tools/mibfs/internal/settings"
)

func main() {
	rootCmd := &cobra.Command{
		Use: "build",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
			HiddenDefaultCmd:  true,
		},
	}

	var output string

	settingsCmd := &cobra.Command{
		Use:          "settings",
		Short:        "Generate Markdown documentation for settings",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}

			if err := generateSettingsDocMarkdown(output); err != nil {
				return err
			}

			fmt.Printf("generated %s\n", output)
			return nil
		},
	}
	settingsCmd.Flags().StringVarP(&output, "output", "o", filepath.Join("doc", "settings.md"), "Where to place generated settings `file`")

	rootCmd.AddCommand(settingsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateSettingsDocMarkdown(filename string) error {
	var sb strings.Builder

	sb.WriteString("# Settings\n\n")

	defaults := *settings.NewSettings()

	writeSettingsDoc(reflect.TypeFor[settings.Settings](), reflect.ValueOf(defaults), "", &sb, 2, MarkdownSettingsFormatter{})

	return os.WriteFile(filename, []byte(sb.String()), 0o644)
}

type SettingsFormatter interface {
	WriteHeader(sb *strings.Builder, title string, level int)
	WriteSectionDescription(sb *strings.Builder, desc string)
	WriteItem(sb *strings.Builder, key string, desc string, defaultValue string)
}

type MarkdownSettingsFormatter struct{}

func (f MarkdownSettingsFormatter) WriteHeader(sb *strings.Builder, title string, level int) {
	fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", level), title)
}

func (MarkdownSettingsFormatter) WriteSectionDescription(sb *strings.Builder, desc string) {
	sb.WriteString(desc + "\n\n")
}

func (f MarkdownSettingsFormatter) WriteItem(sb *strings.Builder, key, desc, defaultValue string) {
	fmt.Fprintf(sb, "- **%s**\n\n  %s\n\n  **Default**: `%s`\n\n", key, desc, defaultValue)
}

func writeSettingsDoc(
	t reflect.Type,
	v reflect.Value,
	path string,
	sb *strings.Builder,
	depth int,
	formatter SettingsFormatter,
) {
	type nestedField struct {
		field    reflect.StructField
		fieldVal reflect.Value
		fullKey  string
	}

	type configKey struct {
		key          string
		desc         string
		defaultValue string
	}

	var generalItems []configKey
	var nestedFields []nestedField

	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag
		koanfKey := tag.Get("koanf")
		if koanfKey == "" {
			continue
		}

		fullKey := path + koanfKey
		fieldVal := v.Field(i)

		if field.Type.Kind() == reflect.Struct {
			nestedFields = append(nestedFields, nestedField{field, fieldVal, fullKey})
		} else {
			defaultVal := formatValue(fieldVal)
			descriptions := settings.SettingsDocs[fullKey]
			desc := descriptions.Long
			if desc == "" {
				desc = descriptions.Short
			}
			generalItems = append(generalItems, configKey{fullKey, desc, defaultVal})
		}
	}

	if len(generalItems) > 0 {
		if path == "" {
			formatter.WriteHeader(sb, "General", 2)
		}

		sort.Slice(generalItems, func(i, j int) bool {
			return generalItems[i].key < generalItems[j].key
		})

		for _, item := range generalItems {
			formatter.WriteItem(sb, item.key, item.desc, item.defaultValue)
		}
	}

	for _, entry := range nestedFields {
		descriptions := settings.SettingsDocs[entry.fullKey]
		desc := descriptions.Long
		if desc == "" {
			desc = descriptions.Short
		}

		formatter.WriteHeader(sb, entry.fullKey, depth)
		formatter.WriteSectionDescription(sb, desc)
		writeSettingsDoc(entry.field.Type, entry.fieldVal, entry.fullKey+".", sb, depth+1, formatter)
	}
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return "n/a"
	}
	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return `""`
		}
		return fmt.Sprintf(`"%s"`, v.String())
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	case reflect.Int, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Slice:
		items := make([]string, 0, v.Len())
		for i := range v.Len() {
			items = append(items, formatValue(v.Index(i)))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		return "(multiple entries)"
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
