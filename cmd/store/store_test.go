package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/snmp-tools/mibfs/internal/cmd/utils"
	"github.com/snmp-tools/mibfs/internal/settings"
	"github.com/snmp-tools/mibfs/internal/system"
)

func TestConfirmOverwrite(t *testing.T) {
	color.NoColor = true

	dir := t.TempDir()
	existing := filepath.Join(dir, "IF-MIB.go")
	if err := os.WriteFile(existing, []byte("package mibs\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	promptOpts := cmdUtils.ConfirmationPromptOptions{
		InvalidBehavior: settings.ConfirmationPromptDefaultNo,
		EmptyBehavior:   settings.ConfirmationPromptDefaultNo,
	}
	fs := system.LocalFilesystem{}

	tests := []struct {
		name       string
		path       string
		input      string
		want       bool
		wantPrompt bool
	}{
		{name: "new artifact", path: filepath.Join(dir, "NEW-MIB.go"), want: true},
		{name: "confirmed", path: existing, input: "y\n", want: true, wantPrompt: true},
		{name: "declined", path: existing, input: "n\n", want: false, wantPrompt: true},
		{name: "no answer", path: existing, input: "", want: false, wantPrompt: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer

			got, err := confirmOverwrite(test.path, fs, strings.NewReader(test.input), &out, promptOpts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
			if prompted := strings.Contains(out.String(), "Overwrite?"); prompted != test.wantPrompt {
				t.Errorf("prompted = %v, want %v", prompted, test.wantPrompt)
			}
		})
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IF-MIB.go")
	if err := os.WriteFile(path, []byte("package mibs\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readInput(system.LocalFilesystem{}, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "package mibs\n" {
		t.Errorf("unexpected content %q", got)
	}

	if _, err := readInput(system.LocalFilesystem{}, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("expected error for a missing file")
	}

	if !readsStdin("-") || !readsStdin("") || readsStdin(path) {
		t.Errorf("unexpected standard input detection")
	}
}
