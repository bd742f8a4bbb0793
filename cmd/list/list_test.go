package list

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snmp-tools/mibfs/internal/reader"
)

func newReader(t *testing.T, files ...string) reader.Reader {
	t.Helper()

	dir := t.TempDir()
	for _, name := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r, err := reader.NewDirectoryReader(dir, reader.DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestCollectModules(t *testing.T) {
	first := newReader(t, "IF-MIB.txt", "sub/SNMPv2-SMI")
	second := newReader(t, "IF-MIB.mib")

	modules, errs := collectModules([]reader.Reader{first, second})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(modules) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(modules))
	}

	var shadowed []string
	for _, m := range modules {
		if m.Shadowed {
			shadowed = append(shadowed, m.FileName)
		}
	}
	if len(shadowed) != 1 || shadowed[0] != "IF-MIB.mib" {
		t.Errorf("expected only the second IF-MIB to be shadowed, got %v", shadowed)
	}
}

func TestRenderTable(t *testing.T) {
	modules, _ := collectModules([]reader.Reader{newReader(t, "IF-MIB.txt"), newReader(t, "IF-MIB")})

	var out bytes.Buffer
	renderTable(&out, modules)

	text := out.String()
	for _, want := range []string{"NAME", "IF-MIB.txt", "IF-MIB (shadowed)", "file://"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, text)
		}
	}
}
