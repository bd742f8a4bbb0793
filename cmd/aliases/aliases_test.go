package aliases

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/snmp-tools/mibfs/internal/settings"
)

func TestResolveAliases(t *testing.T) {
	cfg := settings.NewSettings()
	cfg.Aliases = map[string][]string{
		"ls":    {"list", "--json"},
		"ifmib": {"fetch", "IF-MIB"},
	}

	got := resolveAliases(cfg)

	if diff := cmp.Diff([]string{"list", "--json"}, got["ls"]); diff != "" {
		t.Errorf("configured alias should override default (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fetch"}, got["get"]); diff != "" {
		t.Errorf("default alias missing (-want +got):\n%s", diff)
	}
	if _, ok := got["ifmib"]; !ok {
		t.Errorf("configured alias missing")
	}

	cfg.UseDefaultAliases = false
	got = resolveAliases(cfg)
	if len(got) != 2 {
		t.Errorf("expected only configured aliases, got %v", got)
	}
}
