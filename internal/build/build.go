package build

import (
	"github.com/snmp-tools/mibfs/internal/build/vars"
)

func boolCheck(varName string, value string) {
	if value != "true" && value != "false" {
		panic("Compile-time variable internal.build." + varName + " is not a value of either 'true' or 'false'; this application was compiled incorrectly")
	}
}

func boolCast(value string) bool {
	switch value {
	case "true":
		return true
	case "false":
		return false
	default:
		panic("unreachable, this variable has not been bool-checked properly")
	}
}

func Version() string {
	return vars.Version
}

func GitRevision() string {
	return vars.GitRevision
}

// Producer identifies this build in generated artifacts.
func Producer() string {
	return "mibfs-" + vars.Version
}

// Whether logging to syslog is available in this build.
func Syslog() bool {
	return boolCast(vars.Syslog)
}

func init() {
	boolCheck("Syslog", vars.Syslog)
}
