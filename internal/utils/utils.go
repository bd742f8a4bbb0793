package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

func EscapeAndJoinArgs(args []string) string {
	var escapedArgs []string

	for _, arg := range args {
		if strings.ContainsAny(arg, " \t\n\"'\\") {
			arg = strings.ReplaceAll(arg, "\\", "\\\\")
			arg = strings.ReplaceAll(arg, "\"", "\\\"")
			escapedArgs = append(escapedArgs, fmt.Sprintf("\"%s\"", arg))
		} else {
			escapedArgs = append(escapedArgs, arg)
		}
	}

	return strings.Join(escapedArgs, " ")
}

// Resolve a directory argument to a clean, absolute path.
//
// The directory is not required to exist; sources may be
// missing and destinations are created on first write.
func AbsDir(input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("directory path must not be empty")
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", input, err)
	}

	return filepath.Clean(abs), nil
}
