//go:build !linux

package system

import (
	"fmt"
	"os"
)

func syncDir(path string) error {
	dir, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open directory %s: %v", path, err)
	}
	defer func() { _ = dir.Close() }()

	if err = dir.Sync(); err != nil {
		return fmt.Errorf("failed to sync directory %s: %v", path, err)
	}

	return nil
}
