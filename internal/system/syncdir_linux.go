//go:build linux

package system

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Flush a directory's entries to stable storage, so that a rename
// inside of it survives a crash.
func syncDir(path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("failed to open directory %s: %v", path, err)
	}
	defer func() { _ = unix.Close(fd) }()

	if err = unix.Fsync(fd); err != nil {
		return fmt.Errorf("failed to sync directory %s: %v", path, err)
	}

	return nil
}
