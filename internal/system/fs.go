package system

import (
	"io"
	"os"
)

// Filesystem is the seam between module sources/sinks and the disk.
// Readers and writers only ever touch files through this interface,
// which is what lets tests inject failures at any single step.
type Filesystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	ReadFile(path string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
	CreateTemp(dir string, pattern string) (File, error)
	Rename(oldpath string, newpath string) error
	Remove(path string) error
	SyncDir(path string) error
}

// File is the writable half of a temporary file.
type File interface {
	io.Writer
	Name() string
	Sync() error
	Close() error
}
