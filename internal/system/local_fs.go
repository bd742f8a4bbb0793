package system

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

type LocalFilesystem struct{}

func (LocalFilesystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (LocalFilesystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (LocalFilesystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (LocalFilesystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (LocalFilesystem) CreateTemp(dir string, pattern string) (File, error) {
	return os.CreateTemp(dir, pattern)
}

func (LocalFilesystem) Rename(oldpath string, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (LocalFilesystem) Remove(path string) error {
	return os.Remove(path)
}

func (LocalFilesystem) SyncDir(path string) error {
	return syncDir(path)
}

// ReadDir lists a directory sorted by name. Entries that disappear
// between the listing and the stat are left out instead of failing
// the whole listing.
func (LocalFilesystem) ReadDir(path string) ([]os.FileInfo, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]os.FileInfo, 0, len(dirEntries))
	for _, entry := range dirEntries {
		var info os.FileInfo
		info, err = entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		entries = append(entries, info)
	}

	return entries, nil
}
