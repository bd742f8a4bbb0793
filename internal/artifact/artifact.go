package artifact

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/djherbis/times"
)

// Info describes a module located by a reader or produced for a writer.
type Info struct {
	// Absolute, reproducible locator (a file:// URL).
	Origin string `json:"origin"`
	// On-disk file name, relative to the root that produced this Info.
	FileName string `json:"file_name"`
	// Logical name the pipeline addresses the module by.
	Name string `json:"name"`
	// Modification time of the file when it was located.
	ModTime time.Time `json:"mod_time"`
	// Inode change time, zero where the platform does not report one.
	// Replacing a file while preserving its mtime still moves this.
	ChangeTime time.Time `json:"change_time,omitzero"`
}

// NewInfo builds an Info for the file at path, found under root and
// addressed as name. Both root and path are expected to be absolute.
func NewInfo(root string, path string, name string, fi os.FileInfo) Info {
	fileName, err := filepath.Rel(root, path)
	if err != nil {
		fileName = filepath.Base(path)
	}

	info := Info{
		Origin:   FileOrigin(path),
		FileName: fileName,
		Name:     name,
		ModTime:  fi.ModTime(),
	}

	ts := times.Get(fi)
	if ts.HasChangeTime() {
		info.ChangeTime = ts.ChangeTime()
	}

	return info
}

// ChangedSince reports whether either timestamp of the source is later
// than the recorded ones. A zero ChangeTime on either side is ignored.
func (i Info) ChangedSince(modTime time.Time, changeTime time.Time) bool {
	if i.ModTime.After(modTime) {
		return true
	}
	if i.ChangeTime.IsZero() || changeTime.IsZero() {
		return false
	}
	return i.ChangeTime.After(changeTime)
}

// FileOrigin returns the file:// locator for an absolute path.
func FileOrigin(path string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}
	return u.String()
}
