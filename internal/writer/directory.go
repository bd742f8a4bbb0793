package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/system"
	"github.com/snmp-tools/mibfs/internal/utils"
)

const (
	DefaultSuffix        = ".go"
	DefaultCommentPrefix = "//"
)

type Options struct {
	// Appended to the logical name to form the artifact file name.
	Suffix        string
	CommentPrefix string
	// Run Validator against every stored artifact.
	Validate  bool
	Validator Validator
	FS        system.Filesystem
}

func DefaultOptions() Options {
	return Options{
		Suffix:        DefaultSuffix,
		CommentPrefix: DefaultCommentPrefix,
		Validate:      true,
		Validator:     ParseValidator{},
		FS:            system.LocalFilesystem{},
	}
}

// DirectoryWriter stores artifacts as files in a single directory.
//
// Every store goes through a uniquely named temporary file in the
// destination directory that is renamed over the final path, so a
// partially written artifact is never visible under its final name.
// Concurrent stores of the same name do not collide; the last rename
// wins.
type DirectoryWriter struct {
	root string
	opts Options
	log  logger.Logger
}

func NewDirectoryWriter(root string, opts Options, log logger.Logger) (*DirectoryWriter, error) {
	absRoot, err := utils.AbsDir(root)
	if err != nil {
		return nil, err
	}

	if opts.CommentPrefix == "" {
		opts.CommentPrefix = DefaultCommentPrefix
	}
	if opts.Validator == nil {
		opts.Validator = ParseValidator{}
	}
	if opts.FS == nil {
		opts.FS = system.LocalFilesystem{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &DirectoryWriter{
		root: absRoot,
		opts: opts,
		log:  log,
	}, nil
}

func (w *DirectoryWriter) String() string {
	return fmt.Sprintf(`DirectoryWriter{"%s"}`, w.root)
}

func (w *DirectoryWriter) Root() string {
	return w.root
}

// Path returns the final artifact path for a logical module name.
func (w *DirectoryWriter) Path(name string) string {
	return filepath.Join(w.root, name+w.opts.Suffix)
}

func (w *DirectoryWriter) Store(name string, data string, opts StoreOptions) error {
	if opts.DryRun {
		w.log.Debugf("dry run mode, not storing %s", name)
		return nil
	}

	if err := checkName(name); err != nil {
		return &WriteError{Path: w.Path(name), Err: err}
	}

	if err := w.opts.FS.MkdirAll(w.root, 0o755); err != nil {
		return &WriteError{
			Path: w.root,
			Err:  fmt.Errorf("failure creating destination directory: %w", err),
		}
	}

	if len(opts.Comments) > 0 {
		data = w.commentBlock(opts.Comments) + data
	}

	path := w.Path(name)

	if err := w.writeFile(name, path, []byte(data)); err != nil {
		return err
	}

	w.log.Debugf("created file %s", path)

	if w.opts.Validate {
		if err := w.opts.Validator.Validate(path); err != nil {
			if !errors.Is(err, ErrRejected) {
				if rmErr := w.opts.FS.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
					w.log.Warnf("failed to remove %s after validation failure: %v", path, rmErr)
				}

				return &WriteError{
					Path: path,
					Err:  fmt.Errorf("failure validating: %w", err),
				}
			}

			w.log.Warnf("%v", err)
		}
	}

	w.log.Debugf("%s stored", name)

	return nil
}

// Write data to a temporary file next to path and rename it into
// place. The temporary file never outlives a failed call.
func (w *DirectoryWriter) writeFile(name string, path string, data []byte) error {
	tmpFile, err := w.opts.FS.CreateTemp(w.root, "."+name+"-*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("failure creating temporary file: %w", err)}
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if success {
			return
		}
		_ = tmpFile.Close()
		if rmErr := w.opts.FS.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			w.log.Warnf("failed to remove temporary file %s: %v", tmpPath, rmErr)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = tmpFile.Sync(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = tmpFile.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = w.opts.FS.Rename(tmpPath, path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	success = true

	if err = w.opts.FS.SyncDir(w.root); err != nil {
		w.log.Debugf("%v", err)
	}

	return nil
}

func (w *DirectoryWriter) commentBlock(comments []string) string {
	var b strings.Builder

	prefix := w.opts.CommentPrefix

	b.WriteString(prefix + "\n")
	for _, c := range comments {
		b.WriteString(prefix + " " + c + "\n")
	}
	b.WriteString(prefix + "\n")

	return b.String()
}

func (w *DirectoryWriter) Load(fileName string) (string, error) {
	if !filepath.IsLocal(fileName) {
		return "", fmt.Errorf("invalid artifact file name '%s'", fileName)
	}

	data, err := w.opts.FS.ReadFile(filepath.Join(w.root, fileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	return string(data), nil
}

func (w *DirectoryWriter) Exists(name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}

	fi, err := w.opts.FS.Stat(w.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", w.Path(name), err)
	}

	return fi.Mode().IsRegular(), nil
}

// Artifacts must land directly inside the destination directory.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid module name '%s'", name)
	}
	return nil
}
