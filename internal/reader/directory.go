package reader

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/snmp-tools/mibfs/internal/artifact"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/system"
	"github.com/snmp-tools/mibfs/internal/utils"
)

const (
	DefaultIndexFile   = ".index"
	DefaultMaxReadSize = 500 * 1024
)

type Options struct {
	// Search subdirectories of the root as well.
	Recursive bool
	// Consult the index file at the root before generating variants.
	UseIndex  bool
	IndexFile string
	// Skip candidates and directories that cannot be read instead of
	// failing the whole operation.
	IgnoreErrors bool
	// Files of this size or larger are rejected.
	MaxReadSize int64
	Encoding    artifact.Encoding
	Variants    VariantPolicy
	FS          system.Filesystem
}

func DefaultOptions() Options {
	return Options{
		Recursive:    true,
		UseIndex:     true,
		IndexFile:    DefaultIndexFile,
		IgnoreErrors: true,
		MaxReadSize:  DefaultMaxReadSize,
		Encoding:     artifact.EncodingUTF8,
		Variants:     DefaultVariants,
		FS:           system.LocalFilesystem{},
	}
}

// DirectoryReader serves MIB modules from a directory tree.
type DirectoryReader struct {
	root string
	opts Options
	log  logger.Logger

	indexOnce sync.Once
	index     map[string]string
}

func NewDirectoryReader(root string, opts Options, log logger.Logger) (*DirectoryReader, error) {
	absRoot, err := utils.AbsDir(root)
	if err != nil {
		return nil, err
	}

	if opts.IndexFile == "" {
		opts.IndexFile = DefaultIndexFile
	}
	if opts.MaxReadSize <= 0 {
		opts.MaxReadSize = DefaultMaxReadSize
	}
	if opts.Encoding == "" {
		opts.Encoding = artifact.EncodingUTF8
	}
	if opts.Variants == nil {
		opts.Variants = DefaultVariants
	}
	if opts.FS == nil {
		opts.FS = system.LocalFilesystem{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &DirectoryReader{
		root: absRoot,
		opts: opts,
		log:  log,
	}, nil
}

func (r *DirectoryReader) String() string {
	return fmt.Sprintf(`DirectoryReader{"%s"}`, r.root)
}

func (r *DirectoryReader) Root() string {
	return r.root
}

// The index is read at most once per reader; later changes to the
// file are only visible to a new reader.
func (r *DirectoryReader) loadIndex() {
	indexFile := filepath.Join(r.root, r.opts.IndexFile)

	data, err := r.opts.FS.ReadFile(indexFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.log.Debugf("failed to read MIB index %s: %v", indexFile, err)
		}
		r.index = map[string]string{}
		return
	}

	r.index = parseIndex(data)
	r.log.Debugf("loaded MIB index map from %s file, %d entries", indexFile, len(r.index))
}

// Variants returns the ordered candidates for a logical name. An
// indexed name resolves to exactly its indexed file.
func (r *DirectoryReader) Variants(name string) []Variant {
	if r.opts.UseIndex {
		r.indexOnce.Do(r.loadIndex)

		if fileName, ok := r.index[name]; ok {
			r.log.Debugf("found %s in MIB index: %s", name, fileName)
			return []Variant{{Alias: name, FileName: fileName}}
		}
	}

	return r.opts.Variants.Variants(name)
}

func (r *DirectoryReader) SearchRoots() ([]string, error) {
	return ListSearchRoots(r.opts.FS, r.root, r.opts.Recursive, r.opts.IgnoreErrors)
}

// List the directories to search, starting with root itself.
//
// When recursive, subdirectories are visited depth-first in listing
// order. A directory that cannot be listed contributes nothing further,
// unless ignoreErrors is false, in which case the failure is returned.
// There is no cycle detection; symlink loops are not supported.
func ListSearchRoots(fsys system.Filesystem, root string, recursive bool, ignoreErrors bool) ([]string, error) {
	dirs := []string{root}

	if !recursive {
		return dirs, nil
	}

	entries, err := fsys.ReadDir(root)
	if err != nil {
		if ignoreErrors {
			return dirs, nil
		}
		return nil, &AccessError{Path: root, Err: err}
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if !isDir(fsys, path, entry) {
			continue
		}

		subdirs, err := ListSearchRoots(fsys, path, recursive, ignoreErrors)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, subdirs...)
	}

	return dirs, nil
}

func isDir(fsys system.Filesystem, path string, fi os.FileInfo) bool {
	if fi.Mode()&os.ModeSymlink != 0 {
		target, err := fsys.Stat(path)
		return err == nil && target.IsDir()
	}
	return fi.IsDir()
}

func (r *DirectoryReader) Fetch(name string, opts FetchOptions) (Result, error) {
	if r.opts.Recursive {
		r.log.Debugf("recursively looking for MIB %s in %s", name, r.root)
	} else {
		r.log.Debugf("looking for MIB %s in %s", name, r.root)
	}

	roots, err := r.SearchRoots()
	if err != nil {
		return Result{}, err
	}

	variants := r.Variants(name)

	var stale *artifact.Info

	for _, dir := range roots {
		for _, variant := range variants {
			path := filepath.Join(dir, variant.FileName)

			fi, err := r.opts.FS.Stat(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
					continue
				}
				if !r.opts.IgnoreErrors {
					return Result{}, &AccessError{Path: path, Err: err}
				}
				r.log.Debugf("cannot stat MIB candidate %s: %v", path, err)
				continue
			}
			if !fi.Mode().IsRegular() {
				continue
			}

			info := artifact.NewInfo(r.root, path, variant.Alias, fi)

			if !opts.NewerThan.IsZero() && !info.ModTime.After(opts.NewerThan) {
				r.log.Debugf("source MIB %s mtime is %s, not newer than %s",
					path, info.ModTime.UTC().Format(time.RFC1123), opts.NewerThan.UTC().Format(time.RFC1123))
				stale = &info
				continue
			}

			r.log.Debugf("source MIB %s mtime is %s, fetching data...", path, info.ModTime.UTC().Format(time.RFC1123))

			data, err := r.readCapped(path)
			if err != nil {
				var tooLarge *TooLargeError
				if errors.As(err, &tooLarge) || !r.opts.IgnoreErrors {
					return Result{}, err
				}

				r.log.Debugf("source file %s open failure: %v", path, err)
				stale = &info
				continue
			}

			return Result{
				Status: StatusFound,
				Name:   name,
				Info:   info,
				Data:   artifact.Decode(data, r.opts.Encoding),
			}, nil
		}
	}

	if stale != nil {
		return Result{Status: StatusStale, Name: name, Info: *stale}, nil
	}

	return Result{Status: StatusNotFound, Name: name}, nil
}

func (r *DirectoryReader) Enumerate() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		r.log.Debugf("iterating over MIB source %s", r)

		roots, err := r.SearchRoots()
		if err != nil {
			yield(Entry{}, err)
			return
		}

		for _, dir := range roots {
			entries, err := r.opts.FS.ReadDir(dir)
			if err != nil {
				r.log.Debugf("failed to list %s: %v", dir, err)
				if r.opts.IgnoreErrors {
					continue
				}
				if !yield(Entry{}, &AccessError{Path: dir, Err: err}) {
					return
				}
				continue
			}

			for _, fi := range entries {
				if fi.Name() == r.opts.IndexFile {
					continue
				}

				path := filepath.Join(dir, fi.Name())

				if fi.Mode()&os.ModeSymlink != 0 {
					fi, err = r.opts.FS.Stat(path)
					if err != nil {
						continue
					}
				}
				if !fi.Mode().IsRegular() {
					continue
				}

				name := strings.TrimSuffix(fi.Name(), filepath.Ext(fi.Name()))
				if name == "" {
					continue
				}

				data, err := r.readCapped(path)
				if err != nil {
					r.log.Debugf("source file %s open failure: %v", path, err)
					if r.opts.IgnoreErrors {
						continue
					}
					if !yield(Entry{}, err) {
						return
					}
					continue
				}

				entry := Entry{
					Info: artifact.NewInfo(r.root, path, name, fi),
					Data: artifact.Decode(data, r.opts.Encoding),
				}
				if !yield(entry, nil) {
					return
				}
			}
		}
	}
}

// Read a whole file, refusing anything that reaches the size cap.
// The cap is a rejection, never a truncation.
func (r *DirectoryReader) readCapped(path string) ([]byte, error) {
	f, err := r.opts.FS.Open(path)
	if err != nil {
		return nil, &AccessError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, r.opts.MaxReadSize))
	if err != nil {
		return nil, &AccessError{Path: path, Err: err}
	}

	if int64(len(data)) == r.opts.MaxReadSize {
		return nil, &TooLargeError{Path: path, Limit: r.opts.MaxReadSize}
	}

	return data, nil
}
