package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/snmp-tools/mibfs/internal/system"
)

const goModule = "package mibs\n\nconst IfMibSource = \"IF-MIB DEFINITIONS ::= BEGIN END\"\n"

// faultyFS injects a failure at a single step of the write protocol.
type faultyFS struct {
	system.LocalFilesystem
	failRename bool
	failWrite  bool
	failMkdir  bool
}

func (f faultyFS) MkdirAll(path string, perm os.FileMode) error {
	if f.failMkdir {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrPermission}
	}
	return f.LocalFilesystem.MkdirAll(path, perm)
}

func (f faultyFS) Rename(oldpath string, newpath string) error {
	if f.failRename {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrPermission}
	}
	return f.LocalFilesystem.Rename(oldpath, newpath)
}

func (f faultyFS) CreateTemp(dir string, pattern string) (system.File, error) {
	file, err := f.LocalFilesystem.CreateTemp(dir, pattern)
	if err != nil || !f.failWrite {
		return file, err
	}
	return failingWriteFile{File: file}, nil
}

type failingWriteFile struct {
	system.File
}

func (failingWriteFile) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("no space left on device")
}

func newWriter(t *testing.T, root string, opts Options) *DirectoryWriter {
	t.Helper()

	w, err := NewDirectoryWriter(root, opts, nil)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	return w
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStore_DryRun(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	w := newWriter(t, root, DefaultOptions())

	if err := w.Store("mod", goModule, StoreOptions{DryRun: true}); err != nil {
		t.Fatalf("dry run must not fail: %v", err)
	}

	if _, err := os.Stat(root); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected destination directory not to be created, got %v", err)
	}

	got, err := w.Load("mod.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty load after dry run, got %q", got)
	}
}

func TestStore_DryRunNeverFails(t *testing.T) {
	w := newWriter(t, t.TempDir(), Options{FS: faultyFS{failMkdir: true, failRename: true}})

	if err := w.Store("../escape", "x", StoreOptions{DryRun: true}); err != nil {
		t.Fatalf("dry run must not fail: %v", err)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		comments []string
		want     string
	}{
		{
			name: "no comments",
			want: goModule,
		},
		{
			name:     "with comments",
			comments: []string{"ASN.1 source file:///mibs/IF-MIB", "Produced by mibfs"},
			want:     "//\n// ASN.1 source file:///mibs/IF-MIB\n// Produced by mibfs\n//\n" + goModule,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "nested", "out")
			w := newWriter(t, root, DefaultOptions())

			if err := w.Store("IF-MIB", goModule, StoreOptions{Comments: test.comments}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := w.Load("IF-MIB.go")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("Load() = %q, want %q", got, test.want)
			}

			raw, err := os.ReadFile(w.Path("IF-MIB"))
			if err != nil {
				t.Fatal(err)
			}
			if string(raw) != test.want {
				t.Errorf("file content = %q, want %q", raw, test.want)
			}

			if names := listDir(t, root); len(names) != 1 || names[0] != "IF-MIB.go" {
				t.Errorf("expected only the artifact in the directory, got %v", names)
			}
		})
	}
}

func TestStore_CustomCommentPrefix(t *testing.T) {
	w := newWriter(t, t.TempDir(), Options{Suffix: ".py", CommentPrefix: "#"})

	if err := w.Store("m", "x = 1\n", StoreOptions{Comments: []string{"hello"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := w.Load("m.py")
	if got != "#\n# hello\n#\nx = 1\n" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestStore_Overwrite(t *testing.T) {
	w := newWriter(t, t.TempDir(), DefaultOptions())

	for _, content := range []string{goModule, "package mibs\n"} {
		if err := w.Store("m", content, StoreOptions{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, _ := w.Load("m.go")
	if got != "package mibs\n" {
		t.Errorf("expected the last store to win, got %q", got)
	}
}

func TestStore_Failures(t *testing.T) {
	tests := []struct {
		name string
		fs   faultyFS
	}{
		{name: "rename", fs: faultyFS{failRename: true}},
		{name: "write", fs: faultyFS{failWrite: true}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := t.TempDir()
			existing := filepath.Join(root, "m.go")
			if err := os.WriteFile(existing, []byte("previous"), 0o644); err != nil {
				t.Fatal(err)
			}

			w := newWriter(t, root, Options{Suffix: ".go", FS: test.fs})

			err := w.Store("m", goModule, StoreOptions{})

			var writeErr *WriteError
			if !errors.As(err, &writeErr) {
				t.Fatalf("expected WriteError, got %v", err)
			}
			if writeErr.Path != existing {
				t.Errorf("expected error to name %s, got %s", existing, writeErr.Path)
			}

			if names := listDir(t, root); len(names) != 1 || names[0] != "m.go" {
				t.Errorf("expected no temporary files left behind, got %v", names)
			}

			got, _ := os.ReadFile(existing)
			if string(got) != "previous" {
				t.Errorf("expected previous artifact to be untouched, got %q", got)
			}
		})
	}
}

func TestStore_MkdirFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	w := newWriter(t, root, Options{FS: faultyFS{failMkdir: true}})

	err := w.Store("m", goModule, StoreOptions{})

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	if writeErr.Path != root {
		t.Errorf("expected error to name the root %s, got %s", root, writeErr.Path)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("expected error to wrap the cause, got %v", err)
	}
}

func TestStore_InvalidName(t *testing.T) {
	root := t.TempDir()
	w := newWriter(t, root, DefaultOptions())

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		var writeErr *WriteError
		if err := w.Store(name, goModule, StoreOptions{}); !errors.As(err, &writeErr) {
			t.Errorf("Store(%q): expected WriteError, got %v", name, err)
		}
	}

	if names := listDir(t, root); len(names) != 0 {
		t.Errorf("expected nothing to be written, got %v", names)
	}
}

func TestStore_Validation(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		validator Validator
		wantErr   bool
		wantKept  bool
	}{
		{
			name:      "valid go source",
			content:   goModule,
			validator: ParseValidator{},
			wantKept:  true,
		},
		{
			name:      "syntax errors are tolerated",
			content:   "package mibs\n\nconst = \n",
			validator: ParseValidator{},
			wantKept:  true,
		},
		{
			name:    "rejections are tolerated",
			content: goModule,
			validator: ValidatorFunc(func(path string) error {
				return fmt.Errorf("%w: lint failed", ErrRejected)
			}),
			wantKept: true,
		},
		{
			name:    "other failures remove the artifact",
			content: goModule,
			validator: ValidatorFunc(func(path string) error {
				return fmt.Errorf("validator crashed")
			}),
			wantErr:  true,
			wantKept: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := t.TempDir()
			w := newWriter(t, root, Options{Suffix: ".go", Validate: true, Validator: test.validator})

			err := w.Store("m", test.content, StoreOptions{})
			if (err != nil) != test.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}

			var writeErr *WriteError
			if test.wantErr && !errors.As(err, &writeErr) {
				t.Errorf("expected WriteError, got %v", err)
			}

			_, statErr := os.Stat(w.Path("m"))
			if kept := statErr == nil; kept != test.wantKept {
				t.Errorf("expected artifact kept = %v, got %v", test.wantKept, kept)
			}
		})
	}
}

func TestStore_ValidationSkippedWhenDisabled(t *testing.T) {
	called := false
	w := newWriter(t, t.TempDir(), Options{
		Suffix:   ".go",
		Validate: false,
		Validator: ValidatorFunc(func(path string) error {
			called = true
			return nil
		}),
	})

	if err := w.Store("m", goModule, StoreOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Errorf("validator must not run when validation is disabled")
	}
}

func TestStore_Concurrent(t *testing.T) {
	root := t.TempDir()
	w := newWriter(t, root, Options{Suffix: ".go"})

	const writers = 16

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- w.Store("m", fmt.Sprintf("package mibs // %d\n", i), StoreOptions{})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if names := listDir(t, root); len(names) != 1 {
		t.Errorf("expected a single artifact and no temporary files, got %v", names)
	}

	got, _ := w.Load("m.go")
	var matched bool
	for i := range writers {
		if got == fmt.Sprintf("package mibs // %d\n", i) {
			matched = true
		}
	}
	if !matched {
		t.Errorf("expected content of exactly one writer, got %q", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	w := newWriter(t, filepath.Join(t.TempDir(), "absent"), DefaultOptions())

	got, err := w.Load("nothing.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty content, got %q", got)
	}
}

func TestLoad_RejectsNamesOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "out")

	if err := os.WriteFile(filepath.Join(dir, "secret.go"), []byte("package secret\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWriter(t, root, DefaultOptions())

	for _, name := range []string{"../secret.go", filepath.Join(dir, "secret.go"), "", "a/../../secret.go"} {
		got, err := w.Load(name)
		if err == nil {
			t.Errorf("Load(%q) = %q, expected error", name, got)
		}
	}
}

func TestExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	w := newWriter(t, root, DefaultOptions())

	ok, err := w.Exists("IF-MIB")
	if err != nil || ok {
		t.Fatalf("expected no artifact before storing, got ok=%v err=%v", ok, err)
	}

	if err := w.Store("IF-MIB", goModule, StoreOptions{}); err != nil {
		t.Fatal(err)
	}

	ok, err = w.Exists("IF-MIB")
	if err != nil || !ok {
		t.Fatalf("expected artifact after storing, got ok=%v err=%v", ok, err)
	}

	if err := os.Remove(w.Path("IF-MIB")); err != nil {
		t.Fatal(err)
	}

	ok, err = w.Exists("IF-MIB")
	if err != nil || ok {
		t.Errorf("expected no artifact after removal, got ok=%v err=%v", ok, err)
	}

	if _, err := w.Exists("../IF-MIB"); err == nil {
		t.Errorf("expected error for a name outside the destination")
	}
}
