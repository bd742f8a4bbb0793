// Package writer persists generated MIB artifacts.
package writer

import (
	"errors"
	"fmt"
)

type Writer interface {
	fmt.Stringer

	// Durably store generated text under a logical module name.
	Store(name string, data string, opts StoreOptions) error

	// Return previously stored content for a file name, or an empty
	// string if there is none.
	Load(fileName string) (string, error)

	// Report whether an artifact is currently stored under a logical
	// module name.
	Exists(name string) (bool, error)
}

type StoreOptions struct {
	// Lines prepended to the artifact as a framed comment block.
	Comments []string
	// Perform no filesystem access at all.
	DryRun bool
}

// ErrRejected marks validation failures that concern the artifact's
// content rather than the write itself. Such artifacts are kept.
var ErrRejected = errors.New("artifact rejected by validator")

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failure writing file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
