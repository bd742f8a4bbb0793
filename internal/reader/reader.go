// Package reader locates MIB module sources by logical name.
//
// A Reader either fetches a single module, trying a sequence of
// candidate file names (variants) in each of its search directories,
// or enumerates every module it can see. DirectoryReader is the
// filesystem-backed implementation.
package reader

import (
	"fmt"
	"iter"
	"time"

	"github.com/snmp-tools/mibfs/internal/artifact"
)

type Reader interface {
	fmt.Stringer

	// Locate and read a module by logical name. Expected outcomes
	// (found, stale, not found) are reported through Result.Status;
	// the error is reserved for access failures and oversized files.
	Fetch(name string, opts FetchOptions) (Result, error)

	// Lazily walk every module in the source. The sequence is driven
	// by live directory listings, so it reflects concurrent changes to
	// the tree rather than a snapshot.
	Enumerate() iter.Seq2[Entry, error]
}

type FetchOptions struct {
	// When set, candidates not modified after this time are
	// treated as stale and skipped.
	NewerThan time.Time
}

type Status int

const (
	StatusNotFound Status = iota
	StatusFound
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusStale:
		return "stale"
	case StatusNotFound:
		return "not found"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type Result struct {
	Status Status
	// Logical name that was requested.
	Name string
	// Set for StatusFound, and for StatusStale to the last stale candidate.
	Info artifact.Info
	// Decoded module text; only set for StatusFound.
	Data string
}

func (r Result) Found() bool {
	return r.Status == StatusFound
}

// Err converts a non-found result into the matching error value, for
// callers that prefer error propagation over branching on Status.
func (r Result) Err() error {
	switch r.Status {
	case StatusFound:
		return nil
	case StatusStale:
		return &StaleError{Name: r.Name, Info: r.Info}
	default:
		return &NotFoundError{Name: r.Name}
	}
}

type Entry struct {
	Info artifact.Info
	Data string
}
