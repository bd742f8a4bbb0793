package reader

import (
	"fmt"

	"github.com/snmp-tools/mibfs/internal/artifact"
)

type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source MIB %s not found", e.Name)
}

type StaleError struct {
	Name string
	Info artifact.Info
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("source MIB %s is older than needed (%s)", e.Name, e.Info.Origin)
}

type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("file %s access error: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

type TooLargeError struct {
	Path  string
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("MIB %s too large (limit is %d bytes)", e.Path, e.Limit)
}
