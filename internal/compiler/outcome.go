package compiler

import (
	"fmt"

	"github.com/snmp-tools/mibfs/internal/artifact"
)

type OutcomeStatus int

const (
	OutcomeCompiled OutcomeStatus = iota
	OutcomeUpToDate
	OutcomeMissing
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeCompiled:
		return "compiled"
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeMissing:
		return "missing"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("OutcomeStatus(%d)", int(s))
}

func (s OutcomeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Outcome struct {
	Name   string        `json:"name"`
	Status OutcomeStatus `json:"status"`
	// Source the module was compiled from or found current in.
	Info artifact.Info `json:"info"`
	Err  error         `json:"-"`
}

// Summary counts outcomes by status.
type Summary map[OutcomeStatus]int

func Summarize(outcomes []Outcome) Summary {
	s := make(Summary)
	for _, o := range outcomes {
		s[o.Status]++
	}
	return s
}

func (s Summary) Failed() bool {
	return s[OutcomeFailed] > 0 || s[OutcomeMissing] > 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d compiled, %d up to date, %d missing, %d failed",
		s[OutcomeCompiled], s[OutcomeUpToDate], s[OutcomeMissing], s[OutcomeFailed])
}
