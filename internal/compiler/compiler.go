// Package compiler drives MIB sources through a generator into a
// writer, skipping modules whose sources have not changed since they
// were last compiled.
package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/snmp-tools/mibfs/internal/artifact"
	"github.com/snmp-tools/mibfs/internal/build"
	"github.com/snmp-tools/mibfs/internal/logger"
	"github.com/snmp-tools/mibfs/internal/reader"
	"github.com/snmp-tools/mibfs/internal/state"
	"github.com/snmp-tools/mibfs/internal/writer"
)

// State records the source version each module was compiled from.
// *state.Store implements it.
type State interface {
	Get(name string) (state.Record, bool, error)
	Put(record state.Record) error
}

type Options struct {
	// Generate and validate nothing to disk, and leave State untouched.
	DryRun bool
	// Compile even if the recorded source is up to date.
	Rebuild bool
	// Extra lines appended to the default artifact comment block.
	Comments []string
	// Called once per module with its final outcome.
	Progress func(Outcome)
}

type Compiler struct {
	Sources   []reader.Reader
	Writer    writer.Writer
	Generator Generator
	// May be nil, in which case every module is always compiled.
	State State
	Log   logger.Logger

	now func() time.Time
}

func NewCompiler(sources []reader.Reader, w writer.Writer, gen Generator, st State, log logger.Logger) *Compiler {
	if gen == nil {
		gen = GoSourceGenerator{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Compiler{
		Sources:   sources,
		Writer:    w,
		Generator: gen,
		State:     st,
		Log:       log,
		now:       time.Now,
	}
}

// Compile builds each named module from the first source that has a
// current copy of it. Failures are reported per module and never stop
// the remaining names from being compiled.
func (c *Compiler) Compile(names []string, opts Options) []Outcome {
	outcomes := make([]Outcome, 0, len(names))

	for _, name := range names {
		outcome := c.compileName(name, opts)
		c.report(outcome, opts)
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func (c *Compiler) compileName(name string, opts Options) Outcome {
	record, recorded := c.recorded(name)

	fetchOpts := reader.FetchOptions{}
	if !opts.Rebuild && recorded {
		fetchOpts.NewerThan = record.SourceModTime
	}

	var stale *reader.Result
	var errs []error

	for _, source := range c.Sources {
		result, err := source.Fetch(name, fetchOpts)
		if err != nil {
			c.Log.Debugf("failed to fetch %s from %s: %v", name, source, err)
			errs = append(errs, err)
			continue
		}

		switch result.Status {
		case reader.StatusFound:
			return c.build(name, result.Info, result.Data, opts)
		case reader.StatusStale:
			if stale == nil {
				stale = &result
			}
		}
	}

	// A stale result without a recorded build, or on a forced rebuild,
	// comes from an unreadable candidate rather than from NewerThan.
	if stale != nil {
		if opts.Rebuild || !recorded || c.upToDate(name, stale.Info, record) {
			c.Log.Debugf("%s is up to date (%s)", name, stale.Info.Origin)
			return Outcome{Name: name, Status: OutcomeUpToDate, Info: stale.Info}
		}

		rebuild := opts
		rebuild.Rebuild = true
		return c.compileName(name, rebuild)
	}

	if len(errs) > 0 {
		return Outcome{Name: name, Status: OutcomeFailed, Err: errors.Join(errs...)}
	}

	return Outcome{Name: name, Status: OutcomeMissing, Err: &reader.NotFoundError{Name: name}}
}

// CompileAll compiles every module visible in the sources. When more
// than one source provides the same module name, the first one wins.
func (c *Compiler) CompileAll(opts Options) []Outcome {
	var outcomes []Outcome

	seen := make(map[string]bool)

	for _, source := range c.Sources {
		for entry, err := range source.Enumerate() {
			if err != nil {
				outcome := Outcome{Name: source.String(), Status: OutcomeFailed, Err: err}
				c.report(outcome, opts)
				outcomes = append(outcomes, outcome)
				continue
			}

			name := entry.Info.Name
			if seen[name] {
				c.Log.Debugf("%s from %s is shadowed by an earlier source", name, entry.Info.Origin)
				continue
			}
			seen[name] = true

			var outcome Outcome
			if record, recorded := c.recorded(name); !opts.Rebuild && recorded && c.upToDate(name, entry.Info, record) {
				c.Log.Debugf("%s is up to date (%s)", name, entry.Info.Origin)
				outcome = Outcome{Name: name, Status: OutcomeUpToDate, Info: entry.Info}
			} else {
				outcome = c.build(name, entry.Info, entry.Data, opts)
			}

			c.report(outcome, opts)
			outcomes = append(outcomes, outcome)
		}
	}

	return outcomes
}

func (c *Compiler) recorded(name string) (state.Record, bool) {
	if c.State == nil {
		return state.Record{}, false
	}

	record, ok, err := c.State.Get(name)
	if err != nil {
		c.Log.Warnf("%v", err)
		return state.Record{}, false
	}

	return record, ok
}

// A module is up to date when its source has not changed since it was
// recorded and the artifact built from it is still in place.
func (c *Compiler) upToDate(name string, info artifact.Info, record state.Record) bool {
	if info.ChangedSince(record.SourceModTime, record.SourceChangeTime) {
		c.Log.Debugf("%s was replaced since it was last compiled", info.Origin)
		return false
	}

	exists, err := c.Writer.Exists(name)
	if err != nil {
		c.Log.Warnf("%v", err)
		return false
	}
	if !exists {
		c.Log.Debugf("artifact for %s is missing, rebuilding", name)
	}

	return exists
}

func (c *Compiler) build(name string, info artifact.Info, source string, opts Options) Outcome {
	outcome := Outcome{Name: name, Info: info}

	data, err := c.Generator.Generate(info, source)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = fmt.Errorf("failed to generate %s: %w", name, err)
		return outcome
	}

	storeOpts := writer.StoreOptions{
		Comments: append(c.defaultComments(info), opts.Comments...),
		DryRun:   opts.DryRun,
	}

	if err := c.Writer.Store(name, data, storeOpts); err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = OutcomeCompiled

	if opts.DryRun || c.State == nil {
		return outcome
	}

	err = c.State.Put(state.Record{
		Name:             name,
		Origin:           info.Origin,
		FileName:         info.FileName,
		SourceModTime:    info.ModTime,
		SourceChangeTime: info.ChangeTime,
		StoredAt:         c.now(),
	})
	if err != nil {
		c.Log.Warnf("%s compiled, but its state was not recorded: %v", name, err)
	}

	return outcome
}

func (c *Compiler) defaultComments(info artifact.Info) []string {
	return []string{
		fmt.Sprintf("ASN.1 source %s", info.Origin),
		fmt.Sprintf("Source modified at %s", info.ModTime.UTC().Format(time.RFC1123)),
		fmt.Sprintf("Produced by %s at %s", build.Producer(), c.now().UTC().Format(time.RFC1123)),
	}
}

func (c *Compiler) report(outcome Outcome, opts Options) {
	switch outcome.Status {
	case OutcomeFailed:
		c.Log.Debugf("%s failed: %v", outcome.Name, outcome.Err)
	case OutcomeMissing:
		c.Log.Debugf("%s not found in any source", outcome.Name)
	}

	if opts.Progress != nil {
		opts.Progress(outcome)
	}
}
