package writer

import (
	"bytes"
	"errors"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"slices"
	"strings"

	"github.com/snmp-tools/mibfs/internal/system"
)

// Validator checks an artifact after it has been written. Errors
// wrapping ErrRejected are tolerated; any other error causes the
// artifact to be removed.
type Validator interface {
	Validate(path string) error
}

type ValidatorFunc func(path string) error

func (f ValidatorFunc) Validate(path string) error {
	return f(path)
}

// ParseValidator checks that an artifact is syntactically valid Go.
type ParseValidator struct{}

func (ParseValidator) Validate(path string) error {
	fset := token.NewFileSet()

	_, err := parser.ParseFile(fset, path, nil, parser.AllErrors)
	if err == nil {
		return nil
	}

	var syntaxErrs scanner.ErrorList
	if errors.As(err, &syntaxErrs) {
		return fmt.Errorf("%w: %v", ErrRejected, syntaxErrs)
	}

	return err
}

// CommandValidator runs an external command with the artifact path
// appended to its arguments. A non-zero exit status is a rejection;
// failing to run the command at all is an error.
type CommandValidator struct {
	Runner system.CommandRunner
	Argv   []string
}

func (v CommandValidator) Validate(path string) error {
	if len(v.Argv) == 0 {
		return fmt.Errorf("validation command must not be empty")
	}

	var output bytes.Buffer

	cmd := system.NewCommand(v.Argv[0], append(slices.Clone(v.Argv[1:]), path)...)
	cmd.Stdin = nil
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.ForwardSignals = false

	status, err := v.Runner.Run(cmd)
	if err == nil {
		return nil
	}

	if status != 0 {
		return fmt.Errorf("%w: %s exited with status %d: %s", ErrRejected, v.Argv[0], status, strings.TrimSpace(output.String()))
	}

	return fmt.Errorf("failed to run %s: %w", v.Argv[0], err)
}
