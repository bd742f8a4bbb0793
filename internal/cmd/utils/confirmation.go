package cmdUtils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/snmp-tools/mibfs/internal/settings"
)

type ConfirmationPromptOptions struct {
	InvalidBehavior settings.ConfirmationPromptBehavior
	EmptyBehavior   settings.ConfirmationPromptBehavior
}

func ConfirmationPromptOptionsFromSettings(cfg *settings.Settings) ConfirmationPromptOptions {
	return ConfirmationPromptOptions{
		InvalidBehavior: cfg.Confirmation.Invalid,
		EmptyBehavior:   cfg.Confirmation.Empty,
	}
}

func ConfirmationInput(msg string, opts ConfirmationPromptOptions) (bool, error) {
	return ConfirmationInputFrom(os.Stdin, os.Stderr, msg, opts)
}

// ConfirmationInputFrom prompts on out and reads answers from in.
// Running out of input counts as an empty answer, except under the
// retry behavior, where it is an error.
func ConfirmationInputFrom(in io.Reader, out io.Writer, msg string, opts ConfirmationPromptOptions) (bool, error) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprintf(out, "%s\n[y/n]: ", color.GreenString("|> %s", msg))

		scanned := scanner.Scan()
		if err := scanner.Err(); err != nil {
			return false, err
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		if len(input) == 0 {
			switch opts.EmptyBehavior {
			case settings.ConfirmationPromptRetry:
				if !scanned {
					return false, io.ErrUnexpectedEOF
				}
				fmt.Fprintln(out, "error: input must not be empty")
				continue
			case settings.ConfirmationPromptDefaultNo:
				fmt.Fprintln(out, "no input provided; defaulting to no")
				return false, nil
			case settings.ConfirmationPromptDefaultYes:
				fmt.Fprintln(out, "no input provided; defaulting to yes")
				return true, nil
			default:
				return false, fmt.Errorf("unhandled EmptyBehavior case: %s", opts.EmptyBehavior)
			}
		}

		switch input[0] {
		case 'y':
			return true, nil
		case 'n':
			return false, nil
		}

		switch opts.InvalidBehavior {
		case settings.ConfirmationPromptRetry:
			fmt.Fprintf(out, "error: invalid input '%s'; must be y/n\n", input)
			continue
		case settings.ConfirmationPromptDefaultNo:
			fmt.Fprintf(out, "warning: invalid input '%s'; defaulting to no\n", input)
			return false, nil
		case settings.ConfirmationPromptDefaultYes:
			fmt.Fprintf(out, "warning: invalid input '%s'; defaulting to yes\n", input)
			return true, nil
		default:
			return false, fmt.Errorf("unhandled InvalidBehavior case: %s", opts.InvalidBehavior)
		}
	}
}
