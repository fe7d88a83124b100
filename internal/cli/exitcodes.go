package cli

import (
	"errors"
	"fmt"

	"github.com/emredjan/xml-validation/pkg/runner"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

// Exit codes for xmltools.
const (
	// ExitSuccess indicates every file passed.
	ExitSuccess = 0

	// ExitFailures indicates a file was not well-formed or not valid.
	ExitFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates a file could not be read or written.
	ExitIOError = 74
)

// ErrChecksFailed is wrapped by errors that only signal a failing exit code.
// The failure has already been reported, so main does not log it again.
var ErrChecksFailed = errors.New("checks failed")

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// failed returns the error for a reported failure of the given kind, or nil
// when kind is KindNone.
func failed(kind xmlops.ErrorKind) error {
	code := ExitCodeFromKind(kind)
	if code == ExitSuccess {
		return nil
	}
	return &ExitError{Code: code, Err: fmt.Errorf("%w: %s", ErrChecksFailed, kind)}
}

// ExitCode returns the exit code for an error returned by a command.
// Errors without an explicit code map to ExitFailures.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailures
}

// ExitCodeFromKind maps an operation outcome to an exit code.
func ExitCodeFromKind(kind xmlops.ErrorKind) int {
	switch kind {
	case xmlops.KindNone:
		return ExitSuccess
	case xmlops.KindIO:
		return ExitIOError
	default:
		return ExitFailures
	}
}

// ExitCodeFromResult determines the exit code for a batch run. IO errors win
// over syntax and schema failures.
func ExitCodeFromResult(result *runner.Result) int {
	return ExitCodeFromKind(result.WorstKind())
}
