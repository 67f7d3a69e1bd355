package cli

import (
	"errors"
	"fmt"

	"ntr/internal/results"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1 // Failed tests or tests that could not be loaded
)

// ExitError carries the process exit code of a command
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Outcome returns the final message of a run and its exit code. A load
// error takes precedence over failed tests.
func Outcome(snap *results.Aggregator) (string, int) {
	if err := snap.ImportError(); err != nil {
		return fmt.Sprintf("Test Runner import test files error: %v", err), ExitFailure
	}
	if failed := len(snap.Failed()); failed > 0 {
		return fmt.Sprintf("Test Runner tests failed: %d", failed), ExitFailure
	}
	return "Test Runner execution success", ExitSuccess
}

// OutcomeError converts a run outcome into an error, nil on success
func OutcomeError(snap *results.Aggregator) error {
	message, code := Outcome(snap)
	if code == ExitSuccess {
		return nil
	}
	return &ExitError{Code: code, Message: message}
}
