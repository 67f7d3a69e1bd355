package domain

import "fmt"

// FailureKind classifies the outcome of a test
type FailureKind int

const (
	KindNone FailureKind = iota
	KindAssertion
	KindRunnerMisuse
	KindExpectedErrorMismatch
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAssertion:
		return "assertion"
	case KindRunnerMisuse:
		return "runner misuse"
	case KindExpectedErrorMismatch:
		return "expected error mismatch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsRunnerKind reports whether the kind belongs to the runner's own errors
func (k FailureKind) IsRunnerKind() bool {
	return k == KindRunnerMisuse || k == KindExpectedErrorMismatch
}

// RunnerError is raised by misuse of the framework's helpers, distinct from assertion failures
type RunnerError struct {
	Kind    FailureKind `json:"kind"`
	Name    string      `json:"name"`
	Message string      `json:"message"`
}

// NewRunnerError creates a runner misuse error
func NewRunnerError(format string, args ...any) *RunnerError {
	return &RunnerError{
		Kind:    KindRunnerMisuse,
		Name:    "TestRunnerError",
		Message: fmt.Sprintf(format, args...),
	}
}

// NewExpectedError creates an expected-error-mismatch error
func NewExpectedError(format string, args ...any) *RunnerError {
	return &RunnerError{
		Kind:    KindExpectedErrorMismatch,
		Name:    "TestRunnerExpectedError",
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *RunnerError) Error() string {
	return e.Message
}

// Clone returns an independent copy
func (e *RunnerError) Clone() *RunnerError {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
