package execution

import (
	"errors"
	"fmt"
	"time"

	"ntr/internal/domain"
)

// Sink receives the record produced by a test
type Sink interface {
	AddResult(result domain.TestResult)
}

// ErrBodyExited fails a test whose body stopped its goroutine (runtime.Goexit,
// t.FailNow style helpers) instead of returning.
var ErrBodyExited = errors.New("test body exited without returning")

// Process runs one test body and appends exactly one record to sink.
// Failures of the body never escape: they become the record's errors.
func Process(sink Sink, tc domain.TestCase) {
	start := time.Now()
	logs := domain.NewLogs()

	returned := false
	defer func() {
		if !returned {
			sink.AddResult(newResult(tc, start, logs, ErrBodyExited))
		}
	}()

	err := invoke(tc.Body, logs)
	returned = true

	sink.AddResult(newResult(tc, start, logs, err))
}

func newResult(tc domain.TestCase, start time.Time, logs *domain.Logs, err error) domain.TestResult {
	result := domain.TestResult{
		Description: tc.Description,
		File:        tc.File,
		Duration:    time.Since(start),
		Errors:      []string{},
		Logs:        logs.Lines(),
		Kind:        domain.KindNone,
	}
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Kind = domain.KindAssertion

		var re *domain.RunnerError
		if errors.As(err, &re) {
			result.Kind = re.Kind
			result.RunnerError = re.Clone()
		}
	}
	return result
}

// invoke calls body and converts a panic into an error
func invoke(body domain.Body, logs *domain.Logs) (err error) {
	if body == nil {
		return domain.NewRunnerError("Invalid Arguments: test body must be a function.")
	}

	defer func() {
		if v := recover(); v != nil {
			err = panicError(v)
		}
	}()

	return body(logs)
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}
