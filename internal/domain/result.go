package domain

import (
	"fmt"
	"time"
)

// TestResult represents the outcome of a single test invocation
type TestResult struct {
	Description string        `json:"description"`
	File        string        `json:"file,omitempty"`
	Duration    time.Duration `json:"duration"`
	Errors      []string      `json:"errors"`
	Logs        []string      `json:"logs"`
	Kind        FailureKind   `json:"kind"`
	RunnerError *RunnerError  `json:"runner_error,omitempty"`
}

// Passed reports whether the test finished without errors
func (r TestResult) Passed() bool {
	return len(r.Errors) == 0
}

// DurationSeconds returns the elapsed time of the test body in seconds
func (r TestResult) DurationSeconds() float64 {
	return r.Duration.Seconds()
}

// DurationString formats the duration the way the summary prints it, e.g. "0.012 sec"
func (r TestResult) DurationString() string {
	return fmt.Sprintf("%.3f sec", r.Duration.Seconds())
}

// Clone returns a deep copy so callers cannot mutate a stored record
func (r TestResult) Clone() TestResult {
	c := r
	c.Errors = append([]string{}, r.Errors...)
	c.Logs = append([]string{}, r.Logs...)
	if r.RunnerError != nil {
		c.RunnerError = r.RunnerError.Clone()
	}
	return c
}

// RunMeta describes one runner invocation
type RunMeta struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	RunnerErrors    int     `json:"runner_errors"`
	ImportError     string  `json:"import_error,omitempty"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}
