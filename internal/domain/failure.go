package domain

// TestFailure represents a failed test case as persisted for the failure viewer
type TestFailure struct {
	TestName    string   `json:"test_name"`
	FilePath    string   `json:"file_path"`
	Kind        string   `json:"kind"`
	Errors      []string `json:"errors"`
	Logs        []string `json:"logs,omitempty"`
	RunnerError string   `json:"runner_error,omitempty"`
	Duration    float64  `json:"duration_seconds"`
	Resolved    bool     `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// NewTestFailure converts a failed record into its persisted form
func NewTestFailure(r TestResult) TestFailure {
	f := TestFailure{
		TestName: r.Description,
		FilePath: r.File,
		Kind:     r.Kind.String(),
		Errors:   append([]string{}, r.Errors...),
		Logs:     append([]string{}, r.Logs...),
		Duration: r.DurationSeconds(),
	}
	if r.RunnerError != nil {
		f.RunnerError = r.RunnerError.Error()
	}
	return f
}
