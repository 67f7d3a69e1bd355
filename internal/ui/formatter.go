package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ntr/internal/config"
	"ntr/internal/discovery"
	"ntr/internal/domain"
	"ntr/internal/results"
)

var (
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	titleColor = color.New(color.FgCyan)
	fileColor  = color.New(color.FgYellow)
)

// titleKind renders a failure kind as a label, e.g. "Runner Misuse"
func titleKind(kind string) string {
	return cases.Title(language.English).String(kind)
}

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	parser *discovery.Parser
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config, parser *discovery.Parser) *Formatter {
	return &Formatter{
		config: cfg,
		parser: parser,
	}
}

// PrintResults writes the report of a run snapshot: passed tests, failed tests
// with their errors, the summary table and the logs collected by tests.
func (f *Formatter) PrintResults(w io.Writer, snap *results.Aggregator) {
	f.printOutcomes(w, snap)
	f.printSummary(w, snap)
	f.printLogs(w, snap)
}

func (f *Formatter) printOutcomes(w io.Writer, snap *results.Aggregator) {
	for _, r := range snap.Passed() {
		passColor.Fprintf(w, "✓ %s (%s)\n", r.Description, r.DurationString())
	}

	for _, r := range snap.Failed() {
		label := ""
		if r.Kind.IsRunnerKind() {
			label = " [" + titleKind(r.Kind.String()) + "]"
		}
		failColor.Fprintf(w, "✗ %s (%s)%s\n", r.Description, r.DurationString(), label)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "    %s\n", e)
		}
		if r.RunnerError != nil && !containsLine(r.Errors, r.RunnerError.Message) {
			fmt.Fprintf(w, "    %s\n", r.RunnerError.Message)
		}
	}
}

func (f *Formatter) printSummary(w io.Writer, snap *results.Aggregator) {
	fmt.Fprintln(w)
	titleColor.Fprintln(w, "Test Results")

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Passed", "Failed", "Tests Runner Errors", "Total", "Duration"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Tests Runner Errors", Align: text.AlignRight},
		{Name: "Total", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})
	t.AppendRow(table.Row{
		len(snap.Passed()),
		len(snap.Failed()),
		len(snap.RunnerErrors()),
		snap.Len(),
		fmt.Sprintf("%.3f sec", snap.Meta().Duration.Seconds()),
	})
	t.Render()

	if err := snap.ImportError(); err != nil {
		failColor.Fprintf(w, "Import error: %v\n", err)
	}
	fmt.Fprintln(w)
}

func (f *Formatter) printLogs(w io.Writer, snap *results.Aggregator) {
	var withLogs []domain.TestResult
	for _, r := range snap.Results() {
		if len(r.Logs) > 0 {
			withLogs = append(withLogs, r)
		}
	}
	if len(withLogs) == 0 {
		return
	}

	fmt.Fprintln(w, "Tests log")
	fmt.Fprintln(w, "--------")
	for _, r := range withLogs {
		fmt.Fprintln(w)
		passColor.Fprintf(w, "Test: %s\n", r.Description)
		for _, line := range r.Logs {
			fmt.Fprintln(w, line)
		}
	}
}

func containsLine(lines []string, s string) bool {
	for _, l := range lines {
		if l == s {
			return true
		}
	}
	return false
}

// PrintHistory prints recent runs as a table
func (f *Formatter) PrintHistory(w io.Writer, runs []domain.TestResultsMeta) {
	if len(runs) == 0 {
		fileColor.Fprintln(w, "No runs recorded")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Recent Runs")
	t.AppendHeader(table.Row{"Run", "Started", "Total", "Passed", "Failed", "Runner Errors", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Total", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Runner Errors", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})
	for _, m := range runs {
		t.AppendRow(table.Row{
			m.RunID,
			m.Timestamp,
			m.TotalTests,
			m.PassedTests,
			m.FailedTests,
			m.RunnerErrors,
			fmt.Sprintf("%.3f sec", m.DurationSeconds),
			runStatus(m),
		})
	}
	t.Render()
}

func runStatus(m domain.TestResultsMeta) string {
	switch {
	case m.ImportError != "":
		return "import error"
	case m.FailedTests > 0:
		return "failed"
	default:
		return "passed"
	}
}

// PrintTestList prints a list of test files, optionally with the tests each file declares.
// failedPaths is optional; if set, files in this set are marked with [F] in red (from last run).
func (f *Formatter) PrintTestList(w io.Writer, tests []string, showTestCases bool, failedPaths map[string]struct{}) {
	if showTestCases {
		passColor.Fprintf(w, "Found %d test file(s) with test cases:\n\n", len(tests))
	} else {
		passColor.Fprintf(w, "Found %d test file(s):\n\n", len(tests))
	}

	for i, test := range tests {
		isLastFile := i == len(tests)-1

		// Get relative path for cleaner display
		relPath, err := filepath.Rel(f.config.ProjectPath, test)
		if err != nil {
			relPath = test
		}

		failMarker := ""
		if _, ok := failedPaths[NormalizedPathKey(f.config.ProjectPath, test)]; ok {
			failMarker = " " + failColor.Sprint("[F]")
		}

		branch := "├── "
		if isLastFile {
			branch = "└── "
		}
		fmt.Fprintf(w, "%s%s\n", titleColor.Sprint(branch+relPath), failMarker)

		if !showTestCases {
			continue
		}

		indent := "│   "
		if isLastFile {
			indent = "    "
		}

		testCases, err := f.parser.FindTestCases(test)
		if err != nil {
			fmt.Fprintf(w, "%s└── %s\n", indent, failColor.Sprintf("error reading test file: %v", err))
		} else if len(testCases) == 0 {
			fmt.Fprintf(w, "%s└── %s\n", indent, failColor.Sprint("(no test cases found)"))
		}
		for j, testCase := range testCases {
			caseBranch := "├── "
			if j == len(testCases)-1 {
				caseBranch = "└── "
			}
			fmt.Fprintf(w, "%s%s%s\n", indent, caseBranch, fileColor.Sprint(testCase))
		}

		// Add spacing between files (except for the last one)
		if !isLastFile {
			fmt.Fprintln(w)
		}
	}
}

// NormalizedPathKey returns a project-relative, slash-separated key used to
// match discovered files against stored failures.
func NormalizedPathKey(projectPath, path string) string {
	p := path
	if projectPath != "" {
		absProject, errP := filepath.Abs(projectPath)
		absPath, errF := filepath.Abs(path)
		if errP == nil && errF == nil {
			if rel, err := filepath.Rel(absProject, absPath); err == nil && !strings.HasPrefix(rel, "..") {
				p = rel
			}
		}
	}
	return filepath.ToSlash(p)
}
