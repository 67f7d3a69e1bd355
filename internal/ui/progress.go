package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"ntr/internal/domain"
	"ntr/internal/results"
)

// ProgressBar shows live run progress. The number of tests is only known once
// every file has loaded, so it renders as a spinner with running counts.
type ProgressBar struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	w       io.Writer
	success int
	failed  int
}

// NewProgressBar creates a new progress bar writing to w
func NewProgressBar(w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar, w: w}
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func describe(successCount, failCount int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[success: %d", successCount) +
		" | " +
		color.RedString("failed: %d]", failCount)
}

// TestFinished implements runner.Observer
func (p *ProgressBar) TestFinished(result domain.TestResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if result.Passed() {
		p.success++
	} else {
		p.failed++
	}
	p.bar.Describe(describe(p.success, p.failed))
	_ = p.bar.Add(1)
}

// RunFinished implements runner.Observer
func (p *ProgressBar) RunFinished(snap *results.Aggregator) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.bar.Finish()
	fmt.Fprintln(p.w)
}
