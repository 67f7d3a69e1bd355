// Package results holds the outcomes of a test run.
//
// An Aggregator is owned by a runner and is shared by every test task of a run.
// Running two runs on the same Aggregator at the same time is not supported: the
// aggregator is not run-scoped, so interleaved runs observe each other's records.
package results

import (
	"sync"

	"ntr/internal/domain"
)

// Aggregator collects test results in completion order
type Aggregator struct {
	mu        sync.Mutex
	results   []domain.TestResult
	importErr error
	meta      domain.RunMeta
}

// New creates an empty Aggregator
func New() *Aggregator {
	return &Aggregator{}
}

// AddResult appends a record. Safe for concurrent use.
func (a *Aggregator) AddResult(result domain.TestResult) {
	a.mu.Lock()
	a.results = append(a.results, result.Clone())
	a.mu.Unlock()
}

// Clear drops every record, the import error and the run metadata
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = nil
	a.importErr = nil
	a.meta = domain.RunMeta{}
}

// Snapshot returns a detached deep copy of the current state
func (a *Aggregator) Snapshot() *Aggregator {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := &Aggregator{
		results:   make([]domain.TestResult, 0, len(a.results)),
		importErr: a.importErr,
		meta:      a.meta,
	}
	for _, r := range a.results {
		snap.results = append(snap.results, r.Clone())
	}
	return snap
}

// SetImportError records a run-level error. Only the first one is kept;
// the return value reports whether err was stored.
func (a *Aggregator) SetImportError(err error) bool {
	if err == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.importErr != nil {
		return false
	}
	a.importErr = err
	return true
}

// ImportError returns the run-level error, if any
func (a *Aggregator) ImportError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.importErr
}

// SetMeta stores the run metadata
func (a *Aggregator) SetMeta(meta domain.RunMeta) {
	a.mu.Lock()
	a.meta = meta
	a.mu.Unlock()
}

// Meta returns the run metadata
func (a *Aggregator) Meta() domain.RunMeta {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.meta
}

// Len returns the number of records
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// Results returns copies of all records in insertion order
func (a *Aggregator) Results() []domain.TestResult {
	return a.filter(func(domain.TestResult) bool { return true })
}

// Passed returns the records without errors
func (a *Aggregator) Passed() []domain.TestResult {
	return a.filter(func(r domain.TestResult) bool { return r.Passed() })
}

// Failed returns the records with at least one error
func (a *Aggregator) Failed() []domain.TestResult {
	return a.filter(func(r domain.TestResult) bool { return !r.Passed() })
}

// RunnerErrors returns the records that carry a runner error
func (a *Aggregator) RunnerErrors() []domain.TestResult {
	return a.filter(func(r domain.TestResult) bool { return r.RunnerError != nil })
}

// Success reports whether no test failed and no import error occurred
func (a *Aggregator) Success() bool {
	return len(a.Failed()) == 0 && a.ImportError() == nil
}

func (a *Aggregator) filter(keep func(domain.TestResult) bool) []domain.TestResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.TestResult, 0, len(a.results))
	for _, r := range a.results {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}
