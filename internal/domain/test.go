package domain

import (
	"fmt"
	"sync"
)

// Body is the code of a single test. Returning an error or panicking fails the test.
type Body func(logs *Logs) error

// TestCase is a test entry contributed by a loaded file
type TestCase struct {
	Description string
	File        string // Path of the file that contributed the entry
	Body        Body
}

// Logs collects diagnostic lines pushed by a test body.
// It is safe for use by goroutines the body starts.
type Logs struct {
	mu    sync.Mutex
	lines []string
}

// NewLogs returns an empty log buffer
func NewLogs() *Logs {
	return &Logs{}
}

// Push appends lines in order
func (l *Logs) Push(lines ...string) {
	l.mu.Lock()
	l.lines = append(l.lines, lines...)
	l.mu.Unlock()
}

// Pushf appends a formatted line
func (l *Logs) Pushf(format string, args ...any) {
	l.Push(fmt.Sprintf(format, args...))
}

// Lines returns a copy of the collected lines
func (l *Logs) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.lines...)
}

// Len returns the number of collected lines
func (l *Logs) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}
