package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"ntr/internal/discovery"
	"ntr/internal/domain"
)

// GoSuffix marks Go test files
const GoSuffix = "_ntr.go"

// SuiteFunc declares the tests of a file
type SuiteFunc func(s *Suite) error

// Suite collects the tests declared while a file is loaded
type Suite struct {
	file  string
	cases []domain.TestCase
}

// Test declares a test. The body runs concurrently with every other test of the run.
func (s *Suite) Test(description string, body domain.Body) {
	s.cases = append(s.cases, domain.TestCase{
		Description: description,
		File:        s.file,
		Body:        body,
	})
}

// File returns the path of the file being loaded
func (s *Suite) File() string {
	return s.file
}

// ErrNotLinked is returned for a test file that declares tests while no suite
// was registered for it, usually because its package is not linked into the binary
var ErrNotLinked = errors.New("declares tests but is not linked into this binary")

// Registry maps Go test files to the suites they registered
type Registry struct {
	mu     sync.RWMutex
	suites map[string][]SuiteFunc
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{suites: make(map[string][]SuiteFunc)}
}

// Register adds fn under file. file is normally the absolute path reported
// by runtime.Caller; builds using -trimpath report a module-relative path.
func (r *Registry) Register(file string, fn SuiteFunc) {
	file = filepath.Clean(file)

	r.mu.Lock()
	r.suites[file] = append(r.suites[file], fn)
	r.mu.Unlock()
}

// Files returns the registered files, sorted
func (r *Registry) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	files := make([]string, 0, len(r.suites))
	for f := range r.suites {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Suffixes implements Loader
func (r *Registry) Suffixes() []string {
	return []string{GoSuffix}
}

// Load runs the suites registered for path. An unregistered file contributes
// no tests unless its source declares some, which yields ErrNotLinked.
// On error the tests declared so far are still returned.
func (r *Registry) Load(ctx context.Context, path string) ([]domain.TestCase, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fns := r.lookup(abs)
	if len(fns) == 0 {
		declared, err := discovery.NewParser().FindTestCases(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		if len(declared) > 0 {
			return nil, fmt.Errorf("%s %w", path, ErrNotLinked)
		}
		return nil, nil
	}

	var cases []domain.TestCase
	for _, fn := range fns {
		if err := ctx.Err(); err != nil {
			return cases, err
		}

		s := &Suite{file: path}
		err := runSuite(fn, s)
		cases = append(cases, s.cases...)
		if err != nil {
			return cases, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return cases, nil
}

// lookup finds the suites for an absolute path. Absolute keys must match
// exactly; relative keys match by their longest shared trailing segments,
// covering at least the parent directory and the file name.
func (r *Registry) lookup(abs string) []SuiteFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fns, ok := r.suites[abs]; ok {
		return append([]SuiteFunc{}, fns...)
	}

	best, bestScore := "", 1
	for key := range r.suites {
		if filepath.IsAbs(key) {
			continue
		}
		if score := sharedTail(key, abs); score > bestScore || (score == bestScore && score > 1 && key < best) {
			best, bestScore = key, score
		}
	}
	if best == "" {
		return nil
	}
	return append([]SuiteFunc{}, r.suites[best]...)
}

// sharedTail counts the trailing path segments a and b have in common
func sharedTail(a, b string) int {
	as := strings.Split(filepath.ToSlash(a), "/")
	bs := strings.Split(filepath.ToSlash(b), "/")

	n := 0
	for i, j := len(as)-1, len(bs)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if as[i] != bs[j] {
			break
		}
		n++
	}
	return n
}

func runSuite(fn SuiteFunc, s *Suite) (err error) {
	if fn == nil {
		return domain.NewRunnerError("Invalid Arguments: suite must be a function.")
	}
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic while declaring tests: %v", v)
		}
	}()
	return fn(s)
}
