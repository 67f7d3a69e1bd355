// Package ntr is a small concurrent test runner.
//
// A test file is a Go file whose name ends in _ntr.go. It declares its tests
// when its package is linked into the test binary:
//
//	var _ = ntr.File(func(s *ntr.Suite) error {
//		s.Test("adds", func(logs *ntr.Logs) error {
//			logs.Push("checking 1+1")
//			return assert.Equals(2, 1+1)
//		})
//		return nil
//	})
//
// The binary then calls RunAll (or Main for the full command line). Every
// declared test starts immediately and runs concurrently with all others;
// the run ends once all of them have finished.
package ntr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"ntr/internal/cli"
	"ntr/internal/cli/commands"
	"ntr/internal/config"
	"ntr/internal/discovery"
	"ntr/internal/domain"
	"ntr/internal/loader"
	"ntr/internal/results"
	"ntr/internal/runner"
	"ntr/internal/ui"
)

type (
	// Logs collects diagnostic lines reported with a test's result
	Logs = domain.Logs
	// Body is the code of a test. Returning an error or panicking fails it.
	Body = domain.Body
	// Suite declares the tests of one file
	Suite = loader.Suite
	// Results is the snapshot of a finished run
	Results = results.Aggregator
)

// Default holds the suites registered with File
var Default = loader.NewRegistry()

// File registers fn as the suite of the calling file. It returns true so it
// can be used in a package-level variable declaration.
func File(fn func(s *Suite) error) bool {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		panic("ntr: cannot determine the calling file")
	}
	Default.Register(file, fn)
	return true
}

// Async adapts callback-style code to a Body. The test finishes when done is
// first called; later calls are ignored. A test that never calls done never finishes.
func Async(fn func(logs *Logs, done func(err error))) Body {
	return func(logs *Logs) error {
		errc := make(chan error, 1)
		var once sync.Once
		fn(logs, func(err error) {
			once.Do(func() { errc <- err })
		})
		return <-errc
	}
}

// Options configures Run
type Options struct {
	Roots      []string // Default "tests"
	SkipDirs   []string // Default vendor, node_modules, testdata
	Processors int
	Registry   *loader.Registry // Default when nil
	Logger     *slog.Logger
}

// Run discovers, loads and runs every test under the roots and returns the results
func Run(ctx context.Context, opts Options) *Results {
	reg := opts.Registry
	if reg == nil {
		reg = Default
	}
	skip := opts.SkipDirs
	if skip == nil {
		skip = config.DefaultPathsToIgnore
	}

	r := runner.New(runner.Options{
		Roots:      opts.Roots,
		SkipDirs:   skip,
		Processors: opts.Processors,
		Loader:     loader.NewMux(reg, loader.NewYAMLLoader()),
		Logger:     opts.Logger,
	})
	return r.Run(ctx)
}

// RunAll runs every test under testsRoot and exits the process with status 1
// when a file could not be loaded or a test failed. On success it returns.
// An empty testsRoot falls back to NTR_TEST_PATH, then "tests". Processor
// count and the other NTR_* settings are read from the environment and .env.
func RunAll(testsRoot string, printToConsole bool) {
	if code := runAll(context.Background(), os.Stdout, os.Stderr, Default, testsRoot, printToConsole); code != cli.ExitSuccess {
		os.Exit(code)
	}
}

func runAll(ctx context.Context, stdout, stderr io.Writer, reg *loader.Registry, testsRoot string, printToConsole bool) int {
	var flags config.Flags
	if testsRoot != "" {
		flags.TestPaths = []string{testsRoot}
	}
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}

	snap := Run(ctx, Options{
		Roots:      cfg.GetTestPaths(),
		SkipDirs:   cfg.PathsToIgnore,
		Processors: cfg.Processors,
		Registry:   reg,
	})

	err = cli.OutcomeError(snap)
	if printToConsole {
		ui.NewFormatter(cfg, discovery.NewParser()).PrintResults(stdout, snap)
		message, _ := cli.Outcome(snap)
		w := stdout
		if err != nil {
			w = stderr
		}
		fmt.Fprintf(w, "\n%s\n", message)
	}
	return cli.GetExitCode(err)
}

// Main runs the ntr command line over the suites registered with File and exits
func Main() {
	os.Exit(commands.Execute(Default, "dev"))
}
