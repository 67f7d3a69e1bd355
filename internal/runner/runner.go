// Package runner drives one test run: discover files, load them, start every
// declared test, wait for all of them and hand back a snapshot of the results.
//
// A Runner owns its aggregator. Overlapping calls to Run on the same Runner
// share that aggregator and are not supported.
package runner

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ntr/internal/discovery"
	"ntr/internal/domain"
	"ntr/internal/execution"
	"ntr/internal/loader"
	"ntr/internal/results"
)

// Observer is notified while a run progresses. TestFinished is called from the
// goroutine of each test, so implementations must be safe for concurrent use.
type Observer interface {
	TestFinished(result domain.TestResult)
	RunFinished(snap *results.Aggregator)
}

// Options configures a Runner
type Options struct {
	Roots      []string
	SkipDirs   []string
	Processors int // Concurrent file loads, 0 loads every file at once
	Loader     loader.Loader
	Logger     *slog.Logger
	Observers  []Observer
}

// Runner executes test runs
type Runner struct {
	roots     []string
	scanner   *discovery.Scanner
	loader    loader.Loader
	executor  execution.Executor
	agg       *results.Aggregator
	tracker   *execution.Tracker
	observers []Observer
	logger    *slog.Logger
}

// New creates a Runner
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	roots := opts.Roots
	if len(roots) == 0 {
		roots = []string{"tests"}
	}

	return &Runner{
		roots:     roots,
		scanner:   discovery.NewScanner(opts.Loader.Suffixes(), opts.SkipDirs),
		loader:    opts.Loader,
		executor:  execution.NewWorkerPool(opts.Processors, nil),
		agg:       results.New(),
		tracker:   execution.NewTracker(),
		observers: opts.Observers,
		logger:    logger,
	}
}

// AddResult records a finished test and notifies observers
func (r *Runner) AddResult(result domain.TestResult) {
	r.agg.AddResult(result)
	for _, o := range r.observers {
		o.TestFinished(result)
	}
}

// Run performs a complete run and returns its snapshot. The live aggregator
// is cleared before and after the run.
func (r *Runner) Run(ctx context.Context) *results.Aggregator {
	start := time.Now()
	r.agg.Clear()
	r.tracker.Reset()

	runID := uuid.NewString()
	log := r.logger.With("run_id", runID)
	log.Debug("run started", "roots", r.roots)

	files, err := r.scanner.Scan(r.roots...)
	if err != nil {
		log.Error("test discovery failed", "error", err)
		r.agg.SetImportError(err)
	} else {
		log.Debug("discovered test files", "count", len(files))
		elapsed := r.executor.Execute(ctx, files, func(ctx context.Context, workerID int, path string) {
			r.load(ctx, log, workerID, path)
		})
		log.Debug("test files loaded", "duration", elapsed)
	}

	log.Debug("awaiting tests", "pending", r.tracker.Pending())
	for _, err := range r.tracker.Wait() {
		log.Error("test task failed", "error", err)
		r.agg.SetImportError(err)
	}

	r.agg.SetMeta(domain.RunMeta{
		RunID:     runID,
		StartedAt: start,
		Duration:  time.Since(start),
	})

	snap := r.agg.Snapshot()
	r.agg.Clear()

	log.Debug("run finished",
		"tests", snap.Len(),
		"failed", len(snap.Failed()),
		"duration", snap.Meta().Duration,
	)
	for _, o := range r.observers {
		o.RunFinished(snap)
	}
	return snap
}

// load starts the tests of one file. Tests declared before a load error still run.
func (r *Runner) load(ctx context.Context, log *slog.Logger, workerID int, path string) {
	cases, err := r.loader.Load(ctx, path)
	for _, tc := range cases {
		r.tracker.Add(execution.Start(r, tc))
	}

	if err != nil {
		if r.agg.SetImportError(err) {
			log.Error("loading test file failed", "file", path, "worker", workerID, "error", err)
		} else {
			log.Warn("additional load error ignored", "file", path, "worker", workerID, "error", err)
		}
		return
	}
	log.Debug("loaded test file", "file", path, "worker", workerID, "tests", len(cases))
}
