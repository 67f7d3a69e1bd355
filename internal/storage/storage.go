package storage

import (
	"context"
	"time"

	"ntr/internal/config"
	"ntr/internal/domain"
	"ntr/internal/results"
)

// Storage persists and loads test run results (e.g. for the faills viewer).
type Storage interface {
	Save(ctx context.Context, snap *results.Aggregator) error
	Load(ctx context.Context) (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// NewOutput builds the persisted form of a run snapshot
func NewOutput(snap *results.Aggregator) *domain.TestResultsOutput {
	meta := snap.Meta()
	failed := snap.Failed()

	details := make([]domain.TestFailure, 0, len(failed))
	for _, r := range failed {
		details = append(details, domain.NewTestFailure(r))
	}

	startedAt := meta.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	output := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           meta.RunID,
			TotalTests:      snap.Len(),
			PassedTests:     len(snap.Passed()),
			FailedTests:     len(failed),
			RunnerErrors:    len(snap.RunnerErrors()),
			Duration:        meta.Duration.String(),
			DurationSeconds: meta.Duration.Seconds(),
			Timestamp:       startedAt.Format(time.RFC3339),
		},
		Details: details,
	}
	if err := snap.ImportError(); err != nil {
		output.Meta.ImportError = err.Error()
	}
	return output
}
