package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ntr/internal/config"
	"ntr/internal/domain"
	"ntr/internal/results"
)

func snapshot(runID string, startedAt time.Time) *results.Aggregator {
	agg := results.New()
	agg.AddResult(domain.TestResult{Description: "passes", File: "tests/a_ntr.go", Errors: []string{}})
	agg.AddResult(domain.TestResult{
		Description: "fails",
		File:        "tests/a_ntr.go",
		Duration:    1500 * time.Millisecond,
		Errors:      []string{"boom"},
		Logs:        []string{"step 1"},
		Kind:        domain.KindAssertion,
	})
	misuse := domain.NewRunnerError("Invalid argument")
	agg.AddResult(domain.TestResult{
		Description: "misuse",
		File:        "tests/b_ntr.go",
		Errors:      []string{misuse.Error()},
		Kind:        misuse.Kind,
		RunnerError: misuse,
	})
	agg.SetMeta(domain.RunMeta{RunID: runID, StartedAt: startedAt, Duration: 2 * time.Second})
	return agg.Snapshot()
}

func TestNewOutput(t *testing.T) {
	snap := snapshot("run-1", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	snap.SetImportError(errors.New("cannot import"))

	out := NewOutput(snap)

	assert.Equal(t, "run-1", out.Meta.RunID)
	assert.Equal(t, 3, out.Meta.TotalTests)
	assert.Equal(t, 1, out.Meta.PassedTests)
	assert.Equal(t, 2, out.Meta.FailedTests)
	assert.Equal(t, 1, out.Meta.RunnerErrors)
	assert.Equal(t, "cannot import", out.Meta.ImportError)
	assert.Equal(t, "2s", out.Meta.Duration)
	assert.Equal(t, "2026-01-02T03:04:05Z", out.Meta.Timestamp)

	require.Len(t, out.Details, 2)
	assert.Equal(t, "fails", out.Details[0].TestName)
	assert.Equal(t, "assertion", out.Details[0].Kind)
	assert.Equal(t, "Invalid argument", out.Details[1].RunnerError)
}

func TestJSONStorageRoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	s := NewJSONStorage(cfg)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, snapshot("run-1", time.Now())))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", out.Meta.RunID)
	require.Len(t, out.Details, 2)

	out.Details[0].Resolved = true
	require.NoError(t, s.SaveOutput(ctx, out))

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, again.Details[0].Resolved)
	assert.False(t, again.Details[1].Resolved)
}

func TestJSONStorageLoadMissing(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()

	_, err := NewJSONStorage(cfg).Load(context.Background())
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestJSONStorageLeavesNoTempFiles(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	s := NewJSONStorage(cfg)

	require.NoError(t, s.Save(context.Background(), snapshot("run-1", time.Now())))

	entries, err := os.ReadDir(filepath.Dir(cfg.GetOutputPath()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(cfg.GetOutputPath()), entries[0].Name())
}
