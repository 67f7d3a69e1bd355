package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLStorage {
	t.Helper()
	s, err := Open(context.Background(), "sqlite3", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 3; i++ {
		s, err := Open(context.Background(), "sqlite3", path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "dsn")
	assert.EqualError(t, err, `unsupported history driver "postgres"`)
}

func TestSQLStorageSaveAndLoad(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.True(t, errors.Is(err, ErrNoRuns))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, snapshot("run-old", base)))
	require.NoError(t, s.Save(ctx, snapshot("run-new", base.Add(time.Hour))))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-new", out.Meta.RunID)
	assert.Equal(t, 3, out.Meta.TotalTests)
	assert.Equal(t, 2, out.Meta.FailedTests)
	assert.Equal(t, "2s", out.Meta.Duration)

	require.Len(t, out.Details, 2)
	assert.Equal(t, "fails", out.Details[0].TestName)
	assert.Equal(t, []string{"boom"}, out.Details[0].Errors)
	assert.Equal(t, []string{"step 1"}, out.Details[0].Logs)
	assert.InDelta(t, 1.5, out.Details[0].Duration, 0.001)
	assert.Equal(t, "Invalid argument", out.Details[1].RunnerError)
}

func TestSQLStorageRecent(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, s.Save(ctx, snapshot(id, base.Add(time.Duration(i)*time.Minute))))
	}

	metas, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "r3", metas[0].RunID)
	assert.Equal(t, "r2", metas[1].RunID)
}

func TestSQLStorageSaveOutputResolves(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, snapshot("run-1", time.Now())))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	out.Details[1].Resolved = true
	require.NoError(t, s.SaveOutput(ctx, out))

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, again.Details[0].Resolved)
	assert.True(t, again.Details[1].Resolved)
}

func TestSQLStorageDuplicateRun(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	snap := snapshot("run-1", time.Now())
	require.NoError(t, s.Save(ctx, snap))
	assert.Error(t, s.Save(ctx, snap))
}
