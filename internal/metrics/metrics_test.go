package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ntr/internal/domain"
	"ntr/internal/results"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	r := NewRecorder()

	r.TestFinished(domain.TestResult{Description: "a", Duration: 10 * time.Millisecond})
	r.TestFinished(domain.TestResult{Description: "b", Errors: []string{"boom"}, Kind: domain.KindAssertion})
	r.TestFinished(domain.TestResult{Description: "c", Errors: []string{"x"}, Kind: domain.KindRunnerMisuse})
	r.TestFinished(domain.TestResult{Description: "d"})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.testsTotal.WithLabelValues(OutcomePassed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.testsTotal.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.testsTotal.WithLabelValues(OutcomeRunnerError)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.testDuration))
}

func TestRecorderRunFinished(t *testing.T) {
	r := NewRecorder()

	snap := results.New()
	snap.SetImportError(errors.New("cannot import"))
	snap.SetMeta(domain.RunMeta{RunID: "x", StartedAt: time.Unix(1700000000, 0), Duration: 3 * time.Second})
	r.RunFinished(snap)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.importError))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.runDuration))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.lastRun))

	r.RunFinished(results.New())
	assert.Equal(t, 0.0, testutil.ToFloat64(r.importError))
}

func TestRecorderWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.TestFinished(domain.TestResult{Description: "a"})

	path := filepath.Join(t.TempDir(), "ntr.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ntr_tests_total{outcome="passed"} 1`)
	assert.Contains(t, string(data), "ntr_test_duration_seconds_count 1")
}
