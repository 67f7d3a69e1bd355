package execution

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_LoadsEveryFile(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 10} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			files := []string{"a", "b", "c", "d", "e"}

			var mu sync.Mutex
			var loaded []string
			pool := NewWorkerPool(workers, nil)
			pool.Execute(context.Background(), files, func(_ context.Context, workerID int, path string) {
				assert.Positive(t, workerID)
				mu.Lock()
				loaded = append(loaded, path)
				mu.Unlock()
			})

			sort.Strings(loaded)
			assert.Equal(t, files, loaded)
		})
	}
}

func TestWorkerPool_NoFiles(t *testing.T) {
	pool := NewWorkerPool(2, NewBalancedScheduler(nil))
	called := false
	d := pool.Execute(context.Background(), nil, func(context.Context, int, string) { called = true })
	assert.False(t, called)
	assert.Zero(t, d)
}

func TestBalancedScheduler_Schedule(t *testing.T) {
	weights := map[string]int64{"a": 5, "b": 4, "c": 3, "d": 2, "e": 1}
	s := NewBalancedScheduler(func(path string) int64 { return weights[path] })

	dist := s.Schedule([]string{"e", "d", "c", "b", "a"}, 2)
	assert.Equal(t, [][]string{{"a", "d", "e"}, {"b", "c"}}, dist)
}

func TestBalancedScheduler_EqualWeightsKeepOrder(t *testing.T) {
	s := NewBalancedScheduler(func(string) int64 { return 1 })

	dist := s.Schedule([]string{"a", "b", "c", "d", "e"}, 2)
	assert.Equal(t, [][]string{{"a", "c", "e"}, {"b", "d"}}, dist)

	dist = s.Schedule([]string{"a"}, 0)
	assert.Equal(t, [][]string{{"a"}}, dist)
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big_ntr.go")
	require.NoError(t, os.WriteFile(path, make([]byte, 128), 0644))

	assert.Equal(t, int64(128), FileSize(path))
	assert.Equal(t, int64(1), FileSize(filepath.Join(t.TempDir(), "missing")))
}
