package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ntr/internal/domain"
	"ntr/internal/loader"
	"ntr/internal/results"
)

// fixture creates an empty test file under root and returns its absolute path
func fixture(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("package tests\n"), 0644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

func newRunner(root string, reg *loader.Registry, observers ...Observer) *Runner {
	return New(Options{
		Roots:     []string{root},
		Loader:    loader.NewMux(reg, loader.NewYAMLLoader()),
		Observers: observers,
	})
}

func TestRunPassingTest(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	reg.Register(fixture(t, root, "math_ntr.go"), func(s *loader.Suite) error {
		s.Test("adds", func(logs *domain.Logs) error {
			if 1+1 != 2 {
				return errors.New("bad")
			}
			return nil
		})
		return nil
	})

	snap := newRunner(root, reg).Run(context.Background())

	assert.Len(t, snap.Passed(), 1)
	assert.Empty(t, snap.Failed())
	assert.NoError(t, snap.ImportError())
	assert.True(t, snap.Success())
	assert.NotEmpty(t, snap.Meta().RunID)
}

func TestRunFailingTest(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	reg.Register(fixture(t, root, "boom_ntr.go"), func(s *loader.Suite) error {
		s.Test("fails", func(logs *domain.Logs) error {
			return errors.New("boom")
		})
		return nil
	})

	snap := newRunner(root, reg).Run(context.Background())

	require.Len(t, snap.Failed(), 1)
	assert.Contains(t, snap.Results()[0].Errors, "boom")
	assert.False(t, snap.Success())
}

func TestRunBodyExitingGoroutineFails(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	reg.Register(fixture(t, root, "exit_ntr.go"), func(s *loader.Suite) error {
		s.Test("exits", func(logs *domain.Logs) error {
			logs.Push("before")
			runtime.Goexit()
			return nil
		})
		return nil
	})

	snap := newRunner(root, reg).Run(context.Background())

	require.Len(t, snap.Failed(), 1)
	assert.Equal(t, []string{"before"}, snap.Failed()[0].Logs)
	assert.False(t, snap.Success())
}

func TestRunWaitsForSlowTests(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	reg.Register(fixture(t, root, "slow_ntr.go"), func(s *loader.Suite) error {
		s.Test("rejects later", func(logs *domain.Logs) error {
			errc := make(chan error, 1)
			go func() {
				time.Sleep(50 * time.Millisecond)
				errc <- errors.New("late rejection")
			}()
			return <-errc
		})
		return nil
	})

	snap := newRunner(root, reg).Run(context.Background())

	require.Len(t, snap.Failed(), 1)
	assert.Equal(t, []string{"late rejection"}, snap.Failed()[0].Errors)
	assert.GreaterOrEqual(t, snap.Failed()[0].Duration, 50*time.Millisecond)
}

func TestRunEmptyRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), nil, 0644))

	snap := newRunner(root, loader.NewRegistry()).Run(context.Background())

	assert.Zero(t, snap.Len())
	assert.NoError(t, snap.ImportError())
	assert.True(t, snap.Success())
}

func TestRunMissingRoot(t *testing.T) {
	snap := newRunner(filepath.Join(t.TempDir(), "missing"), loader.NewRegistry()).Run(context.Background())

	require.Error(t, snap.ImportError())
	assert.Contains(t, snap.ImportError().Error(), "test path does not exist")
	assert.False(t, snap.Success())
}

func TestRunLoadErrorBecomesImportError(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	reg.Register(fixture(t, root, "a_ntr.go"), func(s *loader.Suite) error {
		s.Test("declared before failure", func(logs *domain.Logs) error { return nil })
		return errors.New("cannot import")
	})
	reg.Register(fixture(t, root, "b_ntr.go"), func(s *loader.Suite) error {
		s.Test("other file", func(logs *domain.Logs) error { return nil })
		return nil
	})

	snap := newRunner(root, reg).Run(context.Background())

	require.Error(t, snap.ImportError())
	assert.Contains(t, snap.ImportError().Error(), "cannot import")
	assert.Len(t, snap.Passed(), 2)
	assert.Empty(t, snap.Failed())
	assert.False(t, snap.Success())
}

func TestRunUnlinkedTestFileIsImportError(t *testing.T) {
	root := t.TempDir()
	src := "package tests\n\nvar _ = ntr.File(func(s *ntr.Suite) error {\n\ts.Test(\"fails\", boom)\n\treturn nil\n})\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "math_ntr.go"), []byte(src), 0644))

	snap := newRunner(root, loader.NewRegistry()).Run(context.Background())

	assert.Zero(t, snap.Len())
	require.ErrorIs(t, snap.ImportError(), loader.ErrNotLinked)
	assert.False(t, snap.Success())
}

func TestRunClassifiesRunnerErrors(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	reg.Register(fixture(t, root, "misuse_ntr.go"), func(s *loader.Suite) error {
		s.Test("misuse", func(logs *domain.Logs) error {
			return domain.NewRunnerError("Invalid argument")
		})
		s.Test("nil body", nil)
		return nil
	})

	snap := newRunner(root, reg).Run(context.Background())

	assert.Len(t, snap.RunnerErrors(), 2)
	assert.Len(t, snap.Failed(), 2)
}

func TestRunHonoursHiddenAndIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	for _, name := range []string{"ok_ntr.go", ".cache/hidden_ntr.go", "vendor/dep_ntr.go"} {
		name := name
		reg.Register(fixture(t, root, name), func(s *loader.Suite) error {
			s.Test(name, func(logs *domain.Logs) error { return nil })
			return nil
		})
	}

	r := New(Options{
		Roots:    []string{root},
		SkipDirs: []string{"vendor"},
		Loader:   reg,
	})
	snap := r.Run(context.Background())

	require.Len(t, snap.Results(), 1)
	assert.Equal(t, "ok_ntr.go", snap.Results()[0].Description)
}

func TestRunCollectsLogs(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	reg.Register(fixture(t, root, "logs_ntr.go"), func(s *loader.Suite) error {
		s.Test("logs", func(logs *domain.Logs) error {
			logs.Push("first", "second")
			logs.Pushf("value=%d", 3)
			return nil
		})
		return nil
	})

	snap := newRunner(root, reg).Run(context.Background())

	require.Len(t, snap.Results(), 1)
	assert.Equal(t, []string{"first", "second", "value=3"}, snap.Results()[0].Logs)
}

func TestRunsAreIndependent(t *testing.T) {
	root := t.TempDir()
	file := fixture(t, root, "count_ntr.go")

	var mu sync.Mutex
	declared := 0
	reg := loader.NewRegistry()
	reg.Register(file, func(s *loader.Suite) error {
		mu.Lock()
		declared++
		mu.Unlock()
		s.Test("counted", func(logs *domain.Logs) error { return nil })
		return nil
	})

	r := newRunner(root, reg)
	first := r.Run(context.Background())
	second := r.Run(context.Background())

	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
	assert.NotEqual(t, first.Meta().RunID, second.Meta().RunID)
	assert.Equal(t, 2, declared)

	// The first snapshot is detached from the live aggregator
	assert.Equal(t, 1, first.Len())
}

type recorder struct {
	mu       sync.Mutex
	finished []string
	runs     int
	last     *results.Aggregator
}

func (r *recorder) TestFinished(result domain.TestResult) {
	r.mu.Lock()
	r.finished = append(r.finished, result.Description)
	r.mu.Unlock()
}

func (r *recorder) RunFinished(snap *results.Aggregator) {
	r.mu.Lock()
	r.runs++
	r.last = snap
	r.mu.Unlock()
}

func TestRunNotifiesObservers(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	reg.Register(fixture(t, root, "obs_ntr.go"), func(s *loader.Suite) error {
		s.Test("one", func(logs *domain.Logs) error { return nil })
		s.Test("two", func(logs *domain.Logs) error { return errors.New("no") })
		return nil
	})

	rec := &recorder{}
	snap := newRunner(root, reg, rec).Run(context.Background())

	assert.ElementsMatch(t, []string{"one", "two"}, rec.finished)
	assert.Equal(t, 1, rec.runs)
	assert.Same(t, snap, rec.last)
}

func TestRunManyFilesWithBoundedLoaders(t *testing.T) {
	root := t.TempDir()
	reg := loader.NewRegistry()
	for i := 0; i < 20; i++ {
		name := filepath.Join("pkg", string(rune('a'+i))+"_ntr.go")
		reg.Register(fixture(t, root, name), func(s *loader.Suite) error {
			s.Test(name, func(logs *domain.Logs) error { return nil })
			return nil
		})
	}

	r := New(Options{Roots: []string{root}, Processors: 3, Loader: reg})
	snap := r.Run(context.Background())

	assert.Equal(t, 20, snap.Len())
	assert.True(t, snap.Success())
}
