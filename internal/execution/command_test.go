package execution

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	runner := NewCommandRunner(t.TempDir())

	t.Run("captures output and strips ansi", func(t *testing.T) {
		res := runner.Run(context.Background(), Command{
			Args: []string{"sh", "-c", `printf '\033[32mgreen\033[0m\n'; echo oops >&2`},
		})
		require.NoError(t, res.Err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "green\n", res.Stdout)
		assert.Equal(t, "oops\n", res.Stderr)
	})

	t.Run("exit code and env", func(t *testing.T) {
		res := runner.Run(context.Background(), Command{
			Args: []string{"sh", "-c", `echo "$NTR_VALUE"; exit 3`},
			Env:  map[string]string{"NTR_VALUE": "from-env"},
		})
		require.NoError(t, res.Err)
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "from-env\n", res.Stdout)
	})

	t.Run("missing binary", func(t *testing.T) {
		res := runner.Run(context.Background(), Command{Args: []string{"ntr-definitely-not-installed"}})
		assert.Error(t, res.Err)
		assert.Equal(t, -1, res.ExitCode)
	})

	t.Run("empty command", func(t *testing.T) {
		res := runner.Run(context.Background(), Command{})
		assert.EqualError(t, res.Err, "empty command")
	})
}
