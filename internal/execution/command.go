package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/acarl005/stripansi"
)

// Command describes a process started by a declarative test
type Command struct {
	Args []string
	Dir  string
	Env  map[string]string
}

// CommandResult is the outcome of a command
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error // Set when the process could not be started
}

// CommandRunner executes commands for declarative test suites
type CommandRunner struct {
	baseDir string
}

// NewCommandRunner creates a CommandRunner that resolves relative
// working directories against baseDir
func NewCommandRunner(baseDir string) *CommandRunner {
	return &CommandRunner{baseDir: baseDir}
}

// Run executes the command and captures its output with ANSI sequences stripped
func (r *CommandRunner) Run(ctx context.Context, c Command) CommandResult {
	if len(c.Args) == 0 {
		return CommandResult{ExitCode: -1, Err: errors.New("empty command")}
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)

	// Set environment variables
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	// Set working directory
	cmd.Dir = r.baseDir
	if c.Dir != "" {
		cmd.Dir = c.Dir
		if !filepath.IsAbs(c.Dir) && r.baseDir != "" {
			cmd.Dir = filepath.Join(r.baseDir, c.Dir)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := CommandResult{
		Stdout:   stripansi.Strip(stdout.String()),
		Stderr:   stripansi.Strip(stderr.String()),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		result.Err = fmt.Errorf("start %s: %w", c.Args[0], err)
	}
	return result
}
