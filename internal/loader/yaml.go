package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ntr/internal/domain"
	"ntr/internal/execution"
	"ntr/pkg/assert"
)

// YAMLSuffix marks declarative command suites
const YAMLSuffix = ".ntr.yaml"

type commandSuite struct {
	Dir   string            `yaml:"dir"`
	Env   map[string]string `yaml:"env"`
	Tests []commandCase     `yaml:"tests"`
}

type commandCase struct {
	Description string            `yaml:"description"`
	Run         []string          `yaml:"run"`
	Dir         string            `yaml:"dir"`
	Env         map[string]string `yaml:"env"`
	Expect      commandExpect     `yaml:"expect"`
}

type commandExpect struct {
	ExitCode       *int     `yaml:"exitCode"`
	Stdout         *string  `yaml:"stdout"`
	StdoutContains []string `yaml:"stdoutContains"`
	StderrContains []string `yaml:"stderrContains"`
}

// YAMLLoader loads command suites. Each case runs a command relative to
// the suite file's directory and checks its exit code and output.
type YAMLLoader struct{}

// NewYAMLLoader creates a YAMLLoader
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Suffixes implements Loader
func (l *YAMLLoader) Suffixes() []string {
	return []string{YAMLSuffix}
}

// Load parses and validates the suite at path
func (l *YAMLLoader) Load(ctx context.Context, path string) ([]domain.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validateSuite(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var suite commandSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	runner := execution.NewCommandRunner(filepath.Dir(path))
	cases := make([]domain.TestCase, 0, len(suite.Tests))
	for _, c := range suite.Tests {
		if c.Dir == "" {
			c.Dir = suite.Dir
		}
		c.Env = mergeEnv(suite.Env, c.Env)

		cases = append(cases, domain.TestCase{
			Description: c.Description,
			File:        path,
			Body:        commandBody(ctx, runner, c),
		})
	}
	return cases, nil
}

func commandBody(ctx context.Context, runner *execution.CommandRunner, c commandCase) domain.Body {
	return func(logs *domain.Logs) error {
		res := runner.Run(ctx, execution.Command{Args: c.Run, Dir: c.Dir, Env: c.Env})
		logs.Pushf("$ %s (exit %d, %s)", strings.Join(c.Run, " "), res.ExitCode, res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			return res.Err
		}

		wantExit := 0
		if c.Expect.ExitCode != nil {
			wantExit = *c.Expect.ExitCode
		}
		if err := assert.Equals(wantExit, res.ExitCode, "exit code"); err != nil {
			if res.Stderr != "" {
				logs.Push(strings.TrimRight(res.Stderr, "\r\n"))
			}
			return err
		}

		if c.Expect.Stdout != nil {
			want := strings.TrimRight(*c.Expect.Stdout, "\r\n")
			got := strings.TrimRight(res.Stdout, "\r\n")
			if err := assert.Equals(want, got, "stdout"); err != nil {
				return err
			}
		}
		for _, s := range c.Expect.StdoutContains {
			if err := assert.Contains(res.Stdout, s, "stdout"); err != nil {
				return err
			}
		}
		for _, s := range c.Expect.StderrContains {
			if err := assert.Contains(res.Stderr, s, "stderr"); err != nil {
				return err
			}
		}
		return nil
	}
}

func mergeEnv(base, override map[string]string) map[string]string {
	if len(base) == 0 {
		return override
	}
	env := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		env[k] = v
	}
	for k, v := range override {
		env[k] = v
	}
	return env
}
