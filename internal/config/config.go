package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPaths   []string
	Suffixes    []string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	MetricsFile    string

	// SQL run history, disabled when HistoryDSN is empty
	HistoryDriver string
	HistoryDSN    string

	// Execution settings
	Processors int
	Verbose    bool

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors    int
	ProcessorsSet bool // Processors was given explicitly, 0 included
	TestPaths     []string
	TestCases     bool
	Quiet         bool
	NoProgress    bool
	OpenFaills    bool
	Verbose       bool
	HistoryDriver string
	HistoryDSN    string
	MetricsFile   string
	HistoryLimit  int
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPaths:      []string{DefaultTestPath},
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Processors:     DefaultProcessors,
		HistoryDriver:  DefaultHistoryDriver,
		Flags:          Flags{Processors: DefaultProcessors},
	}
	cfg.Suffixes = append([]string{}, DefaultSuffixes...)
	cfg.PathsToIgnore = append([]string{}, DefaultPathsToIgnore...)
	return cfg
}

// Load creates a config, applies the environment and then the flags
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	return cfg, nil
}

// ApplyEnv reads overrides from the process environment and the project's .env file.
// Process variables take precedence over the file.
func (c *Config) ApplyEnv() error {
	// .env file might not exist, that's okay - use environment variables
	fileEnv, err := godotenv.Read(filepath.Join(c.ProjectPath, ".env"))
	if err != nil {
		fileEnv = map[string]string{}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileEnv[key]
	}

	if v := lookup(EnvTestPath); v != "" {
		c.TestPaths = splitList(v)
	}
	if v := lookup(EnvProcessors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q: must be a non-negative integer", EnvProcessors, v)
		}
		c.Processors = n
	}
	if v := lookup(EnvHistoryDriver); v != "" {
		c.HistoryDriver = v
	}
	if v := lookup(EnvHistoryDSN); v != "" {
		c.HistoryDSN = v
	}
	if v := lookup(EnvMetricsFile); v != "" {
		c.MetricsFile = v
	}
	return nil
}

// ApplyFlags stores flags and applies the ones that override settings
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags

	if flags.ProcessorsSet || flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if len(flags.TestPaths) > 0 {
		c.TestPaths = append([]string{}, flags.TestPaths...)
	}
	if flags.HistoryDriver != "" {
		c.HistoryDriver = flags.HistoryDriver
	}
	if flags.HistoryDSN != "" {
		c.HistoryDSN = flags.HistoryDSN
	}
	if flags.MetricsFile != "" {
		c.MetricsFile = flags.MetricsFile
	}
	if flags.Verbose {
		c.Verbose = true
	}
}

// GetTestPaths returns the discovery roots, relative ones resolved against the project path
func (c *Config) GetTestPaths() []string {
	paths := make([]string, 0, len(c.TestPaths))
	for _, p := range c.TestPaths {
		if filepath.IsAbs(p) {
			paths = append(paths, p)
			continue
		}
		paths = append(paths, filepath.Join(c.ProjectPath, p))
	}
	return paths
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// HistoryEnabled reports whether runs are also recorded in a SQL database
func (c *Config) HistoryEnabled() bool {
	return c.HistoryDSN != ""
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
