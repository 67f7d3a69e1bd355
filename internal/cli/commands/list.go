package commands

import (
	"fmt"
	"path/filepath"

	"ntr/internal/config"
	"ntr/internal/discovery"
	"ntr/internal/loader"
	"ntr/internal/storage"
	"ntr/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	loader    loader.Loader
	registry  *loader.Registry
	formatter *ui.Formatter
	storage   storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	ld loader.Loader,
	registry *loader.Registry,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		loader:    ld,
		registry:  registry,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner(lc.loader.Suffixes(), lc.config.PathsToIgnore)
	tests, err := scanner.Scan(lc.config.GetTestPaths()...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tests) == 0 {
		color.New(color.FgYellow).Fprintln(out, "No tests found")
	} else {
		lc.formatter.PrintTestList(out, tests, lc.config.Flags.TestCases, lc.failedPaths(cmd))
	}

	if outside := lc.unscanned(tests); len(outside) > 0 {
		color.New(color.FgYellow).Fprintln(out, "\nRegistered suites outside the test paths (never run):")
		for _, f := range outside {
			fmt.Fprintf(out, "  %s\n", ui.NormalizedPathKey(lc.config.ProjectPath, f))
		}
	}
	return nil
}

// unscanned returns the registered Go suites that discovery did not reach.
// Module-relative keys from -trimpath builds cannot be placed and are skipped.
func (lc *ListCommand) unscanned(tests []string) []string {
	if lc.registry == nil {
		return nil
	}

	found := make(map[string]struct{}, len(tests))
	for _, t := range tests {
		if abs, err := filepath.Abs(t); err == nil {
			found[abs] = struct{}{}
		}
	}

	var outside []string
	for _, f := range lc.registry.Files() {
		if !filepath.IsAbs(f) {
			continue
		}
		if _, ok := found[f]; !ok {
			outside = append(outside, f)
		}
	}
	return outside
}

// failedPaths returns the files that had failures in the last stored run
func (lc *ListCommand) failedPaths(cmd *cobra.Command) map[string]struct{} {
	output, err := lc.storage.Load(cmd.Context())
	if err != nil {
		return nil
	}

	failed := make(map[string]struct{})
	for _, f := range output.Details {
		if f.FilePath != "" && !f.Resolved {
			failed[ui.NormalizedPathKey(lc.config.ProjectPath, f.FilePath)] = struct{}{}
		}
	}
	return failed
}
