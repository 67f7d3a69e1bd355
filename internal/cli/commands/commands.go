package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ntr/internal/cli"
	"ntr/internal/config"
	"ntr/internal/discovery"
	"ntr/internal/loader"
	"ntr/internal/storage"
	"ntr/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Faills  *FaillsCommand
	History *HistoryCommand
}

// NewCommands creates all commands with dependencies. Go suites are looked up in registry.
func NewCommands(cfg *config.Config, registry *loader.Registry) *Commands {
	// Initialize dependencies
	mux := loader.NewMux(registry, loader.NewYAMLLoader())
	testCaseParser := discovery.NewParser()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, testCaseParser)
	errorViewer := ui.NewErrorViewer(cfg, jsonStorage)

	return &Commands{
		Run:     NewRunCommand(cfg, mux, jsonStorage, formatter, errorViewer),
		List:    NewListCommand(cfg, mux, registry, formatter, jsonStorage),
		Faills:  NewFaillsCommand(cfg, jsonStorage),
		History: NewHistoryCommand(cfg, formatter),
	}
}

// NewRootCommand builds the ntr command tree over registry
func NewRootCommand(registry *loader.Registry, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ntr",
		Short:         "Concurrent test runner",
		Long:          `Discover test files, run every test they declare concurrently and report the results.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	cmds := NewCommands(cfg, registry)
	cmds.Register(rootCmd, &flags, cfg)
	return rootCmd
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Update config from the environment and flags after parsing
	applyConfig := func(cmd *cobra.Command, args []string) error {
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}
		flags.ProcessorsSet = cmd.Flags().Changed("processors")
		cfg.ApplyFlags(flags.ToConfigFlags())
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run tests concurrently",
		Long:    "Discover test files, start every declared test at once and wait for all of them",
		RunE:    c.Run.Execute,
		PreRunE: applyConfig,
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of test files loaded at once (0 loads all files at once)")
	runCmd.Flags().StringSliceVarP(&flags.TestPaths, "test-path", "t", nil, "Folder where test detection should start (repeatable)")
	runCmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Only print the final outcome")
	runCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Disable the progress spinner")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	runCmd.Flags().StringVar(&flags.HistoryDSN, "history-dsn", "", "Also record the run in this SQL database")
	runCmd.Flags().StringVar(&flags.HistoryDriver, "history-driver", "", "SQL driver of the history database (sqlite3 or mysql)")
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered tests",
		Long:    "Scan and list all test files without executing them",
		RunE:    c.List.Execute,
		PreRunE: applyConfig,
	}
	listCmd.Flags().StringSliceVarP(&flags.TestPaths, "test-path", "t", nil, "Folder where test detection should start (repeatable)")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List the tests declared by each file")
	rootCmd.AddCommand(listCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:     "faills",
		Short:   "View test failures interactively",
		Long:    "Display test failures from the last test run in an interactive viewer",
		RunE:    c.Faills.Execute,
		PreRunE: applyConfig,
	}
	faillsCmd.Flags().StringVar(&flags.HistoryDSN, "history-dsn", "", "Read the last run from this SQL database instead of the JSON file")
	faillsCmd.Flags().StringVar(&flags.HistoryDriver, "history-driver", "", "SQL driver of the history database (sqlite3 or mysql)")
	rootCmd.AddCommand(faillsCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recent runs",
		Long:    "List the most recent runs recorded in the SQL history database",
		RunE:    c.History.Execute,
		PreRunE: applyConfig,
	}
	historyCmd.Flags().StringVar(&flags.HistoryDSN, "history-dsn", "", "SQL database holding the run history")
	historyCmd.Flags().StringVar(&flags.HistoryDriver, "history-driver", "", "SQL driver of the history database (sqlite3 or mysql)")
	historyCmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "n", config.DefaultHistoryLimit, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the SQL history configured in cfg
func openHistory(ctx context.Context, cfg *config.Config) (*storage.SQLStorage, error) {
	st, err := storage.Open(ctx, cfg.HistoryDriver, cfg.HistoryDSN)
	if err != nil {
		return nil, &cli.ExitError{Code: cli.ExitFailure, Message: "failed to open history database", Err: err}
	}
	return st, nil
}

// errHistoryDisabled is returned by commands that need the SQL history
var errHistoryDisabled = errors.New("history is disabled: set --history-dsn or " + config.EnvHistoryDSN)

// Execute runs the command tree over registry and returns the process exit code
func Execute(registry *loader.Registry, version string) int {
	rootCmd := NewRootCommand(registry, version)
	if err := rootCmd.Execute(); err != nil {
		// Run outcomes are printed by the run command itself
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
