package commands

import (
	"fmt"
	"log/slog"
	"os"

	"ntr/internal/cli"
	"ntr/internal/config"
	"ntr/internal/loader"
	"ntr/internal/metrics"
	"ntr/internal/results"
	"ntr/internal/runner"
	"ntr/internal/storage"
	"ntr/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	loader    loader.Loader
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	ld loader.Loader,
	st storage.Storage,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		loader:    ld,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := cli.NewLogger(cmd.ErrOrStderr(), rc.config.Verbose)
	flags := rc.config.Flags

	var observers []runner.Observer
	if !flags.Quiet && !flags.NoProgress && ui.IsTerminal(os.Stderr) {
		observers = append(observers, ui.NewProgressBar(os.Stderr))
	}

	var recorder *metrics.Recorder
	if rc.config.MetricsFile != "" {
		recorder = metrics.NewRecorder()
		observers = append(observers, recorder)
	}

	r := runner.New(runner.Options{
		Roots:      rc.config.GetTestPaths(),
		SkipDirs:   rc.config.PathsToIgnore,
		Processors: rc.config.Processors,
		Loader:     rc.loader,
		Logger:     logger,
		Observers:  observers,
	})
	snap := r.Run(ctx)

	if !flags.Quiet {
		rc.formatter.PrintResults(cmd.OutOrStdout(), snap)
	}

	// Save results
	if err := rc.storage.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	if err := rc.saveHistory(cmd, logger, snap); err != nil {
		return err
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(rc.config.MetricsFile); err != nil {
			return err
		}
		logger.Debug("metrics written", "file", rc.config.MetricsFile)
	}

	message, code := cli.Outcome(snap)
	if code == cli.ExitSuccess {
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), message)
		return nil
	}
	color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), message)

	if flags.OpenFaills && len(snap.Failed()) > 0 {
		output, err := rc.storage.Load(ctx)
		if err != nil {
			return err
		}
		if err := rc.viewer.View(ctx, output); err != nil {
			return err
		}
	}

	return cli.OutcomeError(snap)
}

func (rc *RunCommand) saveHistory(cmd *cobra.Command, logger *slog.Logger, snap *results.Aggregator) error {
	if !rc.config.HistoryEnabled() {
		return nil
	}

	ctx := cmd.Context()
	history, err := openHistory(ctx, rc.config)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := history.Close(); closeErr != nil {
			logger.Error("error closing history database", "error", closeErr)
		}
	}()

	if err := history.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to record run history: %w", err)
	}
	logger.Debug("run recorded", "driver", rc.config.HistoryDriver, "run_id", snap.Meta().RunID)
	return nil
}
