package commands

import (
	"ntr/internal/config"
	"ntr/internal/ui"

	"github.com/spf13/cobra"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config, formatter *ui.Formatter) *HistoryCommand {
	return &HistoryCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	if !hc.config.HistoryEnabled() {
		return errHistoryDisabled
	}

	ctx := cmd.Context()
	history, err := openHistory(ctx, hc.config)
	if err != nil {
		return err
	}
	defer history.Close()

	limit := hc.config.Flags.HistoryLimit
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	runs, err := history.Recent(ctx, limit)
	if err != nil {
		return err
	}

	hc.formatter.PrintHistory(cmd.OutOrStdout(), runs)
	return nil
}
