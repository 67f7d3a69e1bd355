package commands

import (
	"errors"
	"fmt"

	"ntr/internal/config"
	"ntr/internal/storage"
	"ntr/internal/ui"

	"github.com/spf13/cobra"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	config  *config.Config
	storage storage.Storage
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(cfg *config.Config, st storage.Storage) *FaillsCommand {
	return &FaillsCommand{
		config:  cfg,
		storage: st,
	}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st := fc.storage
	if fc.config.HistoryEnabled() {
		history, err := openHistory(ctx, fc.config)
		if err != nil {
			return err
		}
		defer history.Close()
		st = history
	}

	results, err := st.Load(ctx)
	if errors.Is(err, storage.ErrNoRuns) {
		return fmt.Errorf("%w: execute 'ntr run' first", err)
	}
	if err != nil {
		return err
	}

	return ui.NewErrorViewer(fc.config, st).View(ctx, results)
}
