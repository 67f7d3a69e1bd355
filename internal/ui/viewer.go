package ui

import (
	"context"

	"ntr/internal/domain"
)

// Viewer displays test results in an interactive TUI
type Viewer interface {
	View(ctx context.Context, results *domain.TestResultsOutput) error
}

var _ Viewer = (*ErrorViewer)(nil)
