package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ntr/internal/domain"
	"ntr/internal/results"
)

// Save replaces the JSON report with the failures of snap
func (s *JSONStorage) Save(ctx context.Context, snap *results.Aggregator) error {
	return s.SaveOutput(ctx, NewOutput(snap))
}

// Load reads the report of the last run. A missing report yields ErrNoRuns.
func (s *JSONStorage) Load(ctx context.Context) (*domain.TestResultsOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.cfg.GetOutputPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}

	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes output next to the report and renames it into place, so a
// reader never observes a partially written file.
func (s *JSONStorage) SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	path := s.cfg.GetOutputPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
