package execution

import (
	"context"
	"time"
)

// LoadFunc loads one discovered file; workerID identifies the worker that runs it
type LoadFunc func(ctx context.Context, workerID int, path string)

// Executor runs a LoadFunc over every file
type Executor interface {
	Execute(ctx context.Context, files []string, load LoadFunc) time.Duration
}
