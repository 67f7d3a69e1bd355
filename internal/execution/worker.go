package execution

import (
	"context"
	"sync"
	"time"
)

// WorkerPool loads files concurrently
type WorkerPool struct {
	workers   int
	scheduler Scheduler
}

// NewWorkerPool creates a new WorkerPool. workers <= 0 starts one worker per file.
func NewWorkerPool(workers int, scheduler Scheduler) *WorkerPool {
	if scheduler == nil {
		scheduler = NewBalancedScheduler(nil)
	}
	return &WorkerPool{
		workers:   workers,
		scheduler: scheduler,
	}
}

// Execute calls load for every file and returns once all calls have returned.
// Files are not sequenced against each other.
func (wp *WorkerPool) Execute(ctx context.Context, files []string, load LoadFunc) time.Duration {
	startTime := time.Now()
	if len(files) == 0 {
		return 0
	}

	workerCount := wp.workers
	if workerCount <= 0 || workerCount > len(files) {
		workerCount = len(files)
	}

	var wg sync.WaitGroup
	for i, share := range wp.scheduler.Schedule(files, workerCount) {
		if len(share) == 0 {
			continue
		}
		wg.Add(1)
		go func(workerID int, share []string) {
			defer wg.Done()
			for _, path := range share {
				load(ctx, workerID, path)
			}
		}(i+1, share)
	}
	wg.Wait()

	return time.Since(startTime)
}
