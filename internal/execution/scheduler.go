package execution

import (
	"os"
	"sort"
)

// Scheduler splits files into one share per worker
type Scheduler interface {
	Schedule(files []string, workerCount int) [][]string
}

// WeightFunc estimates how much work loading a file takes
type WeightFunc func(path string) int64

// FileSize weighs a file by its size on disk. Unreadable files weigh 1.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= 0 {
		return 1
	}
	return info.Size()
}

// BalancedScheduler hands the heaviest remaining file to the least loaded
// worker. Larger suite files usually declare more tests, so this keeps one
// worker from starting most of the run.
type BalancedScheduler struct {
	weight WeightFunc
}

// NewBalancedScheduler creates a scheduler using weight, or FileSize when nil
func NewBalancedScheduler(weight WeightFunc) *BalancedScheduler {
	if weight == nil {
		weight = FileSize
	}
	return &BalancedScheduler{weight: weight}
}

// Schedule returns workerCount shares. Equal weights keep discovery order.
func (s *BalancedScheduler) Schedule(files []string, workerCount int) [][]string {
	if workerCount <= 0 {
		workerCount = 1
	}

	type weighted struct {
		path   string
		weight int64
	}
	items := make([]weighted, len(files))
	for i, f := range files {
		items[i] = weighted{path: f, weight: s.weight(f)}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].weight > items[j].weight })

	shares := make([][]string, workerCount)
	load := make([]int64, workerCount)
	for _, it := range items {
		least := 0
		for w := 1; w < workerCount; w++ {
			if load[w] < load[least] {
				least = w
			}
		}
		shares[least] = append(shares[least], it.path)
		load[least] += it.weight
	}
	return shares
}
