package execution

import (
	"fmt"
	"sync"

	"ntr/internal/domain"
)

// Task is a test running in its own goroutine
type Task struct {
	Description string
	done        chan struct{}
	err         error
}

// Start runs Process for tc in a new goroutine
func Start(sink Sink, tc domain.TestCase) *Task {
	t := &Task{
		Description: tc.Description,
		done:        make(chan struct{}),
	}

	go func() {
		returned := false
		defer close(t.done)
		defer func() {
			// Process captures the body's panics; anything reaching here
			// escaped the per-test capture path (e.g. a failing sink).
			if v := recover(); v != nil {
				t.err = fmt.Errorf("test %q: unhandled failure outside the test body: %v", tc.Description, v)
			} else if !returned {
				t.err = fmt.Errorf("test %q exited without a result", tc.Description)
			}
		}()
		Process(sink, tc)
		returned = true
	}()

	return t
}

// Done is closed once the task has settled
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task settles
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Tracker keeps the tasks started during a run
type Tracker struct {
	mu    sync.Mutex
	tasks []*Task
}

// NewTracker creates an empty Tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add registers a started task
func (tr *Tracker) Add(t *Task) {
	tr.mu.Lock()
	tr.tasks = append(tr.tasks, t)
	tr.mu.Unlock()
}

// Pending returns the number of tasks that have not settled yet
func (tr *Tracker) Pending() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	n := 0
	for _, t := range tr.tasks {
		select {
		case <-t.Done():
		default:
			n++
		}
	}
	return n
}

// Wait blocks until every tracked task settles and returns their errors in start order
func (tr *Tracker) Wait() []error {
	tr.mu.Lock()
	tasks := append([]*Task{}, tr.tasks...)
	tr.mu.Unlock()

	var errs []error
	for _, t := range tasks {
		if err := t.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Reset forgets all tracked tasks
func (tr *Tracker) Reset() {
	tr.mu.Lock()
	tr.tasks = nil
	tr.mu.Unlock()
}
