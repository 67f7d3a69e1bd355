package ui

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"ntr/internal/domain"
	"ntr/internal/results"
)

func TestProgressBarCounts(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := domain.TestResult{Description: "t"}
			if i%3 == 0 {
				r.Errors = []string{"boom"}
			}
			p.TestFinished(r)
		}(i)
	}
	wg.Wait()
	p.RunFinished(results.New())

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, 6, p.success)
	assert.Equal(t, 4, p.failed)
	assert.NotEmpty(t, buf.String())
}
