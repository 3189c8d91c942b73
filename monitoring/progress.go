package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar counts how many of a known number of items are done.
type ProgressBar struct {
	mu sync.Mutex

	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	Finished  uint64
}

// IncrementFinished marks amount more items as done.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Finished += amount
}

type progressStatus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Elapsed   float64   `json:"elapsed_seconds"`
}

func (b *ProgressBar) status(now time.Time) progressStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	return progressStatus{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
		Elapsed:   now.Sub(b.StartTime).Seconds(),
	}
}
