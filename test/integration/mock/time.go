package mock

import (
	"sync"
	"time"
)

// Time is a clock frozen at a settable instant, always in UTC.
type Time struct {
	mu  sync.Mutex
	now time.Time
}

func NewTime() *Time {
	return &Time{now: time.Now().UTC()}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = currentTime.UTC()
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}
