package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// FixedClock is an adapter.Clock that returns a settable instant.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock stopped at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

// Now returns the current instant of the clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to now.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now.UTC()
}

// SentAlert is one call recorded by RecordingDispatcher.
type SentAlert struct {
	UserID uuid.UUID
	Event  *entity.AlertEvent
}

// RecordingDispatcher is an adapter.NotificationDispatcher that records calls.
// When Err is set every call fails with it, after being recorded.
type RecordingDispatcher struct {
	mu   sync.Mutex
	sent []SentAlert
	Err  error
}

// Send records the alert.
func (d *RecordingDispatcher) Send(_ context.Context, userID uuid.UUID, event *entity.AlertEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, SentAlert{UserID: userID, Event: event})
	return d.Err
}

// Sent returns a copy of the recorded alerts.
func (d *RecordingDispatcher) Sent() []SentAlert {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]SentAlert, len(d.sent))
	copy(out, d.sent)
	return out
}

// RecordingMetrics is an adapter.MetricsRecorder that counts calls.
type RecordingMetrics struct {
	mu           sync.Mutex
	Emitted      map[valueobject.AlertKind]int
	Dropped      map[valueobject.AlertKind]int
	Transitioned map[entity.BudgetStatus]int64
	Failed       map[string]int
}

// NewRecordingMetrics creates an empty recorder.
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		Emitted:      map[valueobject.AlertKind]int{},
		Dropped:      map[valueobject.AlertKind]int{},
		Transitioned: map[entity.BudgetStatus]int64{},
		Failed:       map[string]int{},
	}
}

func (m *RecordingMetrics) AlertEmitted(kind valueobject.AlertKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emitted[kind]++
}

func (m *RecordingMetrics) AlertDropped(kind valueobject.AlertKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dropped[kind]++
}

func (m *RecordingMetrics) BudgetsTransitioned(to entity.BudgetStatus, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitioned[to] += count
}

func (m *RecordingMetrics) SweepBatchFailed(batch string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failed[batch]++
}
