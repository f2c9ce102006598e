package adapters

import (
	"time"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ adapter.Clock = SystemClock{}
