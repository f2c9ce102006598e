package adapter

import (
	"context"
	"time"
)

// SweepLock guards the lifecycle sweep so one instance runs it at a time.
type SweepLock interface {
	// Acquire tries to take the lock for ttl. It returns false when another holder has it.
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)

	// Release drops the lock if this instance still holds it.
	Release(ctx context.Context) error
}
