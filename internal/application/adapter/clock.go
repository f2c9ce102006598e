package adapter

import "time"

// Clock supplies the current time. Implementations must return UTC.
type Clock interface {
	Now() time.Time
}
