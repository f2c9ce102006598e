package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/budget-tracker/backend/internal/application/adapter"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// BreakerConfig holds the circuit breaker settings for outbound email.
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// BreakerSender guards an EmailSender with a circuit breaker. Only temporary
// provider failures count against the breaker.
type BreakerSender struct {
	next adapter.EmailSender
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSender wraps next with a breaker configured by cfg.
func NewBreakerSender(next adapter.EmailSender, cfg BreakerConfig) *BreakerSender {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "email",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isPermanent(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerSender{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Send forwards to the wrapped sender unless the breaker is open.
func (b *BreakerSender) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Send(ctx, input)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domainerror.NewEmailError(domainerror.ErrCodeEmailCircuitOpen, "email provider unavailable", err)
		}
		return nil, err
	}
	return res.(*adapter.SendEmailResult), nil
}

// State returns the current breaker state.
func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}

func isPermanent(err error) bool {
	var emailErr *domainerror.EmailError
	return errors.As(err, &emailErr) && emailErr.Code == domainerror.ErrCodePermanentEmailFailure
}
