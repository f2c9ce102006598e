package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// Channel is a named delivery route.
type Channel struct {
	Name       string
	Dispatcher adapter.NotificationDispatcher
}

// FallbackDispatcher tries each channel in order and stops at the first delivery.
type FallbackDispatcher struct {
	channels []Channel
}

// NewFallbackDispatcher creates a dispatcher over channels, in priority order.
func NewFallbackDispatcher(channels ...Channel) *FallbackDispatcher {
	return &FallbackDispatcher{channels: channels}
}

// Send delivers through the first channel that accepts the alert.
func (d *FallbackDispatcher) Send(ctx context.Context, userID uuid.UUID, event *entity.AlertEvent) error {
	errs := []error{domainerror.ErrNoRecipient}
	for _, ch := range d.channels {
		err := ch.Dispatcher.Send(ctx, userID, event)
		if err == nil {
			slog.DebugContext(ctx, "Alert delivered",
				"channel", ch.Name,
				"user_id", userID,
				"alert_kind", event.Kind,
			)
			return nil
		}
		if !errors.Is(err, domainerror.ErrNoRecipient) {
			slog.WarnContext(ctx, "Alert channel failed",
				"channel", ch.Name,
				"user_id", userID,
				"error", err,
			)
		}
		errs = append(errs, err)
	}

	return domainerror.NewNotificationError(
		domainerror.ErrCodeNoRecipient,
		"no channel delivered the alert",
		errors.Join(errs...),
	)
}

var _ adapter.NotificationDispatcher = (*FallbackDispatcher)(nil)
