package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// NotificationDispatcher delivers an alert to a user.
// Implementations return domainerror.ErrNoRecipient when no channel reaches the user.
type NotificationDispatcher interface {
	Send(ctx context.Context, userID uuid.UUID, event *entity.AlertEvent) error
}

// NotificationDispatcherFunc adapts a function to NotificationDispatcher.
type NotificationDispatcherFunc func(ctx context.Context, userID uuid.UUID, event *entity.AlertEvent) error

// Send calls f.
func (f NotificationDispatcherFunc) Send(ctx context.Context, userID uuid.UUID, event *entity.AlertEvent) error {
	return f(ctx, userID, event)
}
