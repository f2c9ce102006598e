package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// EmailDispatcher queues the alert as an email for users who opted in.
type EmailDispatcher struct {
	users  adapter.UserRepository
	emails adapter.EmailService
}

// NewEmailDispatcher creates a new email dispatcher.
func NewEmailDispatcher(users adapter.UserRepository, emails adapter.EmailService) *EmailDispatcher {
	return &EmailDispatcher{
		users:  users,
		emails: emails,
	}
}

// Send queues the alert email. Users without an address or with email
// notifications off are reported as domainerror.ErrNoRecipient.
func (d *EmailDispatcher) Send(ctx context.Context, userID uuid.UUID, event *entity.AlertEvent) error {
	user, err := d.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return fmt.Errorf("%w: %w", domainerror.ErrNoRecipient, err)
		}
		return domainerror.NewNotificationError(domainerror.ErrCodeDeliveryFailed, "failed to load alert recipient", err)
	}

	if !user.EmailNotifications || user.Email == "" {
		return domainerror.ErrNoRecipient
	}

	err = d.emails.QueueBudgetAlertEmail(ctx, adapter.QueueBudgetAlertInput{
		UserEmail:       user.Email,
		UserName:        user.Name,
		BudgetID:        event.BudgetID,
		BudgetName:      event.BudgetName,
		AlertKind:       string(event.Kind),
		Message:         event.Message,
		SpentPercentage: event.SpentPercentage.StringFixed(2),
	})
	if err != nil {
		return domainerror.NewNotificationError(domainerror.ErrCodeDeliveryFailed, "failed to queue alert email", err)
	}
	return nil
}

var _ adapter.NotificationDispatcher = (*EmailDispatcher)(nil)
