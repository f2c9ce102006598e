package adapter

import (
	"context"

	"github.com/google/uuid"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing emails.
type EmailService interface {
	// QueueBudgetAlertEmail queues a threshold alert email.
	QueueBudgetAlertEmail(ctx context.Context, input QueueBudgetAlertInput) error
}

// QueueBudgetAlertInput represents the input for queueing a budget alert email.
type QueueBudgetAlertInput struct {
	UserEmail       string
	UserName        string
	BudgetID        uuid.UUID
	BudgetName      string
	AlertKind       string
	Message         string
	SpentPercentage string
}
