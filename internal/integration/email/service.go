// Package email provides email sending functionality.
package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// Service handles email queueing operations.
type Service struct {
	queue adapter.EmailQueueRepository
	clock adapter.Clock
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, clock adapter.Clock) *Service {
	return &Service{
		queue: queue,
		clock: clock,
	}
}

// QueueBudgetAlertEmail queues a threshold alert email. The same alert on the
// same budget is queued at most once per UTC day.
func (s *Service) QueueBudgetAlertEmail(ctx context.Context, input adapter.QueueBudgetAlertInput) error {
	templateData := map[string]interface{}{
		"user_name":        input.UserName,
		"budget_name":      input.BudgetName,
		"alert_kind":       input.AlertKind,
		"message":          input.Message,
		"spent_percentage": input.SpentPercentage,
	}

	job := entity.NewEmailJob(
		entity.TemplateBudgetAlert,
		input.UserEmail,
		input.UserName,
		"Budget alert: "+input.BudgetName,
		templateData,
	)
	job.DedupKey = entity.AlertDedupKey(input.BudgetID, input.AlertKind, s.now())

	created, err := s.queue.Create(ctx, job)
	if err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue budget alert email",
			err,
		)
	}
	if !created {
		slog.DebugContext(ctx, "Budget alert email already queued", "dedup_key", job.DedupKey)
	}

	return nil
}

func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now()
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
