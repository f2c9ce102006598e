// Package alert decides and emits budget threshold alerts.
package alert

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// EvaluateThresholdInput represents a transaction mutation already written to a budget.
// Delta is the change in total spend caused by that mutation.
type EvaluateThresholdInput struct {
	BudgetID uuid.UUID
	Delta    decimal.Decimal
}

// EvaluateThresholdOutput reports the alert fired, if any.
type EvaluateThresholdOutput struct {
	Event     *entity.AlertEvent
	Delivered bool
}

// EvaluateThresholdUseCase recomputes total spend after a write and emits
// at most one alert for the highest threshold newly crossed.
//
// Two writers crossing the same boundary at the same time may both see the
// pre-crossing total and both alert. Delivery is at-least-once.
type EvaluateThresholdUseCase struct {
	budgetRepo adapter.BudgetRepository
	dispatcher adapter.NotificationDispatcher
	clock      adapter.Clock
	metrics    adapter.MetricsRecorder
}

// NewEvaluateThresholdUseCase creates a new EvaluateThresholdUseCase instance.
func NewEvaluateThresholdUseCase(
	budgetRepo adapter.BudgetRepository,
	dispatcher adapter.NotificationDispatcher,
	clock adapter.Clock,
	metrics adapter.MetricsRecorder,
) *EvaluateThresholdUseCase {
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}
	return &EvaluateThresholdUseCase{
		budgetRepo: budgetRepo,
		dispatcher: dispatcher,
		clock:      clock,
		metrics:    metrics,
	}
}

// Execute evaluates the budget. Dispatch failures are logged and dropped;
// only a failure to load the budget is returned.
func (uc *EvaluateThresholdUseCase) Execute(ctx context.Context, input EvaluateThresholdInput) (*EvaluateThresholdOutput, error) {
	if !input.Delta.IsPositive() {
		return &EvaluateThresholdOutput{}, nil
	}

	budget, err := uc.budgetRepo.FindWithTransactions(ctx, input.BudgetID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return &EvaluateThresholdOutput{}, nil
		}
		return nil, domainerror.NewBudgetError(domainerror.ErrCodeBudgetStoreFailure, "failed to load budget for threshold evaluation", err)
	}

	now := uc.clock.Now()
	total := valueobject.SumAmounts(budget.TransactionAmounts())

	crossing, ok := valueobject.DetectCrossing(budget.Amount, total, input.Delta, now)
	if !ok {
		return &EvaluateThresholdOutput{}, nil
	}

	event := entity.NewAlertEvent(budget, crossing, now)
	out := &EvaluateThresholdOutput{Event: event}

	if err := uc.dispatcher.Send(ctx, budget.UserID, event); err != nil {
		uc.metrics.AlertDropped(event.Kind)
		slog.WarnContext(ctx, "Alert dropped",
			"budget_id", budget.ID,
			"user_id", budget.UserID,
			"alert_kind", event.Kind,
			"error", err,
		)
		return out, nil
	}

	out.Delivered = true
	uc.metrics.AlertEmitted(event.Kind)
	slog.InfoContext(ctx, "Alert emitted",
		"budget_id", budget.ID,
		"user_id", budget.UserID,
		"alert_kind", event.Kind,
		"spent_percentage", event.SpentPercentage.String(),
	)

	return out, nil
}
