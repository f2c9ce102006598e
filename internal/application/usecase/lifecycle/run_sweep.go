// Package lifecycle keeps budget statuses in step with the calendar.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// Batch names used in logs and metrics.
const (
	BatchActivate = "activate"
	BatchComplete = "complete"
)

// RunSweepInput represents the input for a lifecycle sweep.
// A zero Now means the clock's current time.
type RunSweepInput struct {
	Now time.Time
}

// RunSweepOutput reports each batch independently.
type RunSweepOutput struct {
	Now           time.Time
	Activated     int64
	Completed     int64
	ActivationErr error
	CompletionErr error
}

// RunSweepUseCase activates PENDING budgets whose month has started and
// completes ACTIVE budgets whose period has ended.
type RunSweepUseCase struct {
	budgetRepo adapter.BudgetRepository
	clock      adapter.Clock
	metrics    adapter.MetricsRecorder
}

// NewRunSweepUseCase creates a new RunSweepUseCase instance.
func NewRunSweepUseCase(budgetRepo adapter.BudgetRepository, clock adapter.Clock, metrics adapter.MetricsRecorder) *RunSweepUseCase {
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}
	return &RunSweepUseCase{
		budgetRepo: budgetRepo,
		clock:      clock,
		metrics:    metrics,
	}
}

// Execute runs activation then completion. A failed batch does not stop the
// other one; the returned error joins both batch errors.
func (uc *RunSweepUseCase) Execute(ctx context.Context, input RunSweepInput) (*RunSweepOutput, error) {
	now := input.Now
	if now.IsZero() {
		now = uc.clock.Now()
	}
	now = now.UTC()

	out := &RunSweepOutput{Now: now}
	out.Activated, out.ActivationErr = uc.ActivatePending(ctx, now)
	out.Completed, out.CompletionErr = uc.CompleteActive(ctx, now)

	slog.InfoContext(ctx, "Lifecycle sweep finished",
		"now", now,
		"activated", out.Activated,
		"completed", out.Completed,
		"failed", out.ActivationErr != nil || out.CompletionErr != nil,
	)

	return out, errors.Join(out.ActivationErr, out.CompletionErr)
}

// ActivatePending moves PENDING budgets starting in now's month to ACTIVE.
func (uc *RunSweepUseCase) ActivatePending(ctx context.Context, now time.Time) (int64, error) {
	budgets, err := uc.budgetRepo.FindPendingStartingIn(ctx, now)
	if err != nil {
		return 0, uc.batchFailed(ctx, BatchActivate, "find pending budgets", err)
	}
	return uc.transition(ctx, BatchActivate, budgets, entity.BudgetStatusPending, entity.BudgetStatusActive, now)
}

// CompleteActive moves ACTIVE budgets whose end date is at or before now to COMPLETED.
func (uc *RunSweepUseCase) CompleteActive(ctx context.Context, now time.Time) (int64, error) {
	budgets, err := uc.budgetRepo.FindActiveEndedBy(ctx, now)
	if err != nil {
		return 0, uc.batchFailed(ctx, BatchComplete, "find ended budgets", err)
	}
	return uc.transition(ctx, BatchComplete, budgets, entity.BudgetStatusActive, entity.BudgetStatusCompleted, now)
}

func (uc *RunSweepUseCase) transition(ctx context.Context, batch string, budgets []*entity.Budget, from, to entity.BudgetStatus, now time.Time) (int64, error) {
	if len(budgets) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(budgets))
	for i, b := range budgets {
		ids[i] = b.ID
	}

	n, err := uc.budgetRepo.UpdateStatus(ctx, ids, from, to, now)
	if err != nil {
		return 0, uc.batchFailed(ctx, batch, "update budget status", err)
	}

	uc.metrics.BudgetsTransitioned(to, n)
	slog.InfoContext(ctx, "Budgets transitioned", "batch", batch, "to", to, "count", n)
	return n, nil
}

func (uc *RunSweepUseCase) batchFailed(ctx context.Context, batch, op string, err error) error {
	uc.metrics.SweepBatchFailed(batch)
	slog.ErrorContext(ctx, "Lifecycle sweep batch failed", "batch", batch, "op", op, "error", err)
	return domainerror.NewBudgetError(domainerror.ErrCodeBudgetStoreFailure, batch+" batch: failed to "+op, err)
}
