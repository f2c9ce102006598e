// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/alert"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// ThresholdEvaluator decides whether a write crossed a spending threshold.
type ThresholdEvaluator interface {
	Execute(ctx context.Context, input alert.EvaluateThresholdInput) (*alert.EvaluateThresholdOutput, error)
}

func storeFailure(ctx context.Context, op string, err error, args ...any) error {
	slog.ErrorContext(ctx, "Transaction store operation failed", append([]any{"op", op, "error", err}, args...)...)
	return domainerror.NewTransactionError(domainerror.ErrCodeTransactionStoreFailure, "failed to "+op, err)
}

func budgetNotFound() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTxnBudgetNotFound,
		"budget not found",
		domainerror.ErrBudgetNotFound,
	)
}

func budgetNotActive() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTxnBudgetNotActive,
		"transactions can only change while the budget is active",
		domainerror.ErrBudgetNotActive,
	)
}

func transactionNotFound() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTransactionNotFound,
		"transaction not found",
		domainerror.ErrTransactionNotFound,
	)
}

// loadOwnedBudget loads a budget of the owner in any status.
func loadOwnedBudget(ctx context.Context, repo adapter.BudgetRepository, budgetID, ownerID uuid.UUID) (*entity.Budget, error) {
	budget, err := repo.FindByID(ctx, budgetID, ownerID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, budgetNotFound()
		}
		return nil, storeFailure(ctx, "find budget", err, "budget_id", budgetID)
	}
	return budget, nil
}

// loadActiveBudget loads a budget of the owner that accepts transaction writes.
// A budget that exists but is not ACTIVE is a conflict, not a miss.
func loadActiveBudget(ctx context.Context, repo adapter.BudgetRepository, budgetID, ownerID uuid.UUID) (*entity.Budget, error) {
	budget, err := repo.FindActiveByID(ctx, budgetID, ownerID)
	if err == nil {
		return budget, nil
	}
	if !errors.Is(err, domainerror.ErrBudgetNotFound) {
		return nil, storeFailure(ctx, "find active budget", err, "budget_id", budgetID)
	}

	if _, err := loadOwnedBudget(ctx, repo, budgetID, ownerID); err != nil {
		return nil, err
	}
	return nil, budgetNotActive()
}

// writeFailure maps a store write error to a domain error.
func writeFailure(ctx context.Context, op string, err error, budgetID uuid.UUID) error {
	switch {
	case errors.Is(err, domainerror.ErrBudgetNotActive):
		return budgetNotActive()
	case errors.Is(err, domainerror.ErrTransactionNotFound):
		return transactionNotFound()
	default:
		return storeFailure(ctx, op, err, "budget_id", budgetID)
	}
}

func validateAmount(amount decimal.Decimal) error {
	if !valueobject.IsCentAmount(amount) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be at least 0.01 with at most two decimal places",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

// validateDate checks the date lies in the budget period and is not after now.
func validateDate(date time.Time, budget *entity.Budget, now time.Time) error {
	if !budget.Period().Contains(date) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionOutsidePeriod,
			"date must fall within the budget period",
			domainerror.ErrTransactionOutsidePeriod,
		)
	}
	if date.After(now) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionInFuture,
			"date must not be in the future",
			domainerror.ErrTransactionInFuture,
		)
	}
	return nil
}

func validateDescription(description string) error {
	if len([]rune(description)) > entity.MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			"description must be at most 500 characters",
			domainerror.ErrDescriptionTooLong,
		)
	}
	return nil
}

// evaluate runs threshold evaluation for a committed write. It is detached from
// the request context so a caller hanging up cannot cancel the alert.
func evaluate(ctx context.Context, evaluator ThresholdEvaluator, budgetID uuid.UUID, delta decimal.Decimal) *entity.AlertEvent {
	if evaluator == nil || !delta.IsPositive() {
		return nil
	}

	out, err := evaluator.Execute(context.WithoutCancel(ctx), alert.EvaluateThresholdInput{
		BudgetID: budgetID,
		Delta:    delta,
	})
	if err != nil {
		slog.WarnContext(ctx, "Threshold evaluation failed", "budget_id", budgetID, "error", err)
		return nil
	}
	return out.Event
}
