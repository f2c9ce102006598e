// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// storeFailure logs a failed store call and wraps it as an internal budget error.
func storeFailure(ctx context.Context, op string, err error, args ...any) error {
	slog.ErrorContext(ctx, "Budget store operation failed", append([]any{"op", op, "error", err}, args...)...)
	return domainerror.NewBudgetError(domainerror.ErrCodeBudgetStoreFailure, "failed to "+op, err)
}

func budgetNotFound() error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeBudgetNotFound,
		"budget not found",
		domainerror.ErrBudgetNotFound,
	)
}

// findOwned loads a budget of the owner, mapping a miss to a not-found error.
func findOwned(ctx context.Context, repo adapter.BudgetRepository, id, ownerID uuid.UUID) (*entity.Budget, error) {
	budget, err := repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, budgetNotFound()
		}
		return nil, storeFailure(ctx, "find budget", err, "budget_id", id)
	}
	return budget, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > entity.MaxBudgetNameLength {
		return "", domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetName,
			"name must be between 1 and 100 characters",
			domainerror.ErrInvalidBudgetName,
		)
	}
	return name, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !valueobject.IsCentAmount(amount) {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetAmount,
			"amount must be at least 0.01 with at most two decimal places",
			domainerror.ErrInvalidBudgetAmount,
		)
	}
	return nil
}

func validateMonthIndex(monthIndex int, now time.Time) error {
	if !valueobject.ValidMonthIndex(monthIndex) {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidMonthIndex,
			"month index must be between 0 and 11",
			domainerror.ErrInvalidMonthIndex,
		)
	}
	if valueobject.MonthInPast(monthIndex, now) {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeMonthInPast,
			"month must not be in the past",
			domainerror.ErrMonthInPast,
		)
	}
	return nil
}

// ensureNameAvailable rejects a name already used by another budget of the owner.
func ensureNameAvailable(ctx context.Context, repo adapter.BudgetRepository, ownerID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := repo.ExistsByName(ctx, ownerID, name, excludeID)
	if err != nil {
		return storeFailure(ctx, "check budget name", err, "user_id", ownerID)
	}
	if exists {
		return nameTaken()
	}
	return nil
}

func nameTaken() error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeBudgetNameExists,
		"a budget with this name already exists",
		domainerror.ErrBudgetNameExists,
	)
}
