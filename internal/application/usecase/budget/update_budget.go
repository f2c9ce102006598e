package budget

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/category"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// UpdateBudgetInput represents the input for a partial budget update.
type UpdateBudgetInput struct {
	UserID       uuid.UUID
	BudgetID     uuid.UUID
	Name         *string
	Amount       *decimal.Decimal
	CategoryID   *uuid.UUID
	CategoryName *string
	MonthIndex   *int
}

func (in UpdateBudgetInput) empty() bool {
	return in.Name == nil && in.Amount == nil && in.CategoryID == nil &&
		in.CategoryName == nil && in.MonthIndex == nil
}

// UpdateBudgetOutput represents the output of a budget update.
type UpdateBudgetOutput struct {
	Budget *entity.Budget
}

// UpdateBudgetUseCase handles budget update logic.
type UpdateBudgetUseCase struct {
	budgetRepo   adapter.BudgetRepository
	categoryRepo adapter.CategoryRepository
	clock        adapter.Clock
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(budgetRepo adapter.BudgetRepository, categoryRepo adapter.CategoryRepository, clock adapter.Clock) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		clock:        clock,
	}
}

// Execute performs the budget update.
// The period may only move while the budget is PENDING.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	if input.empty() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"at least one field must be provided",
			nil,
		)
	}

	now := uc.clock.Now()

	budget, err := findOwned(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		if name != budget.Name {
			if err := ensureNameAvailable(ctx, uc.budgetRepo, input.UserID, name, &budget.ID); err != nil {
				return nil, err
			}
			budget.Name = name
		}
	}

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		budget.Amount = *input.Amount
	}

	if input.CategoryID != nil || input.CategoryName != nil {
		cat, err := category.Resolve(ctx, uc.categoryRepo, input.UserID, input.CategoryID, input.CategoryName)
		if err != nil {
			return nil, err
		}
		budget.CategoryID = cat.ID
		budget.Category = cat
	}

	if input.MonthIndex != nil && *input.MonthIndex != budget.MonthIndex() {
		if !budget.IsPending() {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodePeriodLocked,
				"the period can only change while the budget is pending",
				domainerror.ErrPeriodLocked,
			)
		}
		if err := validateMonthIndex(*input.MonthIndex, now); err != nil {
			return nil, err
		}
		budget.SetPeriod(*input.MonthIndex, now)
	}

	budget.UpdatedAt = now
	if err := uc.budgetRepo.Update(ctx, budget); err != nil {
		if errors.Is(err, domainerror.ErrBudgetNameExists) {
			return nil, nameTaken()
		}
		return nil, storeFailure(ctx, "update budget", err, "budget_id", budget.ID)
	}

	return &UpdateBudgetOutput{
		Budget: budget,
	}, nil
}
