package budget

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/category"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// CreateBudgetInput represents the input for budget creation.
// The category is given either by id or by name; a name is found or created.
type CreateBudgetInput struct {
	UserID       uuid.UUID
	Name         string
	CategoryID   *uuid.UUID
	CategoryName *string
	Amount       decimal.Decimal
	MonthIndex   int
}

// CreateBudgetOutput represents the output of budget creation.
type CreateBudgetOutput struct {
	Budget *entity.Budget
}

// CreateBudgetUseCase handles budget creation logic.
type CreateBudgetUseCase struct {
	budgetRepo   adapter.BudgetRepository
	categoryRepo adapter.CategoryRepository
	clock        adapter.Clock
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(budgetRepo adapter.BudgetRepository, categoryRepo adapter.CategoryRepository, clock adapter.Clock) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		clock:        clock,
	}
}

// Execute performs the budget creation.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*CreateBudgetOutput, error) {
	now := uc.clock.Now()

	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateMonthIndex(input.MonthIndex, now); err != nil {
		return nil, err
	}
	if err := ensureNameAvailable(ctx, uc.budgetRepo, input.UserID, name, nil); err != nil {
		return nil, err
	}

	cat, err := category.Resolve(ctx, uc.categoryRepo, input.UserID, input.CategoryID, input.CategoryName)
	if err != nil {
		return nil, err
	}

	budget := entity.NewBudget(input.UserID, cat.ID, name, input.Amount, input.MonthIndex, now)
	if err := uc.budgetRepo.Create(ctx, budget); err != nil {
		if errors.Is(err, domainerror.ErrBudgetNameExists) {
			return nil, nameTaken()
		}
		return nil, storeFailure(ctx, "create budget", err, "user_id", input.UserID)
	}
	budget.Category = cat

	slog.InfoContext(ctx, "Budget created",
		"budget_id", budget.ID,
		"user_id", budget.UserID,
		"status", budget.Status,
		"start_date", budget.StartDate,
	)

	return &CreateBudgetOutput{
		Budget: budget,
	}, nil
}
