package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// GetBudgetInput represents the input for fetching one budget.
type GetBudgetInput struct {
	UserID   uuid.UUID
	BudgetID uuid.UUID
}

// GetBudgetOutput represents the output of fetching one budget.
type GetBudgetOutput struct {
	Budget *entity.Budget
}

// GetBudgetUseCase returns a budget with its category.
type GetBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewGetBudgetUseCase creates a new GetBudgetUseCase instance.
func NewGetBudgetUseCase(budgetRepo adapter.BudgetRepository) *GetBudgetUseCase {
	return &GetBudgetUseCase{
		budgetRepo: budgetRepo,
	}
}

// Execute fetches the budget.
func (uc *GetBudgetUseCase) Execute(ctx context.Context, input GetBudgetInput) (*GetBudgetOutput, error) {
	budget, err := findOwned(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetBudgetOutput{Budget: budget}, nil
}
