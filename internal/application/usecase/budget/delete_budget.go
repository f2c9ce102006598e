package budget

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

// DeleteBudgetInput represents the input for budget deletion.
type DeleteBudgetInput struct {
	UserID   uuid.UUID
	BudgetID uuid.UUID
}

// DeleteBudgetOutput represents the output of budget deletion.
type DeleteBudgetOutput struct {
	Success bool
}

// DeleteBudgetUseCase removes a budget together with its transactions.
type DeleteBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(budgetRepo adapter.BudgetRepository) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{
		budgetRepo: budgetRepo,
	}
}

// Execute performs the budget deletion.
func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, input DeleteBudgetInput) (*DeleteBudgetOutput, error) {
	budget, err := findOwned(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := uc.budgetRepo.Delete(ctx, budget.ID); err != nil {
		return nil, storeFailure(ctx, "delete budget", err, "budget_id", budget.ID)
	}

	slog.InfoContext(ctx, "Budget deleted", "budget_id", budget.ID, "user_id", input.UserID)

	return &DeleteBudgetOutput{
		Success: true,
	}, nil
}
