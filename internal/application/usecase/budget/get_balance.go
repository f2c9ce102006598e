package budget

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// GetBalanceInput represents the input for a budget balance.
type GetBalanceInput struct {
	UserID   uuid.UUID
	BudgetID uuid.UUID
}

// GetBalanceOutput represents the spending summary of a budget.
type GetBalanceOutput struct {
	Budget  *entity.Budget
	Balance valueobject.Balance
}

// GetBalanceUseCase computes spent and remaining amounts of a budget.
type GetBalanceUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase instance.
func NewGetBalanceUseCase(budgetRepo adapter.BudgetRepository) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		budgetRepo: budgetRepo,
	}
}

// Execute computes the balance from the budget's full transaction set.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, input GetBalanceInput) (*GetBalanceOutput, error) {
	budget, err := uc.budgetRepo.FindWithTransactions(ctx, input.BudgetID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, budgetNotFound()
		}
		return nil, storeFailure(ctx, "load budget transactions", err, "budget_id", input.BudgetID)
	}
	if budget.UserID != input.UserID {
		return nil, budgetNotFound()
	}

	return &GetBalanceOutput{
		Budget:  budget,
		Balance: budget.Balance(),
	}, nil
}
