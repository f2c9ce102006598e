package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// ListBudgetsInput represents the input for listing budgets.
// MonthIndex refers to the current year.
type ListBudgetsInput struct {
	UserID       uuid.UUID
	CategoryName *string
	MonthIndex   *int
	Status       *entity.BudgetStatus
}

// ListBudgetsOutput represents the output of listing budgets.
type ListBudgetsOutput struct {
	Budgets []*entity.Budget
}

// ListBudgetsUseCase handles listing budgets logic.
type ListBudgetsUseCase struct {
	budgetRepo adapter.BudgetRepository
	clock      adapter.Clock
}

// NewListBudgetsUseCase creates a new ListBudgetsUseCase instance.
func NewListBudgetsUseCase(budgetRepo adapter.BudgetRepository, clock adapter.Clock) *ListBudgetsUseCase {
	return &ListBudgetsUseCase{
		budgetRepo: budgetRepo,
		clock:      clock,
	}
}

// Execute performs the listing.
func (uc *ListBudgetsUseCase) Execute(ctx context.Context, input ListBudgetsInput) (*ListBudgetsOutput, error) {
	filter := entity.BudgetFilter{
		CategoryName: input.CategoryName,
		Status:       input.Status,
	}

	if input.Status != nil && !input.Status.IsValid() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetStatus,
			"status must be PENDING, ACTIVE or COMPLETED",
			domainerror.ErrInvalidBudgetStatus,
		)
	}

	if input.MonthIndex != nil {
		if !valueobject.ValidMonthIndex(*input.MonthIndex) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidMonthIndex,
				"month index must be between 0 and 11",
				domainerror.ErrInvalidMonthIndex,
			)
		}
		period := valueobject.MonthPeriod(uc.clock.Now().Year(), *input.MonthIndex)
		filter.StartingIn = &period
	}

	budgets, err := uc.budgetRepo.FindByOwner(ctx, input.UserID, filter)
	if err != nil {
		return nil, storeFailure(ctx, "list budgets", err, "user_id", input.UserID)
	}

	return &ListBudgetsOutput{
		Budgets: budgets,
	}, nil
}
