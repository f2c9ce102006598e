package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// ListTransactionsInput represents the input for listing a budget's transactions.
// Days are days of the budget's month, 1 to 31, inclusive.
type ListTransactionsInput struct {
	UserID    uuid.UUID
	BudgetID  uuid.UUID
	MinDay    *int
	MaxDay    *int
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*entity.Transaction
}

// ListTransactionsUseCase handles listing transactions logic.
type ListTransactionsUseCase struct {
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(budgetRepo adapter.BudgetRepository, transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	if err := validateFilter(input); err != nil {
		return nil, err
	}

	budget, err := loadOwnedBudget(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}

	filter := entity.TransactionFilter{
		MinAmount: input.MinAmount,
		MaxAmount: input.MaxAmount,
	}
	if input.MinDay != nil {
		from := budget.StartDate.AddDate(0, 0, *input.MinDay-1)
		filter.From = &from
	}
	if input.MaxDay != nil {
		to := budget.StartDate.AddDate(0, 0, *input.MaxDay).Add(-time.Microsecond)
		if to.After(budget.EndDate) {
			to = budget.EndDate
		}
		filter.To = &to
	}

	transactions, err := uc.transactionRepo.ListForBudget(ctx, budget.ID, filter)
	if err != nil {
		return nil, storeFailure(ctx, "list transactions", err, "budget_id", budget.ID)
	}

	return &ListTransactionsOutput{
		Transactions: transactions,
	}, nil
}

func validateFilter(input ListTransactionsInput) error {
	invalid := func(message string) error {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionFilter,
			message,
			domainerror.ErrInvalidTransactionFilter,
		)
	}

	for _, day := range []*int{input.MinDay, input.MaxDay} {
		if day != nil && (*day < 1 || *day > 31) {
			return invalid("days must be between 1 and 31")
		}
	}
	if input.MinDay != nil && input.MaxDay != nil && *input.MinDay > *input.MaxDay {
		return invalid("minimum day must not exceed maximum day")
	}

	for _, amount := range []*decimal.Decimal{input.MinAmount, input.MaxAmount} {
		if amount != nil && amount.IsNegative() {
			return invalid("amounts must not be negative")
		}
	}
	if input.MinAmount != nil && input.MaxAmount != nil && input.MinAmount.GreaterThan(*input.MaxAmount) {
		return invalid("minimum amount must not exceed maximum amount")
	}

	return nil
}
