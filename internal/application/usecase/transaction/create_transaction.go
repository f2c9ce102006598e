package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	BudgetID    uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

// CreateTransactionOutput represents the output of transaction creation.
// Alert is set when the write crossed a threshold.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
	Alert       *entity.AlertEvent
}

// CreateTransactionUseCase records spending against an ACTIVE budget.
type CreateTransactionUseCase struct {
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	evaluator       ThresholdEvaluator
	clock           adapter.Clock
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	budgetRepo adapter.BudgetRepository,
	transactionRepo adapter.TransactionRepository,
	evaluator ThresholdEvaluator,
	clock adapter.Clock,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		evaluator:       evaluator,
		clock:           clock,
	}
}

// Execute performs the transaction creation and evaluates thresholds once committed.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	now := uc.clock.Now()
	description := strings.TrimSpace(input.Description)

	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	budget, err := loadActiveBudget(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := validateDate(input.Date, budget, now); err != nil {
		return nil, err
	}

	transaction := entity.NewTransaction(budget.ID, input.Amount, input.Date, description, now)
	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, writeFailure(ctx, "create transaction", err, budget.ID)
	}

	return &CreateTransactionOutput{
		Transaction: transaction,
		Alert:       evaluate(ctx, uc.evaluator, budget.ID, transaction.Amount),
	}, nil
}
