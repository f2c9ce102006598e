package transaction

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// UpdateTransactionInput represents the input for a partial transaction update.
type UpdateTransactionInput struct {
	UserID        uuid.UUID
	BudgetID      uuid.UUID
	TransactionID uuid.UUID
	Amount        *decimal.Decimal
	Date          *time.Time
	Description   *string
}

// UpdateTransactionOutput represents the output of a transaction update.
type UpdateTransactionOutput struct {
	Transaction *entity.Transaction
	Alert       *entity.AlertEvent
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	evaluator       ThresholdEvaluator
	clock           adapter.Clock
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	budgetRepo adapter.BudgetRepository,
	transactionRepo adapter.TransactionRepository,
	evaluator ThresholdEvaluator,
	clock adapter.Clock,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		evaluator:       evaluator,
		clock:           clock,
	}
}

// Execute performs the update. Thresholds are evaluated against the net
// change in amount.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	if input.Amount == nil && input.Date == nil && input.Description == nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			"at least one field must be provided",
			nil,
		)
	}

	now := uc.clock.Now()

	budget, err := loadActiveBudget(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}

	transaction, err := uc.transactionRepo.FindByID(ctx, input.TransactionID, budget.ID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, transactionNotFound()
		}
		return nil, storeFailure(ctx, "find transaction", err, "transaction_id", input.TransactionID)
	}

	previous := transaction.Amount

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *input.Amount
	}
	if input.Date != nil {
		if err := validateDate(*input.Date, budget, now); err != nil {
			return nil, err
		}
		transaction.Date = input.Date.UTC()
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		transaction.Description = description
	}

	transaction.UpdatedAt = now
	if err := uc.transactionRepo.Update(ctx, transaction); err != nil {
		return nil, writeFailure(ctx, "update transaction", err, budget.ID)
	}

	return &UpdateTransactionOutput{
		Transaction: transaction,
		Alert:       evaluate(ctx, uc.evaluator, budget.ID, transaction.Amount.Sub(previous)),
	}, nil
}
