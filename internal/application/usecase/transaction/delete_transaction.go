package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	UserID        uuid.UUID
	BudgetID      uuid.UUID
	TransactionID uuid.UUID
}

// DeleteTransactionOutput represents the output of transaction deletion.
type DeleteTransactionOutput struct {
	Success bool
}

// DeleteTransactionUseCase removes a transaction from an ACTIVE budget.
type DeleteTransactionUseCase struct {
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	evaluator       ThresholdEvaluator
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(
	budgetRepo adapter.BudgetRepository,
	transactionRepo adapter.TransactionRepository,
	evaluator ThresholdEvaluator,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		evaluator:       evaluator,
	}
}

// Execute performs the transaction deletion.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) (*DeleteTransactionOutput, error) {
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

	if err := uc.transactionRepo.Delete(ctx, transaction); err != nil {
		return nil, writeFailure(ctx, "delete transaction", err, budget.ID)
	}

	// Removing spend lowers the total, so this never fires.
	evaluate(ctx, uc.evaluator, budget.ID, transaction.Amount.Neg())

	return &DeleteTransactionOutput{
		Success: true,
	}, nil
}
