package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction persistence operations.
//
// Writes re-read the owning budget's status inside the same database transaction
// and fail with domainerror.ErrBudgetNotActive unless it is ACTIVE.
type TransactionRepository interface {
	// Create inserts a transaction.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update saves amount, date and description of a transaction.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes a transaction.
	Delete(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction belonging to budgetID.
	FindByID(ctx context.Context, id, budgetID uuid.UUID) (*entity.Transaction, error)

	// ListForBudget retrieves the budget's transactions matching filter, ordered by date.
	ListForBudget(ctx context.Context, budgetID uuid.UUID, filter entity.TransactionFilter) ([]*entity.Transaction, error)
}
