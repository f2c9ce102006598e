// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// Create creates a new budget in the database.
	Create(ctx context.Context, budget *entity.Budget) error

	// FindByID retrieves a budget owned by ownerID, with its category.
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*entity.Budget, error)

	// FindActiveByID retrieves a budget owned by ownerID only when it is ACTIVE.
	FindActiveByID(ctx context.Context, id, ownerID uuid.UUID) (*entity.Budget, error)

	// FindWithTransactions retrieves a budget with its category and all its transactions.
	FindWithTransactions(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// FindByOwner retrieves the owner's budgets matching filter.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter entity.BudgetFilter) ([]*entity.Budget, error)

	// ExistsByName checks if the owner has a budget with name, ignoring excludeID.
	ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// FindPendingStartingIn retrieves PENDING budgets whose start date is in the month of t.
	FindPendingStartingIn(ctx context.Context, t time.Time) ([]*entity.Budget, error)

	// FindActiveEndedBy retrieves ACTIVE budgets whose end date is at or before t.
	FindActiveEndedBy(ctx context.Context, t time.Time) ([]*entity.Budget, error)

	// UpdateStatus moves the given budgets to status in one statement.
	// Only rows still in from are changed and they are stamped with at.
	// Returns the number of rows changed.
	UpdateStatus(ctx context.Context, ids []uuid.UUID, from, to entity.BudgetStatus, at time.Time) (int64, error)

	// Update saves name, amount, category, period and status of a budget.
	Update(ctx context.Context, budget *entity.Budget) error

	// Delete removes a budget and its transactions.
	Delete(ctx context.Context, id uuid.UUID) error
}
