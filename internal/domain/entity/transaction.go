package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxDescriptionLength is the maximum length of a transaction description.
const MaxDescriptionLength = 500

// Transaction is an expense recorded against an active budget.
type Transaction struct {
	ID          uuid.UUID
	BudgetID    uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTransaction creates a new Transaction entity stamped at now.
func NewTransaction(budgetID uuid.UUID, amount decimal.Decimal, date time.Time, description string, now time.Time) *Transaction {
	now = now.UTC()

	return &Transaction{
		ID:          uuid.New(),
		BudgetID:    budgetID,
		Amount:      amount,
		Date:        date.UTC(),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TransactionFilter holds optional list filters. Bounds are inclusive.
type TransactionFilter struct {
	From      *time.Time
	To        *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}
