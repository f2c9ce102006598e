// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// BudgetStatus represents where a budget is in its lifecycle.
type BudgetStatus string

const (
	BudgetStatusPending   BudgetStatus = "PENDING"
	BudgetStatusActive    BudgetStatus = "ACTIVE"
	BudgetStatusCompleted BudgetStatus = "COMPLETED"
)

// IsValid reports whether s is a known status.
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusPending, BudgetStatusActive, BudgetStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next goes forward in the lifecycle.
func (s BudgetStatus) CanTransitionTo(next BudgetStatus) bool {
	switch s {
	case BudgetStatusPending:
		return next == BudgetStatusActive
	case BudgetStatusActive:
		return next == BudgetStatusCompleted
	}
	return false
}

// MaxBudgetNameLength is the maximum length of a budget name.
const MaxBudgetNameLength = 100

// Budget is a spending allowance for one category over one calendar month.
type Budget struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Amount     decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
	Status     BudgetStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Populated by reads that load relations.
	Category     *Category
	Transactions []*Transaction
}

// NewBudget creates a budget for the month index of now's year.
// The budget starts ACTIVE when the month is now's month and PENDING otherwise.
func NewBudget(userID, categoryID uuid.UUID, name string, amount decimal.Decimal, monthIndex int, now time.Time) *Budget {
	now = now.UTC()
	b := &Budget{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		Name:       name,
		Amount:     amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.SetPeriod(monthIndex, now)
	return b
}

// SetPeriod moves the budget to the month index of now's year and derives its status.
func (b *Budget) SetPeriod(monthIndex int, now time.Time) {
	period := valueobject.MonthPeriod(now.UTC().Year(), monthIndex)
	b.StartDate = period.Start
	b.EndDate = period.End
	if valueobject.SameMonth(period.Start, now) {
		b.Status = BudgetStatusActive
	} else {
		b.Status = BudgetStatusPending
	}
}

// Period returns the calendar range covered by the budget.
func (b *Budget) Period() valueobject.Period {
	return valueobject.Period{Start: b.StartDate, End: b.EndDate}
}

// MonthIndex returns the zero-based month index of the budget period.
func (b *Budget) MonthIndex() int {
	return valueobject.MonthIndexOf(b.StartDate)
}

// IsActive reports whether transactions may be written against the budget.
func (b *Budget) IsActive() bool {
	return b.Status == BudgetStatusActive
}

// IsPending reports whether the budget period may still be edited.
func (b *Budget) IsPending() bool {
	return b.Status == BudgetStatusPending
}

// TransactionAmounts returns the amounts of the loaded transactions.
func (b *Budget) TransactionAmounts() []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(b.Transactions))
	for i, tx := range b.Transactions {
		amounts[i] = tx.Amount
	}
	return amounts
}

// Balance computes the spending summary from the loaded transactions.
func (b *Budget) Balance() valueobject.Balance {
	return valueobject.ComputeBalance(b.Amount, b.TransactionAmounts())
}

// BudgetFilter holds optional list filters.
type BudgetFilter struct {
	CategoryName *string
	// StartingIn matches budgets whose start date lies in the period.
	StartingIn *valueobject.Period
	Status     *BudgetStatus
}
