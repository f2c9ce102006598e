package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique email and email notifications on.
func CreateTestUser(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()

	user := entity.NewUser(fmt.Sprintf("user%d@test.com", nextID()), "Test User", true)
	if err := db.Create(model.UserModelFromEntity(user)).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category for the user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *entity.Category {
	t.Helper()

	category := entity.NewCategory(userID, name)
	if err := db.Create(model.CategoryModelFromEntity(category)).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// BudgetFixture describes a budget to insert. Zero fields get defaults.
type BudgetFixture struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Amount     decimal.Decimal
	// Month is any instant in the budget's month.
	Month  time.Time
	Status entity.BudgetStatus
}

// CreateTestBudget inserts a budget as described, bypassing the status rules of NewBudget.
func CreateTestBudget(t *testing.T, db *gorm.DB, f BudgetFixture) *entity.Budget {
	t.Helper()

	if f.Name == "" {
		f.Name = fmt.Sprintf("budget-%d", nextID())
	}
	if f.Amount.IsZero() {
		f.Amount = decimal.NewFromInt(100)
	}
	if f.Status == "" {
		f.Status = entity.BudgetStatusActive
	}
	if f.Month.IsZero() {
		f.Month = time.Now().UTC()
	}

	month := f.Month.UTC()
	period := valueobject.MonthPeriod(month.Year(), valueobject.MonthIndexOf(month))
	now := time.Now().UTC()
	budget := &entity.Budget{
		ID:         uuid.New(),
		UserID:     f.UserID,
		CategoryID: f.CategoryID,
		Name:       f.Name,
		Amount:     f.Amount,
		StartDate:  period.Start,
		EndDate:    period.End,
		Status:     f.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(model.BudgetModelFromEntity(budget)).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestTransaction inserts a transaction without any status check.
func CreateTestTransaction(t *testing.T, db *gorm.DB, budgetID uuid.UUID, amount decimal.Decimal, date time.Time) *entity.Transaction {
	t.Helper()

	tx := entity.NewTransaction(budgetID, amount, date, "", date)
	if err := db.Create(model.TransactionModelFromEntity(tx)).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// BudgetStatusOf reads the stored status of a budget.
func BudgetStatusOf(t *testing.T, db *gorm.DB, id uuid.UUID) entity.BudgetStatus {
	t.Helper()

	var m model.BudgetModel
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		t.Fatalf("failed to load budget %s: %v", id, err)
	}
	return entity.BudgetStatus(m.Status)
}

// Dec parses a decimal literal or fails the test.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}
