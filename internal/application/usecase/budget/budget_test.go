package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/testutil"
)

const (
	june = 5
	july = 6
)

type fixture struct {
	db           *gorm.DB
	clock        *testutil.FixedClock
	budgetRepo   adapter.BudgetRepository
	categoryRepo adapter.CategoryRepository
	user         *entity.User
	category     *entity.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	return &fixture{
		db:           db,
		clock:        testutil.NewFixedClock(time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)),
		budgetRepo:   persistence.NewBudgetRepository(db),
		categoryRepo: persistence.NewCategoryRepository(db),
		user:         user,
		category:     testutil.CreateTestCategory(t, db, user.ID, "food"),
	}
}

func (f *fixture) create(t *testing.T, name string, monthIndex int) *entity.Budget {
	t.Helper()
	out, err := NewCreateBudgetUseCase(f.budgetRepo, f.categoryRepo, f.clock).Execute(context.Background(), CreateBudgetInput{
		UserID:     f.user.ID,
		Name:       name,
		CategoryID: &f.category.ID,
		Amount:     decimal.NewFromInt(100),
		MonthIndex: monthIndex,
	})
	require.NoError(t, err)
	return out.Budget
}

func TestCreateBudgetUseCase(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateBudgetUseCase(f.budgetRepo, f.categoryRepo, f.clock)
	ctx := context.Background()

	t.Run("current month starts active", func(t *testing.T) {
		budget := f.create(t, "june food", june)
		assert.Equal(t, entity.BudgetStatusActive, budget.Status)
		assert.True(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC).Equal(budget.StartDate))
		assert.True(t, time.Date(2026, time.June, 30, 23, 59, 59, 999999000, time.UTC).Equal(budget.EndDate))
	})

	t.Run("future month starts pending", func(t *testing.T) {
		budget := f.create(t, "july food", july)
		assert.Equal(t, entity.BudgetStatusPending, budget.Status)
	})

	t.Run("category by name is created", func(t *testing.T) {
		name := "Travel"
		out, err := uc.Execute(ctx, CreateBudgetInput{
			UserID:       f.user.ID,
			Name:         "trip",
			CategoryName: &name,
			Amount:       decimal.NewFromInt(900),
			MonthIndex:   july,
		})
		require.NoError(t, err)
		require.NotNil(t, out.Budget.Category)
		assert.Equal(t, "travel", out.Budget.Category.Name)
	})

	tests := []struct {
		name         string
		input        CreateBudgetInput
		expectedCode domainerror.BudgetErrorCode
		expectedKind domainerror.Kind
	}{
		{
			name:         "past month",
			input:        CreateBudgetInput{Name: "old", Amount: decimal.NewFromInt(10), MonthIndex: 4},
			expectedCode: domainerror.ErrCodeMonthInPast,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "month out of range",
			input:        CreateBudgetInput{Name: "bad", Amount: decimal.NewFromInt(10), MonthIndex: 12},
			expectedCode: domainerror.ErrCodeInvalidMonthIndex,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "zero amount",
			input:        CreateBudgetInput{Name: "zero", Amount: decimal.Zero, MonthIndex: july},
			expectedCode: domainerror.ErrCodeInvalidBudgetAmount,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "fraction of a cent",
			input:        CreateBudgetInput{Name: "tiny", Amount: decimal.RequireFromString("0.001"), MonthIndex: july},
			expectedCode: domainerror.ErrCodeInvalidBudgetAmount,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "three decimal places",
			input:        CreateBudgetInput{Name: "precise", Amount: decimal.RequireFromString("10.005"), MonthIndex: july},
			expectedCode: domainerror.ErrCodeInvalidBudgetAmount,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "blank name",
			input:        CreateBudgetInput{Name: "  ", Amount: decimal.NewFromInt(10), MonthIndex: july},
			expectedCode: domainerror.ErrCodeInvalidBudgetName,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "duplicate name",
			input:        CreateBudgetInput{Name: "june food", Amount: decimal.NewFromInt(10), MonthIndex: july},
			expectedCode: domainerror.ErrCodeBudgetNameExists,
			expectedKind: domainerror.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = f.user.ID
			tt.input.CategoryID = &f.category.ID
			_, err := uc.Execute(ctx, tt.input)
			testutil.AssertDomainError(t, err, string(tt.expectedCode), tt.expectedKind)
		})
	}
}

// staleNameCheck reports every name as free, as a check that lost a race would.
type staleNameCheck struct {
	adapter.BudgetRepository
}

func (staleNameCheck) ExistsByName(context.Context, uuid.UUID, string, *uuid.UUID) (bool, error) {
	return false, nil
}

func TestCreateBudgetUseCase_ConcurrentDuplicateName(t *testing.T) {
	f := newFixture(t)
	f.create(t, "june food", june)

	repo := staleNameCheck{BudgetRepository: f.budgetRepo}
	_, err := NewCreateBudgetUseCase(repo, f.categoryRepo, f.clock).Execute(context.Background(), CreateBudgetInput{
		UserID:     f.user.ID,
		Name:       "june food",
		CategoryID: &f.category.ID,
		Amount:     decimal.NewFromInt(10),
		MonthIndex: july,
	})
	testutil.AssertDomainError(t, err, string(domainerror.ErrCodeBudgetNameExists), domainerror.KindConflict)

	other := f.create(t, "july food", july)
	name := "june food"
	_, err = NewUpdateBudgetUseCase(repo, f.categoryRepo, f.clock).Execute(context.Background(), UpdateBudgetInput{
		UserID:   f.user.ID,
		BudgetID: other.ID,
		Name:     &name,
	})
	testutil.AssertDomainError(t, err, string(domainerror.ErrCodeBudgetNameExists), domainerror.KindConflict)
}

func TestUpdateBudgetUseCase(t *testing.T) {
	f := newFixture(t)
	uc := NewUpdateBudgetUseCase(f.budgetRepo, f.categoryRepo, f.clock)
	ctx := context.Background()

	active := f.create(t, "active", june)
	pending := f.create(t, "pending", july)

	t.Run("pending period moves to the current month and activates", func(t *testing.T) {
		month := june
		out, err := uc.Execute(ctx, UpdateBudgetInput{UserID: f.user.ID, BudgetID: pending.ID, MonthIndex: &month})
		require.NoError(t, err)
		assert.Equal(t, entity.BudgetStatusActive, out.Budget.Status)
		assert.Equal(t, entity.BudgetStatusActive, testutil.BudgetStatusOf(t, f.db, pending.ID))
	})

	t.Run("active period is locked", func(t *testing.T) {
		month := july
		_, err := uc.Execute(ctx, UpdateBudgetInput{UserID: f.user.ID, BudgetID: active.ID, MonthIndex: &month})
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodePeriodLocked), domainerror.KindConflict)
	})

	t.Run("same month on active budget is accepted", func(t *testing.T) {
		month := june
		amount := decimal.NewFromInt(250)
		out, err := uc.Execute(ctx, UpdateBudgetInput{UserID: f.user.ID, BudgetID: active.ID, MonthIndex: &month, Amount: &amount})
		require.NoError(t, err)
		assert.True(t, amount.Equal(out.Budget.Amount))
	})

	t.Run("amount finer than cents", func(t *testing.T) {
		for _, raw := range []string{"0.001", "10.005"} {
			amount := decimal.RequireFromString(raw)
			_, err := uc.Execute(ctx, UpdateBudgetInput{UserID: f.user.ID, BudgetID: active.ID, Amount: &amount})
			testutil.AssertDomainError(t, err, string(domainerror.ErrCodeInvalidBudgetAmount), domainerror.KindValidation)
		}
	})

	t.Run("name taken by another budget", func(t *testing.T) {
		name := "pending"
		_, err := uc.Execute(ctx, UpdateBudgetInput{UserID: f.user.ID, BudgetID: active.ID, Name: &name})
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodeBudgetNameExists), domainerror.KindConflict)
	})

	t.Run("keeping its own name", func(t *testing.T) {
		name := "active"
		_, err := uc.Execute(ctx, UpdateBudgetInput{UserID: f.user.ID, BudgetID: active.ID, Name: &name})
		require.NoError(t, err)
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := uc.Execute(ctx, UpdateBudgetInput{UserID: f.user.ID, BudgetID: active.ID})
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodeMissingBudgetFields), domainerror.KindValidation)
	})

	t.Run("other owner", func(t *testing.T) {
		name := "x"
		_, err := uc.Execute(ctx, UpdateBudgetInput{UserID: uuid.New(), BudgetID: active.ID, Name: &name})
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodeBudgetNotFound), domainerror.KindNotFound)
	})
}

func TestDeleteBudgetUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	budget := f.create(t, "to delete", june)
	testutil.CreateTestTransaction(t, f.db, budget.ID, decimal.NewFromInt(10), f.clock.Now())

	uc := NewDeleteBudgetUseCase(f.budgetRepo)

	_, err := uc.Execute(ctx, DeleteBudgetInput{UserID: uuid.New(), BudgetID: budget.ID})
	testutil.AssertDomainError(t, err, string(domainerror.ErrCodeBudgetNotFound), domainerror.KindNotFound)

	out, err := uc.Execute(ctx, DeleteBudgetInput{UserID: f.user.ID, BudgetID: budget.ID})
	require.NoError(t, err)
	assert.True(t, out.Success)

	var remaining int64
	require.NoError(t, f.db.Table("transactions").Where("budget_id = ?", budget.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestListBudgetsUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "june", june)
	f.create(t, "july", july)

	uc := NewListBudgetsUseCase(f.budgetRepo, f.clock)

	month := july
	out, err := uc.Execute(ctx, ListBudgetsInput{UserID: f.user.ID, MonthIndex: &month})
	require.NoError(t, err)
	require.Len(t, out.Budgets, 1)
	assert.Equal(t, "july", out.Budgets[0].Name)

	active := entity.BudgetStatusActive
	out, err = uc.Execute(ctx, ListBudgetsInput{UserID: f.user.ID, Status: &active})
	require.NoError(t, err)
	require.Len(t, out.Budgets, 1)
	assert.Equal(t, "june", out.Budgets[0].Name)

	bogus := entity.BudgetStatus("ARCHIVED")
	_, err = uc.Execute(ctx, ListBudgetsInput{UserID: f.user.ID, Status: &bogus})
	testutil.AssertDomainError(t, err, string(domainerror.ErrCodeInvalidBudgetStatus), domainerror.KindValidation)
}

func TestGetBalanceUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewGetBalanceUseCase(f.budgetRepo)
	budget := f.create(t, "balance", june)

	out, err := uc.Execute(ctx, GetBalanceInput{UserID: f.user.ID, BudgetID: budget.ID})
	require.NoError(t, err)
	assert.Equal(t, "0", out.Balance.Spent.String())
	assert.Equal(t, "100", out.Balance.Remaining.String())
	assert.Equal(t, "100", out.Balance.RemainingPercentage.String())

	testutil.CreateTestTransaction(t, f.db, budget.ID, decimal.NewFromInt(70), f.clock.Now())
	testutil.CreateTestTransaction(t, f.db, budget.ID, decimal.NewFromInt(40), f.clock.Now())

	out, err = uc.Execute(ctx, GetBalanceInput{UserID: f.user.ID, BudgetID: budget.ID})
	require.NoError(t, err)
	assert.Equal(t, "110", out.Balance.Spent.String())
	assert.Equal(t, "110", out.Balance.SpentPercentage.String())
	assert.Equal(t, "0", out.Balance.Remaining.String())
	assert.Equal(t, "0", out.Balance.RemainingPercentage.String())

	_, err = uc.Execute(ctx, GetBalanceInput{UserID: uuid.New(), BudgetID: budget.ID})
	testutil.AssertDomainError(t, err, string(domainerror.ErrCodeBudgetNotFound), domainerror.KindNotFound)
}
