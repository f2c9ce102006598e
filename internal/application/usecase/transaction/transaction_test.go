package transaction

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
	"github.com/budget-tracker/backend/internal/application/usecase/alert"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/testutil"
)

var now = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db              *gorm.DB
	clock           *testutil.FixedClock
	dispatcher      *testutil.RecordingDispatcher
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	evaluator       *alert.EvaluateThresholdUseCase
	user            *entity.User
	budget          *entity.Budget
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, "food")
	clock := testutil.NewFixedClock(now)
	dispatcher := &testutil.RecordingDispatcher{}
	budgetRepo := persistence.NewBudgetRepository(db)

	return &fixture{
		db:              db,
		clock:           clock,
		dispatcher:      dispatcher,
		budgetRepo:      budgetRepo,
		transactionRepo: persistence.NewTransactionRepository(db),
		evaluator:       alert.NewEvaluateThresholdUseCase(budgetRepo, dispatcher, clock, nil),
		user:            user,
		budget: testutil.CreateTestBudget(t, db, testutil.BudgetFixture{
			UserID: user.ID, CategoryID: category.ID, Name: "groceries", Month: now,
		}),
	}
}

func (f *fixture) createUseCase() *CreateTransactionUseCase {
	return NewCreateTransactionUseCase(f.budgetRepo, f.transactionRepo, f.evaluator, f.clock)
}

func (f *fixture) add(t *testing.T, amount int64) *CreateTransactionOutput {
	t.Helper()
	out, err := f.createUseCase().Execute(context.Background(), CreateTransactionInput{
		UserID:   f.user.ID,
		BudgetID: f.budget.ID,
		Amount:   decimal.NewFromInt(amount),
		Date:     now.Add(-time.Hour),
	})
	require.NoError(t, err)
	return out
}

func TestCreateTransactionUseCase_FiresAlert(t *testing.T) {
	f := newFixture(t)

	first := f.add(t, 40)
	assert.Nil(t, first.Alert)

	second := f.add(t, 15)
	require.NotNil(t, second.Alert)
	assert.Equal(t, valueobject.AlertFiftyPercent, second.Alert.Kind)
	assert.Equal(t, "groceries", second.Alert.BudgetName)

	third := f.add(t, 50)
	require.NotNil(t, third.Alert)
	assert.Equal(t, valueobject.AlertHundredPercent, third.Alert.Kind)

	assert.Len(t, f.dispatcher.Sent(), 2)
}

func TestCreateTransactionUseCase_StampsWithClock(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(now.Add(30 * time.Minute))

	out := f.add(t, 10)
	assert.True(t, now.Add(30*time.Minute).Equal(out.Transaction.CreatedAt))

	stored, err := f.transactionRepo.FindByID(context.Background(), out.Transaction.ID, f.budget.ID)
	require.NoError(t, err)
	assert.True(t, now.Add(30*time.Minute).Equal(stored.CreatedAt.UTC()))
}

func TestCreateTransactionUseCase_DispatchFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Err = domainerror.ErrNoRecipient

	out := f.add(t, 120)
	require.NotNil(t, out.Transaction)
	require.NotNil(t, out.Alert)

	list, err := f.transactionRepo.ListForBudget(context.Background(), f.budget.ID, entity.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateTransactionUseCase_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.createUseCase()

	category := testutil.CreateTestCategory(t, f.db, f.user.ID, "travel")
	pending := testutil.CreateTestBudget(t, f.db, testutil.BudgetFixture{
		UserID: f.user.ID, CategoryID: category.ID, Month: now.AddDate(0, 1, 0), Status: entity.BudgetStatusPending,
	})
	completed := testutil.CreateTestBudget(t, f.db, testutil.BudgetFixture{
		UserID: f.user.ID, CategoryID: category.ID, Month: now.AddDate(0, -1, 0), Status: entity.BudgetStatusCompleted,
	})

	tests := []struct {
		name         string
		input        CreateTransactionInput
		expectedCode domainerror.TransactionErrorCode
		expectedKind domainerror.Kind
	}{
		{
			name:         "before period",
			input:        CreateTransactionInput{BudgetID: f.budget.ID, Amount: decimal.NewFromInt(1), Date: f.budget.StartDate.Add(-time.Second)},
			expectedCode: domainerror.ErrCodeTransactionOutsidePeriod,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "after period",
			input:        CreateTransactionInput{BudgetID: f.budget.ID, Amount: decimal.NewFromInt(1), Date: f.budget.EndDate.Add(time.Second)},
			expectedCode: domainerror.ErrCodeTransactionOutsidePeriod,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "in the future",
			input:        CreateTransactionInput{BudgetID: f.budget.ID, Amount: decimal.NewFromInt(1), Date: now.Add(time.Hour)},
			expectedCode: domainerror.ErrCodeTransactionInFuture,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "zero amount",
			input:        CreateTransactionInput{BudgetID: f.budget.ID, Amount: decimal.Zero, Date: now},
			expectedCode: domainerror.ErrCodeInvalidTransactionAmount,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "fraction of a cent",
			input:        CreateTransactionInput{BudgetID: f.budget.ID, Amount: decimal.RequireFromString("0.001"), Date: now},
			expectedCode: domainerror.ErrCodeInvalidTransactionAmount,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "three decimal places",
			input:        CreateTransactionInput{BudgetID: f.budget.ID, Amount: decimal.RequireFromString("10.005"), Date: now},
			expectedCode: domainerror.ErrCodeInvalidTransactionAmount,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "pending budget",
			input:        CreateTransactionInput{BudgetID: pending.ID, Amount: decimal.NewFromInt(1), Date: now},
			expectedCode: domainerror.ErrCodeTxnBudgetNotActive,
			expectedKind: domainerror.KindConflict,
		},
		{
			name:         "completed budget",
			input:        CreateTransactionInput{BudgetID: completed.ID, Amount: decimal.NewFromInt(1), Date: now},
			expectedCode: domainerror.ErrCodeTxnBudgetNotActive,
			expectedKind: domainerror.KindConflict,
		},
		{
			name:         "unknown budget",
			input:        CreateTransactionInput{BudgetID: uuid.New(), Amount: decimal.NewFromInt(1), Date: now},
			expectedCode: domainerror.ErrCodeTxnBudgetNotFound,
			expectedKind: domainerror.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = f.user.ID
			_, err := uc.Execute(ctx, tt.input)
			testutil.AssertDomainError(t, err, string(tt.expectedCode), tt.expectedKind)
		})
	}
}

func TestUpdateTransactionUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewUpdateTransactionUseCase(f.budgetRepo, f.transactionRepo, f.evaluator, f.clock)

	created := f.add(t, 40)

	t.Run("net increase crosses fifty", func(t *testing.T) {
		amount := decimal.NewFromInt(55)
		out, err := uc.Execute(ctx, UpdateTransactionInput{
			UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: created.Transaction.ID, Amount: &amount,
		})
		require.NoError(t, err)
		require.NotNil(t, out.Alert)
		assert.Equal(t, valueobject.AlertFiftyPercent, out.Alert.Kind)
	})

	t.Run("decrease never fires", func(t *testing.T) {
		amount := decimal.NewFromInt(10)
		out, err := uc.Execute(ctx, UpdateTransactionInput{
			UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: created.Transaction.ID, Amount: &amount,
		})
		require.NoError(t, err)
		assert.Nil(t, out.Alert)
	})

	t.Run("description only", func(t *testing.T) {
		description := "weekly shop"
		out, err := uc.Execute(ctx, UpdateTransactionInput{
			UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: created.Transaction.ID, Description: &description,
		})
		require.NoError(t, err)
		assert.Equal(t, "weekly shop", out.Transaction.Description)
		assert.Nil(t, out.Alert)
	})

	t.Run("amount finer than cents", func(t *testing.T) {
		amount := decimal.RequireFromString("10.005")
		_, err := uc.Execute(ctx, UpdateTransactionInput{
			UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: created.Transaction.ID, Amount: &amount,
		})
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodeInvalidTransactionAmount), domainerror.KindValidation)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		amount := decimal.NewFromInt(1)
		_, err := uc.Execute(ctx, UpdateTransactionInput{
			UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: uuid.New(), Amount: &amount,
		})
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodeTransactionNotFound), domainerror.KindNotFound)
	})

	t.Run("budget completed in the meantime", func(t *testing.T) {
		require.NoError(t, f.db.Exec("UPDATE budgets SET status = ? WHERE id = ?", entity.BudgetStatusCompleted, f.budget.ID).Error)
		amount := decimal.NewFromInt(1)
		_, err := uc.Execute(ctx, UpdateTransactionInput{
			UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: created.Transaction.ID, Amount: &amount,
		})
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodeTxnBudgetNotActive), domainerror.KindConflict)
	})
}

func TestDeleteTransactionUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewDeleteTransactionUseCase(f.budgetRepo, f.transactionRepo, f.evaluator)

	created := f.add(t, 90)
	sentBefore := len(f.dispatcher.Sent())

	out, err := uc.Execute(ctx, DeleteTransactionInput{UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: created.Transaction.ID})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Len(t, f.dispatcher.Sent(), sentBefore)

	_, err = uc.Execute(ctx, DeleteTransactionInput{UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: created.Transaction.ID})
	testutil.AssertDomainError(t, err, string(domainerror.ErrCodeTransactionNotFound), domainerror.KindNotFound)
}

func TestListAndGetTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2026, time.June, d, 8, 0, 0, 0, time.UTC) }
	testutil.CreateTestTransaction(t, f.db, f.budget.ID, decimal.NewFromInt(5), day(1))
	mid := testutil.CreateTestTransaction(t, f.db, f.budget.ID, decimal.NewFromInt(25), day(4))
	testutil.CreateTestTransaction(t, f.db, f.budget.ID, decimal.NewFromInt(60), day(9))

	list := NewListTransactionsUseCase(f.budgetRepo, f.transactionRepo)

	minDay, maxDay := 2, 8
	out, err := list.Execute(ctx, ListTransactionsInput{UserID: f.user.ID, BudgetID: f.budget.ID, MinDay: &minDay, MaxDay: &maxDay})
	require.NoError(t, err)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, mid.ID, out.Transactions[0].ID)

	lastDay := 31
	out, err = list.Execute(ctx, ListTransactionsInput{UserID: f.user.ID, BudgetID: f.budget.ID, MaxDay: &lastDay})
	require.NoError(t, err)
	assert.Len(t, out.Transactions, 3)

	minAmount := decimal.NewFromInt(20)
	out, err = list.Execute(ctx, ListTransactionsInput{UserID: f.user.ID, BudgetID: f.budget.ID, MinAmount: &minAmount})
	require.NoError(t, err)
	assert.Len(t, out.Transactions, 2)

	_, err = list.Execute(ctx, ListTransactionsInput{UserID: f.user.ID, BudgetID: f.budget.ID, MinDay: &maxDay, MaxDay: &minDay})
	testutil.AssertDomainError(t, err, string(domainerror.ErrCodeInvalidTransactionFilter), domainerror.KindValidation)

	get := NewGetTransactionUseCase(f.budgetRepo, f.transactionRepo)
	got, err := get.Execute(ctx, GetTransactionInput{UserID: f.user.ID, BudgetID: f.budget.ID, TransactionID: mid.ID})
	require.NoError(t, err)
	assert.Equal(t, "25", got.Transaction.Amount.String())

	_, err = get.Execute(ctx, GetTransactionInput{UserID: uuid.New(), BudgetID: f.budget.ID, TransactionID: mid.ID})
	testutil.AssertDomainError(t, err, string(domainerror.ErrCodeTxnBudgetNotFound), domainerror.KindNotFound)
}
