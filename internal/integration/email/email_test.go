package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/email/templates"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/testutil"
)

func alertInput(budgetID uuid.UUID) adapter.QueueBudgetAlertInput {
	return adapter.QueueBudgetAlertInput{
		UserEmail:       "ana@test.com",
		UserName:        "Ana",
		BudgetID:        budgetID,
		BudgetName:      "groceries",
		AlertKind:       "EIGHTY_PERCENT",
		Message:         "You are almost at your limit!",
		SpentPercentage: "85",
	}
}

func TestServiceAndWorker_SendBudgetAlert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	queue := persistence.NewEmailQueueRepository(db)
	clock := testutil.NewFixedClock(time.Date(2026, time.June, 10, 9, 0, 0, 0, time.UTC))
	service := NewService(queue, clock)
	ctx := context.Background()

	budgetID := uuid.New()
	require.NoError(t, service.QueueBudgetAlertEmail(ctx, alertInput(budgetID)))
	require.NoError(t, service.QueueBudgetAlertEmail(ctx, alertInput(budgetID)))

	jobs, err := queue.GetByRecipient(ctx, "ana@test.com")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.AlertDedupKey(budgetID, "EIGHTY_PERCENT", clock.Now()), jobs[0].DedupKey)

	renderer, err := templates.NewRenderer()
	require.NoError(t, err)
	sender := NewMockEmailSender()
	worker := NewWorker(queue, sender, renderer, DefaultWorkerConfig())

	// Jobs are picked up once their scheduled time has passed.
	time.Sleep(10 * time.Millisecond)
	worker.ProcessNow(ctx)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@test.com", sent[0].To)
	assert.Equal(t, "Budget alert: groceries", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "groceries")
	assert.Contains(t, sent[0].Text, "85%")

	job, err := queue.GetByID(ctx, jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmailStatusSent, job.Status)
	assert.Equal(t, "mock-1", job.ResendID)
}

func TestWorker_TemporaryFailureSchedulesRetry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	queue := persistence.NewEmailQueueRepository(db)
	ctx := context.Background()
	require.NoError(t, NewService(queue, nil).QueueBudgetAlertEmail(ctx, alertInput(uuid.New())))

	renderer, err := templates.NewRenderer()
	require.NoError(t, err)
	sender := NewMockEmailSender()
	sender.SetFailure(errors.New("503 service unavailable"), false)

	time.Sleep(10 * time.Millisecond)
	NewWorker(queue, sender, renderer, DefaultWorkerConfig()).ProcessNow(ctx)

	jobs, err := queue.GetByRecipient(ctx, "ana@test.com")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.EmailStatusPending, jobs[0].Status)
	assert.Equal(t, 1, jobs[0].Attempts)
}

func TestBreakerSender(t *testing.T) {
	sender := NewMockEmailSender()
	sender.SetFailure(errors.New("503 service unavailable"), false)
	breaker := NewBreakerSender(sender, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := breaker.Send(ctx, adapter.SendEmailInput{To: "a@test.com"})
		require.Error(t, err)
		assert.Equal(t, string(domainerror.ErrCodeTemporaryEmailFailure), domainerror.CodeOf(err))
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	sender.ClearFailure()
	_, err := breaker.Send(ctx, adapter.SendEmailInput{To: "a@test.com"})
	require.Error(t, err)
	assert.Equal(t, string(domainerror.ErrCodeEmailCircuitOpen), domainerror.CodeOf(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Empty(t, sender.Sent())
}

func TestBreakerSender_PermanentFailuresDoNotTrip(t *testing.T) {
	sender := NewMockEmailSender()
	sender.SetFailure(errors.New("422 validation error"), true)
	breaker := NewBreakerSender(sender, BreakerConfig{ConsecutiveFailures: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := breaker.Send(context.Background(), adapter.SendEmailInput{To: "a@test.com"})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}
