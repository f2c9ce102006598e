package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/internal/application/usecase/lifecycle"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/testutil"
)

type countingSweeper struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (s *countingSweeper) Execute(_ context.Context, input lifecycle.RunSweepInput) (*lifecycle.RunSweepOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, input.Now)
	return &lifecycle.RunSweepOutput{Now: input.Now}, s.err
}

func (s *countingSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newRedisLock(t *testing.T) (*adapters.RedisSweepLock, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return adapters.NewRedisSweepLock(client, ""), mr, client
}

var now = time.Date(2026, time.June, 1, 0, 5, 0, 0, time.UTC)

func TestRunNow_UsesClockAndReleasesLock(t *testing.T) {
	lock, mr, _ := newRedisLock(t)
	sweeper := &countingSweeper{}
	s := NewLifecycleScheduler(sweeper, lock, testutil.NewFixedClock(now), Config{})

	out, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Now.Equal(now))
	assert.Equal(t, 1, sweeper.count())
	assert.False(t, mr.Exists(adapters.DefaultSweepLockKey))
}

func TestRunNow_SkipsWhenLockHeld(t *testing.T) {
	lock, _, client := newRedisLock(t)
	other := adapters.NewRedisSweepLock(client, "")
	ok, err := other.Acquire(context.Background(), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	sweeper := &countingSweeper{}
	s := NewLifecycleScheduler(sweeper, lock, testutil.NewFixedClock(now), Config{})

	_, err = s.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrSweepLocked)
	assert.Equal(t, 0, sweeper.count())
}

func TestRunNow_ReleasesLockOnSweepError(t *testing.T) {
	lock, mr, _ := newRedisLock(t)
	sweeper := &countingSweeper{err: errors.New("store down")}
	s := NewLifecycleScheduler(sweeper, lock, testutil.NewFixedClock(now), Config{})

	_, err := s.RunNow(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists(adapters.DefaultSweepLockKey))
}

func TestStart_RunsOnStartAndOnTicks(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewLifecycleScheduler(sweeper, adapters.LocalSweepLock{}, testutil.NewFixedClock(now), Config{
		Interval:   10 * time.Millisecond,
		RunOnStart: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestRunNow_DrivesLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, "food")

	may := time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC)
	ended := testutil.CreateTestBudget(t, db, testutil.BudgetFixture{UserID: user.ID, CategoryID: category.ID, Month: may})
	starting := testutil.CreateTestBudget(t, db, testutil.BudgetFixture{UserID: user.ID, CategoryID: category.ID, Month: now, Status: entity.BudgetStatusPending})

	clock := testutil.NewFixedClock(now)
	sweep := lifecycle.NewRunSweepUseCase(persistence.NewBudgetRepository(db), clock, nil)
	s := NewLifecycleScheduler(sweep, adapters.LocalSweepLock{}, clock, Config{})

	out, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Activated)
	assert.Equal(t, int64(1), out.Completed)
	assert.Equal(t, entity.BudgetStatusCompleted, testutil.BudgetStatusOf(t, db, ended.ID))
	assert.Equal(t, entity.BudgetStatusActive, testutil.BudgetStatusOf(t, db, starting.ID))
}
