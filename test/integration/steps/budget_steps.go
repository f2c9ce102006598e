package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
	"github.com/budget-tracker/backend/internal/integration/scheduler"
	"github.com/budget-tracker/backend/test/integration/mock"
)

// registerBudgetSteps registers lifecycle and storage steps.
func registerBudgetSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the lifecycle sweep runs$`, theLifecycleSweepRuns)
	ctx.Step(`^the sweep lock is held by another instance$`, theSweepLockIsHeldByAnotherInstance)
	ctx.Step(`^the sweep should report (\d+) activated and (\d+) completed budgets?$`, theSweepShouldReport)
	ctx.Step(`^the sweep should be skipped$`, theSweepShouldBeSkipped)
	ctx.Step(`^the budget "([^"]*)" should have status "([^"]*)"$`, theBudgetShouldHaveStatus)
	ctx.Step(`^the db should contain (\d+) objects? in the "([^"]*)" table$`, theDbShouldContainObjectsInTheTable)
}

func theLifecycleSweepRuns(ctx context.Context) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	tc.sweepResult, tc.sweepErr = tc.injector.Scheduler.RunNow(ctx)
	return nil
}

func theSweepLockIsHeldByAnotherInstance(ctx context.Context) error {
	server := mock.RedisServer()
	if err := server.Set(adapters.DefaultSweepLockKey, "other-instance"); err != nil {
		return err
	}
	server.SetTTL(adapters.DefaultSweepLockKey, time.Minute)
	return nil
}

func theSweepShouldReport(ctx context.Context, activated, completed int) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	if tc.sweepErr != nil {
		return fmt.Errorf("sweep failed: %w", tc.sweepErr)
	}
	if tc.sweepResult.Activated != int64(activated) || tc.sweepResult.Completed != int64(completed) {
		return fmt.Errorf("expected %d activated and %d completed, got %d and %d",
			activated, completed, tc.sweepResult.Activated, tc.sweepResult.Completed)
	}
	return nil
}

func theSweepShouldBeSkipped(ctx context.Context) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	if !errors.Is(tc.sweepErr, scheduler.ErrSweepLocked) {
		return fmt.Errorf("expected the sweep to be skipped, got result %+v and error %v", tc.sweepResult, tc.sweepErr)
	}
	return nil
}

func theBudgetShouldHaveStatus(ctx context.Context, name, status string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	var budget model.BudgetModel
	if err := tc.db.DbConn.Where("name = ?", name).First(&budget).Error; err != nil {
		return fmt.Errorf("budget %s not found: %w", name, err)
	}
	if budget.Status != status {
		return fmt.Errorf("budget %s expected status %s, got %s", name, status, budget.Status)
	}
	return nil
}

func theDbShouldContainObjectsInTheTable(ctx context.Context, quantity int, table string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	m, ok := tc.db.GetModel(table)
	if !ok {
		return fmt.Errorf("unknown table %s", table)
	}
	var count int64
	if err := tc.db.DbConn.Model(m).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d rows in %s, got %d", quantity, table, count)
	}
	return nil
}
