// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/application/usecase/lifecycle"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/infra/dependency"
	"github.com/budget-tracker/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	engine       *gin.Engine
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string
	saved          map[string]string

	// Auth
	users       map[string]*entity.User
	accessToken string

	// Collaborators
	cfg      *config.Config
	injector *dependency.Injector
	db       *mock.Db
	clock    *mock.Time
	emailAPI *mock.ApiMock

	// Lifecycle
	sweepResult *lifecycle.RunSweepOutput
	sweepErr    error

	// Alert stream
	stream *websocket.Conn
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

var emailAPI *mock.ApiMock

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		emailAPI = mock.NewApiServer()
		emailAPI.Start()
	})

	ctx.AfterSuite(func() {
		emailAPI.Close()
	})
}

func testConfig(resendURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		JWT:    config.JWTConfig{Secret: testJWTSecret, AccessTokenExpiry: time.Hour},
		Email: config.EmailConfig{
			ResendAPIKey:       "re_test_key",
			ResendBaseURL:      resendURL,
			FromName:           "Budget Tracker",
			FromEmail:          "alerts@budget-tracker.test",
			AlertsEnabled:      true,
			WorkerEnabled:      true,
			PollInterval:       time.Hour,
			BatchSize:          10,
			RetentionDays:      30,
			BreakerFailures:    5,
			BreakerOpenTimeout: time.Minute,
		},
		Scheduler: config.SchedulerConfig{Interval: time.Hour, LockTTL: time.Minute},
		Notification: config.NotificationConfig{
			WriteTimeout: 2 * time.Second,
			PingInterval: time.Minute,
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		db := mock.NewDb()
		if err := db.ClearDB(); err != nil {
			return ctx, err
		}
		redisClient := mock.NewRedis()
		if err := mock.ClearRedis(redisClient); err != nil {
			return ctx, err
		}
		emailAPI.ClearResponses()
		emailAPI.SetResponse(-1, http.MethodPost, "/emails", http.StatusOK, map[string]any{"id": "re_mock"})

		tc := &TestContext{
			requestHeaders: make(map[string]string),
			saved:          make(map[string]string),
			users:          make(map[string]*entity.User),
			cfg:            testConfig(emailAPI.GetUrl()),
			db:             db,
			clock:          mock.NewTime(),
			emailAPI:       emailAPI,
		}

		injector, err := dependency.NewInjector(tc.cfg, db.DbConn, dependency.Options{
			Clock: tc.clock,
			Redis: redisClient,
		})
		if err != nil {
			return ctx, fmt.Errorf("failed to wire application: %w", err)
		}
		tc.injector = injector
		tc.engine = injector.Router.Setup(tc.cfg.Server.Environment)
		tc.server = httptest.NewServer(tc.engine)

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc == nil {
			return ctx, nil
		}
		if tc.stream != nil {
			_ = tc.stream.Close()
		}
		if tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerBudgetSteps(ctx)
	registerAlertSteps(ctx)
}
