// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/alert"
	"github.com/budget-tracker/backend/internal/application/usecase/budget"
	"github.com/budget-tracker/backend/internal/application/usecase/category"
	"github.com/budget-tracker/backend/internal/application/usecase/lifecycle"
	"github.com/budget-tracker/backend/internal/application/usecase/transaction"
	"github.com/budget-tracker/backend/internal/infra/server/router"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/email"
	"github.com/budget-tracker/backend/internal/integration/email/templates"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/budget-tracker/backend/internal/integration/metrics"
	"github.com/budget-tracker/backend/internal/integration/notification"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/integration/scheduler"
)

// Options overrides collaborators, mostly for tests. Zero values use the production ones.
type Options struct {
	Clock       adapter.Clock
	EmailSender adapter.EmailSender
	Redis       *redis.Client
}

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *router.Router

	Hub         *notification.Hub
	Metrics     *metrics.Recorder
	EmailWorker *email.Worker
	Scheduler   *scheduler.LifecycleScheduler
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts Options) (*Injector, error) {
	clock := opts.Clock
	if clock == nil {
		clock = adapters.SystemClock{}
	}

	redisClient := opts.Redis
	if redisClient == nil && cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var recorder *metrics.Recorder
	var metricsRecorder adapter.MetricsRecorder = adapter.NopMetrics{}
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder(true)
		metricsRecorder = recorder
	}

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret)
	hub := notification.NewHub(tokenService, notification.HubConfig{
		WriteTimeout: cfg.Notification.WriteTimeout,
		PingInterval: cfg.Notification.PingInterval,
	})

	channels := []notification.Channel{{Name: "websocket", Dispatcher: hub}}

	sender := opts.EmailSender
	if sender == nil && cfg.Email.ResendAPIKey != "" {
		resendClient := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		if cfg.Email.ResendBaseURL != "" {
			if err := resendClient.SetBaseURL(cfg.Email.ResendBaseURL); err != nil {
				return nil, fmt.Errorf("invalid resend base url: %w", err)
			}
		}
		sender = resendClient
	}

	var emailWorker *email.Worker
	if cfg.Email.AlertsEnabled && sender != nil {
		emailService := email.NewService(emailQueueRepo, clock)
		channels = append(channels, notification.Channel{
			Name:       "email",
			Dispatcher: notification.NewEmailDispatcher(userRepo, emailService),
		})

		if cfg.Email.WorkerEnabled {
			renderer, err := templates.NewRenderer()
			if err != nil {
				return nil, fmt.Errorf("failed to load email templates: %w", err)
			}
			breaker := email.NewBreakerSender(sender, email.BreakerConfig{
				ConsecutiveFailures: cfg.Email.BreakerFailures,
				OpenTimeout:         cfg.Email.BreakerOpenTimeout,
			})
			workerConfig := email.DefaultWorkerConfig()
			workerConfig.PollInterval = cfg.Email.PollInterval
			workerConfig.BatchSize = cfg.Email.BatchSize
			workerConfig.RetentionDays = cfg.Email.RetentionDays
			emailWorker = email.NewWorker(emailQueueRepo, breaker, renderer, workerConfig)
		}
	} else {
		slog.Warn("Email alerts disabled", "alerts_enabled", cfg.Email.AlertsEnabled, "sender_configured", sender != nil)
	}

	dispatcher := notification.NewFallbackDispatcher(channels...)

	// Create alert and lifecycle use cases
	evaluateThresholdUseCase := alert.NewEvaluateThresholdUseCase(budgetRepo, dispatcher, clock, metricsRecorder)
	runSweepUseCase := lifecycle.NewRunSweepUseCase(budgetRepo, clock, metricsRecorder)

	// Create budget use cases
	createBudgetUseCase := budget.NewCreateBudgetUseCase(budgetRepo, categoryRepo, clock)
	listBudgetsUseCase := budget.NewListBudgetsUseCase(budgetRepo, clock)
	getBudgetUseCase := budget.NewGetBudgetUseCase(budgetRepo)
	updateBudgetUseCase := budget.NewUpdateBudgetUseCase(budgetRepo, categoryRepo, clock)
	deleteBudgetUseCase := budget.NewDeleteBudgetUseCase(budgetRepo)
	getBalanceUseCase := budget.NewGetBalanceUseCase(budgetRepo)

	// Create transaction use cases
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(budgetRepo, transactionRepo, evaluateThresholdUseCase, clock)
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(budgetRepo, transactionRepo)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(budgetRepo, transactionRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(budgetRepo, transactionRepo, evaluateThresholdUseCase, clock)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(budgetRepo, transactionRepo, evaluateThresholdUseCase)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)

	// Create controllers
	var redisHealth controller.HealthChecker
	if redisClient != nil {
		redisHealth = func(ctx context.Context) bool {
			return redisClient.Ping(ctx).Err() == nil
		}
	}
	healthController := controller.NewHealthController(func(ctx context.Context) bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.PingContext(ctx) == nil
	}, redisHealth)

	budgetController := controller.NewBudgetController(
		createBudgetUseCase,
		listBudgetsUseCase,
		getBudgetUseCase,
		updateBudgetUseCase,
		deleteBudgetUseCase,
		getBalanceUseCase,
	)

	transactionController := controller.NewTransactionController(
		createTransactionUseCase,
		listTransactionsUseCase,
		getTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
	)

	categoryController := controller.NewCategoryController(listCategoriesUseCase)
	alertStreamController := controller.NewAlertStreamController(hub, cfg.Notification.AllowedOrigins)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	routerOpts := router.Options{
		RateLimiter: middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitWindow),
	}
	if cfg.Server.Environment == "test" || cfg.Server.Environment == "e2e" {
		routerOpts.RateLimiter = nil
	}
	if recorder != nil {
		routerOpts.HTTPObserver = recorder
		routerOpts.MetricsHandler = recorder.Handler()
	}

	// Create lifecycle scheduler
	var sweepLock adapter.SweepLock = adapters.LocalSweepLock{}
	if redisClient != nil {
		sweepLock = adapters.NewRedisSweepLock(redisClient, "")
	}
	lifecycleScheduler := scheduler.NewLifecycleScheduler(runSweepUseCase, sweepLock, clock, scheduler.Config{
		Interval:   cfg.Scheduler.Interval,
		LockTTL:    cfg.Scheduler.LockTTL,
		RunOnStart: cfg.Scheduler.RunOnStart,
	})

	// Create router
	r := router.NewRouter(
		healthController,
		budgetController,
		transactionController,
		categoryController,
		alertStreamController,
		authMiddleware,
		routerOpts,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      r,
		Hub:         hub,
		Metrics:     recorder,
		EmailWorker: emailWorker,
		Scheduler:   lifecycleScheduler,
	}, nil
}

// Close releases the connections opened by the injector.
func (i *Injector) Close() error {
	if i.Redis != nil {
		return i.Redis.Close()
	}
	return nil
}
