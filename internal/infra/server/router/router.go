// Package router sets up the HTTP routing for the application.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	budgetController      *controller.BudgetController
	transactionController *controller.TransactionController
	categoryController    *controller.CategoryController
	alertStreamController *controller.AlertStreamController
	authMiddleware        *middleware.AuthMiddleware
	rateLimiter           *middleware.RateLimiter
	httpObserver          middleware.HTTPObserver
	metricsHandler        http.Handler
}

// Options holds the optional router collaborators. Nil values disable the feature.
type Options struct {
	RateLimiter    *middleware.RateLimiter
	HTTPObserver   middleware.HTTPObserver
	MetricsHandler http.Handler
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	budgetController *controller.BudgetController,
	transactionController *controller.TransactionController,
	categoryController *controller.CategoryController,
	alertStreamController *controller.AlertStreamController,
	authMiddleware *middleware.AuthMiddleware,
	opts Options,
) *Router {
	return &Router{
		healthController:      healthController,
		budgetController:      budgetController,
		transactionController: transactionController,
		categoryController:    categoryController,
		alertStreamController: alertStreamController,
		authMiddleware:        authMiddleware,
		rateLimiter:           opts.RateLimiter,
		httpObserver:          opts.HTTPObserver,
		metricsHandler:        opts.MetricsHandler,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()
	if r.httpObserver != nil {
		r.engine.Use(middleware.Metrics(r.httpObserver))
	}

	r.setupOperationalRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupOperationalRoutes configures health and metrics endpoints.
func (r *Router) setupOperationalRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// authenticated returns the middleware chain of protected routes.
func (r *Router) authenticated() []gin.HandlerFunc {
	chain := []gin.HandlerFunc{r.authMiddleware.Authenticate()}
	if r.rateLimiter != nil {
		chain = append(chain, r.rateLimiter.Middleware())
	}
	return chain
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	// The stream authenticates with its register frame.
	if r.alertStreamController != nil {
		v1.GET("/alerts/ws", r.alertStreamController.Stream)
	}

	budgets := v1.Group("/budgets")
	budgets.Use(r.authenticated()...)
	{
		budgets.POST("", r.budgetController.Create)
		budgets.GET("", r.budgetController.List)
		budgets.GET("/:id", r.budgetController.Get)
		budgets.PATCH("/:id", r.budgetController.Update)
		budgets.DELETE("/:id", r.budgetController.Delete)
		budgets.GET("/:id/balance", r.budgetController.Balance)

		budgets.POST("/:id/transactions", r.transactionController.Create)
		budgets.GET("/:id/transactions", r.transactionController.List)
		budgets.GET("/:id/transactions/:txId", r.transactionController.Get)
		budgets.PATCH("/:id/transactions/:txId", r.transactionController.Update)
		budgets.DELETE("/:id/transactions/:txId", r.transactionController.Delete)
	}

	categories := v1.Group("/categories")
	categories.Use(r.authenticated()...)
	{
		categories.GET("", r.categoryController.List)
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
