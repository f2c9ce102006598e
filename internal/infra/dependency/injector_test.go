package dependency

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/config"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/email"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/budget-tracker/backend/internal/testutil"
)

const testSecret = "injector-secret"

type apiFixture struct {
	engine   *gin.Engine
	injector *Injector
	clock    *testutil.FixedClock
	sender   *email.MockEmailSender
	token    string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	clock := testutil.NewFixedClock(time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC))
	sender := email.NewMockEmailSender()

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		JWT:    config.JWTConfig{Secret: testSecret, AccessTokenExpiry: time.Hour},
		Email: config.EmailConfig{
			AlertsEnabled:      true,
			WorkerEnabled:      true,
			PollInterval:       time.Hour,
			BatchSize:          10,
			RetentionDays:      30,
			BreakerFailures:    5,
			BreakerOpenTimeout: time.Minute,
		},
		Scheduler: config.SchedulerConfig{Interval: time.Hour, LockTTL: time.Minute},
		Metrics:   config.MetricsConfig{Enabled: true},
	}

	injector, err := NewInjector(cfg, db, Options{Clock: clock, EmailSender: sender})
	require.NoError(t, err)
	t.Cleanup(func() { _ = injector.Close() })

	token, err := adapters.NewTokenService(testSecret).GenerateAccessToken(user.ID, user.Email, time.Hour)
	require.NoError(t, err)

	return &apiFixture{
		engine:   injector.Router.Setup("test"),
		injector: injector,
		clock:    clock,
		sender:   sender,
		token:    token,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestAPI_BudgetLifecycleWithAlerts(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	var created dto.BudgetResponse
	status := f.do(t, http.MethodPost, "/api/v1/budgets", map[string]any{
		"name":          "Groceries",
		"category_name": "Food",
		"amount":        "200",
		"month_index":   5,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ACTIVE", created.Status)
	assert.Equal(t, "200.00", created.Amount)
	require.NotNil(t, created.Category)
	assert.Equal(t, "food", created.Category.Name)

	txPath := "/api/v1/budgets/" + created.ID + "/transactions"

	var write dto.TransactionWriteResponse
	status = f.do(t, http.MethodPost, txPath, map[string]any{
		"amount":      "110",
		"date":        "2026-06-05",
		"description": "market",
	}, &write)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, write.Alert)
	assert.Equal(t, "FIFTY_PERCENT", write.Alert.Kind)
	assert.Equal(t, "55.00", write.Alert.SpentPercentage)

	// No stream is open, so the alert went to the email queue.
	f.injector.EmailWorker.ProcessNow(ctx)
	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "Groceries")

	var balance dto.BalanceResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/budgets/"+created.ID+"/balance", nil, &balance))
	assert.Equal(t, "110.00", balance.Spent)
	assert.Equal(t, "55.00", balance.SpentPercentage)
	assert.Equal(t, "90.00", balance.Remaining)
	assert.Equal(t, "45.00", balance.RemainingPercentage)

	var listed dto.TransactionListResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, txPath+"?min_day=1&max_day=10", nil, &listed))
	assert.Len(t, listed.Transactions, 1)

	var errResp dto.ErrorResponse
	status = f.do(t, http.MethodPost, txPath, map[string]any{"amount": "5", "date": "2026-07-02"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(domainerror.ErrCodeTransactionOutsidePeriod), errResp.Code)

	// Month rollover completes the budget; writes are then rejected.
	f.clock.Set(time.Date(2026, time.July, 1, 0, 1, 0, 0, time.UTC))
	out, err := f.injector.Scheduler.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Completed)

	status = f.do(t, http.MethodPost, txPath, map[string]any{"amount": "5", "date": "2026-06-20"}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, string(domainerror.ErrCodeTxnBudgetNotActive), errResp.Code)

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `budget_tracker_alerts_emitted_total{kind="FIFTY_PERCENT"} 1`))
	assert.True(t, strings.Contains(rec.Body.String(), `budget_tracker_budgets_transitioned_total{status="COMPLETED"} 1`))
}

func TestAPI_Errors(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "past month",
			method:     http.MethodPost,
			path:       "/api/v1/budgets",
			body:       map[string]any{"name": "Old", "category_name": "food", "amount": "10", "month_index": 4},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeMonthInPast),
		},
		{
			name:       "non-positive amount",
			method:     http.MethodPost,
			path:       "/api/v1/budgets",
			body:       map[string]any{"name": "Zero", "category_name": "food", "amount": "0", "month_index": 6},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeInvalidBudgetAmount),
		},
		{
			name:       "missing fields",
			method:     http.MethodPost,
			path:       "/api/v1/budgets",
			body:       map[string]any{"name": "NoAmount"},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeMissingBudgetFields),
		},
		{
			name:       "unknown budget",
			method:     http.MethodGet,
			path:       "/api/v1/budgets/6f1c2a52-7a0c-4b8e-9a43-0d2f0f6c1b11",
			wantStatus: http.StatusNotFound,
			wantCode:   string(domainerror.ErrCodeBudgetNotFound),
		},
		{
			name:       "malformed budget id",
			method:     http.MethodGet,
			path:       "/api/v1/budgets/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp dto.ErrorResponse
			status := f.do(t, tt.method, tt.path, tt.body, &resp)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		f.token = ""
		var resp dto.ErrorResponse
		assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/v1/budgets", nil, &resp))
		assert.Equal(t, string(domainerror.ErrCodeMissingToken), resp.Code)
	})
}

func TestAPI_CategoriesAndHealth(t *testing.T) {
	f := newAPIFixture(t)

	var categories dto.CategoryListResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/categories", nil, &categories))
	assert.Len(t, categories.Categories, 10)

	var health map[string]string
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "connected", health["database"])
	assert.Equal(t, "disabled", health["redis"])
}
