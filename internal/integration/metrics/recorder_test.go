package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

func TestRecorder_DomainCounters(t *testing.T) {
	r := NewRecorder(false)

	r.AlertEmitted(valueobject.AlertFiftyPercent)
	r.AlertEmitted(valueobject.AlertFiftyPercent)
	r.AlertDropped(valueobject.AlertHundredPercent)
	r.BudgetsTransitioned(entity.BudgetStatusActive, 3)
	r.BudgetsTransitioned(entity.BudgetStatusCompleted, 0)
	r.SweepBatchFailed("activate")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.alertsEmitted.WithLabelValues("FIFTY_PERCENT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.alertsDropped.WithLabelValues("HUNDRED_PERCENT")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.budgetsTransitioned.WithLabelValues("ACTIVE")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.budgetsTransitioned))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sweepBatchFailures.WithLabelValues("activate")))
}

func TestRecorder_HTTPAndHandler(t *testing.T) {
	r := NewRecorder(false)

	r.ObserveHTTP(http.MethodGet, "/api/v1/budgets", http.StatusOK, 20*time.Millisecond)
	r.ObserveHTTP(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/api/v1/budgets", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "unmatched", "404")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "budget_tracker_http_request_duration_seconds"))
}
