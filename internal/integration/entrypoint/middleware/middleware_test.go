package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthenticate(t *testing.T) {
	tokens := adapters.NewTokenService("mw-secret")
	userID := uuid.New()
	valid, err := tokens.GenerateAccessToken(userID, "ana@test.com", time.Hour)
	require.NoError(t, err)
	expired, err := tokens.GenerateAccessToken(userID, "ana@test.com", -time.Minute)
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/me", NewAuthMiddleware(tokens).Authenticate(), func(c *gin.Context) {
		id, ok := GetUserIDFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   domainerror.AuthErrorCode
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeMissingToken},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeInvalidToken},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeMissingToken},
		{name: "garbage token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeInvalidToken},
		{name: "expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeExpiredToken},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
				return
			}
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.wantCode), resp.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	current := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	engine := gin.New()
	engine.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() int {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())

	current = current.Add(2 * time.Minute)
	assert.Equal(t, http.StatusOK, do())

	current = current.Add(2 * time.Minute)
	rl.Cleanup()
	assert.Empty(t, rl.entries)
}

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu  sync.Mutex
	got []observation
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, observation{method, route, status})
}

func TestMetrics_ReportsRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}
	engine := gin.New()
	engine.Use(Metrics(observer))
	engine.GET("/budgets/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/budgets/"+uuid.NewString(), nil))

	require.Len(t, observer.got, 1)
	assert.Equal(t, observation{http.MethodGet, "/budgets/:id", http.StatusNoContent}, observer.got[0])
}
