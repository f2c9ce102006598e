// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/middleware"
)

// statusForKind maps a domain error kind to an HTTP status.
func statusForKind(kind domainerror.Kind) int {
	switch kind {
	case domainerror.KindValidation:
		return http.StatusBadRequest
	case domainerror.KindNotFound:
		return http.StatusNotFound
	case domainerror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err as an ErrorResponse. Internal errors hide their cause.
func handleError(ctx *gin.Context, err error) {
	kind := domainerror.KindOf(err)
	code := domainerror.CodeOf(err)

	if kind == domainerror.KindInternal {
		slog.ErrorContext(ctx.Request.Context(), "Request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"code", code,
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Internal server error",
			Code:  code,
		})
		return
	}

	ctx.JSON(statusForKind(kind), dto.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}

// requireUser returns the authenticated user or writes a 401.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// uuidParam parses the named path parameter or writes a 400.
func uuidParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID parses s when set.
func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp, in UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func badRequest(ctx *gin.Context, message, code, details string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
