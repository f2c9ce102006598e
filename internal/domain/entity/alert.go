package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// AlertEvent is a threshold notification for a budget owner. It is not persisted.
type AlertEvent struct {
	Kind            valueobject.AlertKind `json:"alert_kind"`
	BudgetID        uuid.UUID             `json:"budget_id"`
	BudgetName      string                `json:"budget_name"`
	Message         string                `json:"message"`
	UserID          uuid.UUID             `json:"target_user_id"`
	SpentPercentage decimal.Decimal       `json:"spent_percentage"`
	OccurredAt      time.Time             `json:"occurred_at"`
}

// NewAlertEvent builds the event for a crossing on budget.
func NewAlertEvent(budget *Budget, crossing valueobject.Crossing, now time.Time) *AlertEvent {
	return &AlertEvent{
		Kind:            crossing.Kind,
		BudgetID:        budget.ID,
		BudgetName:      budget.Name,
		Message:         crossing.Kind.Message(),
		UserID:          budget.UserID,
		SpentPercentage: crossing.AfterPercent.Round(2),
		OccurredAt:      now.UTC(),
	}
}
