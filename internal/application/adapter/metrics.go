package adapter

import (
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// MetricsRecorder receives domain counters.
type MetricsRecorder interface {
	AlertEmitted(kind valueobject.AlertKind)
	AlertDropped(kind valueobject.AlertKind)
	BudgetsTransitioned(to entity.BudgetStatus, count int64)
	SweepBatchFailed(batch string)
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

func (NopMetrics) AlertEmitted(valueobject.AlertKind)             {}
func (NopMetrics) AlertDropped(valueobject.AlertKind)             {}
func (NopMetrics) BudgetsTransitioned(entity.BudgetStatus, int64) {}
func (NopMetrics) SweepBatchFailed(string)                        {}
