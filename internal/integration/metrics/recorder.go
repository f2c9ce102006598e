// Package metrics exposes Prometheus counters for budgets, alerts and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

const namespace = "budget_tracker"

// Recorder holds every collector of the service on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	alertsEmitted       *prometheus.CounterVec
	alertsDropped       *prometheus.CounterVec
	budgetsTransitioned *prometheus.CounterVec
	sweepBatchFailures  *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// NewRecorder creates a recorder. Runtime collectors are included when withRuntime is set.
func NewRecorder(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		alertsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_emitted_total",
				Help:      "Threshold alerts delivered by kind",
			},
			[]string{"kind"},
		),

		alertsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_dropped_total",
				Help:      "Threshold alerts that no channel delivered, by kind",
			},
			[]string{"kind"},
		),

		budgetsTransitioned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budgets_transitioned_total",
				Help:      "Budgets moved by the lifecycle sweep, by target status",
			},
			[]string{"status"},
		),

		sweepBatchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_batch_failures_total",
				Help:      "Lifecycle sweep batches that failed, by batch",
			},
			[]string{"batch"},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
	}

	r.registry.MustRegister(
		r.alertsEmitted,
		r.alertsDropped,
		r.budgetsTransitioned,
		r.sweepBatchFailures,
		r.httpRequests,
		r.httpDuration,
	)
	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return r
}

// AlertEmitted counts a delivered alert.
func (r *Recorder) AlertEmitted(kind valueobject.AlertKind) {
	r.alertsEmitted.WithLabelValues(string(kind)).Inc()
}

// AlertDropped counts an undelivered alert.
func (r *Recorder) AlertDropped(kind valueobject.AlertKind) {
	r.alertsDropped.WithLabelValues(string(kind)).Inc()
}

// BudgetsTransitioned adds count budgets moved to status.
func (r *Recorder) BudgetsTransitioned(to entity.BudgetStatus, count int64) {
	if count <= 0 {
		return
	}
	r.budgetsTransitioned.WithLabelValues(string(to)).Add(float64(count))
}

// SweepBatchFailed counts a failed sweep batch.
func (r *Recorder) SweepBatchFailed(batch string) {
	r.sweepBatchFailures.WithLabelValues(batch).Inc()
}

// ObserveHTTP records one served request. An empty route is reported as "unmatched".
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

var _ adapter.MetricsRecorder = (*Recorder)(nil)
