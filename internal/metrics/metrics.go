// Package metrics provides Prometheus collectors for the FinSafe web client.
//
// Labels never carry user, session or request identifiers.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finsafe"

var (
	// HTTPRequestsTotal counts served requests by route pattern and status class.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes handler latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP handler latency, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// APIRequestsTotal counts calls to the FinSafe API by operation and outcome.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total FinSafe API calls, by operation and status (or 'error' for transport failures).",
	}, []string{"operation", "status"})

	// APIRequestDuration observes FinSafe API latency by operation.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "FinSafe API call latency, by operation.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	}, []string{"operation"})

	// RateLimitRejectionsTotal counts rejected requests per limiter.
	RateLimitRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratelimit_rejections_total",
		Help:      "Total requests rejected by rate limiting, by limiter.",
	}, []string{"limiter"})

	// SessionOperationsTotal counts session store operations.
	SessionOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_operations_total",
		Help:      "Session store operations, by backend, operation and result.",
	}, []string{"backend", "operation", "result"})

	// ReportsGeneratedTotal counts monthly PDF report attempts.
	ReportsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_generated_total",
		Help:      "Monthly PDF reports, by result (ok, empty, error).",
	}, []string{"result"})

	// TransactionsCreatedTotal counts transactions accepted by the API.
	TransactionsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Transactions created through the web client, by type.",
	}, []string{"type"})

	// AlertsPublishedTotal counts low-balance alerts handed to the broker.
	AlertsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_alerts_published_total",
		Help:      "Low-balance alerts published, by result (ok, error, suppressed).",
	}, []string{"result"})

	// AlertsProcessedTotal counts alerts handled by the worker.
	AlertsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_alerts_processed_total",
		Help:      "Low-balance alerts consumed by the worker, by result.",
	}, []string{"result"})
)

// ObserveAPI records one FinSafe API call. status is 0 for transport failures.
func ObserveAPI(operation string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	APIRequestsTotal.WithLabelValues(operation, label).Inc()
	APIRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Result maps an error to the conventional result label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RegisterGaugeFunc exposes a value computed at scrape time, e.g. a cache size.
// Registering the same name twice is a no-op.
func RegisterGaugeFunc(name, help string, fn func() float64) error {
	g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn)
	if err := prometheus.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}
