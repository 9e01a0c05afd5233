package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	importsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_imports_total",
			Help: "Lead imports by outcome",
		},
		[]string{"source", "outcome"},
	)

	importedLeads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_imported_records_total",
			Help: "Lead records written by imports",
		},
	)

	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_store_errors_total",
			Help: "Record store failures by kind",
		},
		[]string{"kind"},
	)
)

// Metrics records request counts and latency labelled by the chi route
// pattern, so ids in the path do not explode the label space.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// RecordImport counts one import attempt; n is the number of stored leads.
func RecordImport(source, outcome string, n int) {
	importsTotal.WithLabelValues(source, outcome).Inc()
	if n > 0 {
		importedLeads.Add(float64(n))
	}
}

func RecordStoreError(kind string) {
	storeErrors.WithLabelValues(kind).Inc()
}
