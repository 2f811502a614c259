// ABOUTME: Prometheus metrics for the development backend
// ABOUTME: Collectors register on a per-server registry so tests can build many servers

package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for the server.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	uploadsTotal    *prometheus.CounterVec
	filesProcessed  *prometheus.CounterVec
	usageResets     prometheus.Counter
}

// NewMetrics registers every collector on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "molindex_devserver_requests_total",
				Help: "Total number of requests handled",
			},
			[]string{"route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "molindex_devserver_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		uploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "molindex_devserver_uploads_total",
				Help: "Upload attempts by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		filesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "molindex_devserver_files_total",
				Help: "Uploaded files by result",
			},
			[]string{"result"},
		),
		usageResets: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "molindex_devserver_usage_resets_total",
				Help: "Successful admin usage resets",
			},
		),
	}
}

// RecordUpload counts one upload attempt.
func (m *Metrics) RecordUpload(mode, outcome string) {
	m.uploadsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordFile counts one uploaded file as "ok", "skipped" or "invalid".
func (m *Metrics) RecordFile(result string) {
	m.filesProcessed.WithLabelValues(result).Inc()
}

// instrument wraps h with request counting and timing under route.
func (m *Metrics) instrument(route string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
