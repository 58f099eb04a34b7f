package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics carries the API server metrics on a private
// registry so default collectors from other libraries never leak in.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	matchRequestsTotal  *prometheus.CounterVec
	matchDuration       *prometheus.HistogramVec
	matchResults        *prometheus.HistogramVec
	poolDocuments       *prometheus.GaugeVec
	summaryProviders    *prometheus.CounterVec
	categoryFilterTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "resumatch",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	matchRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Subsystem: "match",
			Name:      "requests_total",
			Help:      "Total completed match requests by direction and model backend.",
		},
		[]string{"service", "direction", "backend"},
	)
	matchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Subsystem: "match",
			Name:      "duration_seconds",
			Help:      "Match pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "direction"},
	)
	matchResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Subsystem: "match",
			Name:      "results",
			Help:      "Distribution of returned matches per request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
		[]string{"service", "direction"},
	)
	poolDocuments := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "resumatch",
			Subsystem: "pool",
			Name:      "documents",
			Help:      "Documents currently loaded per pool.",
		},
		[]string{"service", "kind"},
	)
	summaryProviders := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Subsystem: "summary",
			Name:      "provider_total",
			Help:      "Summary generation attempts by provider and outcome.",
		},
		[]string{"service", "provider", "status"},
	)
	categoryFilterTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Subsystem: "match",
			Name:      "category_filter_total",
			Help:      "Candidate pre-filter outcomes per request.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		matchRequestsTotal,
		matchDuration,
		matchResults,
		poolDocuments,
		summaryProviders,
		categoryFilterTotal,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		matchRequestsTotal:  matchRequestsTotal,
		matchDuration:       matchDuration,
		matchResults:        matchResults,
		poolDocuments:       poolDocuments,
		summaryProviders:    summaryProviders,
		categoryFilterTotal: categoryFilterTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

func (m *HTTPServerMetrics) RecordMatchRequest(service, direction, backend string, results int, duration time.Duration) {
	m.matchRequestsTotal.WithLabelValues(service, direction, backend).Inc()
	m.matchDuration.WithLabelValues(service, direction).Observe(duration.Seconds())
	m.matchResults.WithLabelValues(service, direction).Observe(float64(results))
}

func (m *HTTPServerMetrics) SetPoolSize(service, kind string, count int) {
	m.poolDocuments.WithLabelValues(service, kind).Set(float64(count))
}

func (m *HTTPServerMetrics) RecordSummaryProvider(service, provider, status string) {
	if provider == "" {
		provider = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	m.summaryProviders.WithLabelValues(service, provider, status).Inc()
}

func (m *HTTPServerMetrics) RecordCategoryFilter(service, outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.categoryFilterTotal.WithLabelValues(service, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
