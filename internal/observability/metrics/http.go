package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal    *prometheus.CounterVec
	validationTotal *prometheus.CounterVec
	analysesTotal   *prometheus.CounterVec
	analysisItems   *prometheus.HistogramVec
	exportsTotal    *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poq",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poq",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "poq",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poq",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total accepted document uploads by kind.",
		},
		[]string{"service", "kind"},
	)
	validationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poq",
			Subsystem: "documents",
			Name:      "validations_total",
			Help:      "Total validated records by confidence level.",
		},
		[]string{"service", "confidence"},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poq",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total completed analyses by recommendation.",
		},
		[]string{"service", "recommendation"},
	)
	analysisItems := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poq",
			Subsystem: "analysis",
			Name:      "line_items",
			Help:      "Distribution of compared line items per analysis.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poq",
			Subsystem: "analysis",
			Name:      "exports_total",
			Help:      "Total exported analyses by format.",
		},
		[]string{"service", "format"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		validationTotal,
		analysesTotal,
		analysisItems,
		exportsTotal,
	)

	return &HTTPServerMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		uploadsTotal:    uploadsTotal,
		validationTotal: validationTotal,
		analysesTotal:   analysesTotal,
		analysisItems:   analysisItems,
		exportsTotal:    exportsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
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
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/analyses/") && strings.HasSuffix(path, "/export"):
		return "/v1/analyses/{analysis_id}/export"
	case strings.HasPrefix(path, "/v1/analyses/"):
		return "/v1/analyses/{analysis_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service, kind string) {
	m.uploadsTotal.WithLabelValues(service, kind).Inc()
}

func (m *HTTPServerMetrics) RecordValidation(service, confidence string) {
	if confidence == "" {
		confidence = "unknown"
	}
	m.validationTotal.WithLabelValues(service, confidence).Inc()
}

func (m *HTTPServerMetrics) RecordAnalysis(service, recommendation string, lineItems int) {
	if recommendation == "" {
		recommendation = "unknown"
	}
	m.analysesTotal.WithLabelValues(service, recommendation).Inc()
	m.analysisItems.WithLabelValues(service).Observe(float64(lineItems))
}

func (m *HTTPServerMetrics) RecordExport(service, format string) {
	m.exportsTotal.WithLabelValues(service, format).Inc()
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
