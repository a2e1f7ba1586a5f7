package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	extractTotal    *prometheus.CounterVec
	extractDuration *prometheus.HistogramVec
	extractInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	extractTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poq",
			Subsystem: "worker",
			Name:      "document_extract_total",
			Help:      "Total extracted documents by status.",
		},
		[]string{"service", "status"},
	)
	extractDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poq",
			Subsystem: "worker",
			Name:      "document_extract_duration_seconds",
			Help:      "Document extraction duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	extractInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "poq",
			Subsystem: "worker",
			Name:      "document_extract_in_flight",
			Help:      "Number of in-flight extraction tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poq",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and extraction start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(extractTotal, extractDuration, extractInFlight, queueLag)

	return &WorkerMetrics{
		registry:        registry,
		extractTotal:    extractTotal,
		extractDuration: extractDuration,
		extractInFlight: extractInFlight,
		queueLag:        queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartExtraction() {
	m.extractInFlight.Inc()
}

func (m *WorkerMetrics) FinishExtraction(service string, duration time.Duration, err error) {
	m.extractInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.extractTotal.WithLabelValues(service, status).Inc()
	m.extractDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
