package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the server. Each Metrics owns a
// private registry so that several servers (and tests) can coexist.
type Metrics struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestsTotal    *prometheus.CounterVec
	activeRequests   prometheus.Gauge
	estimateDuration *prometheus.HistogramVec
	estimateError    prometheus.Histogram
	samplesTotal     prometheus.Counter
}

// NewMetrics registers the picalc collectors and the Go runtime collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picalc_requests_total",
			Help: "Total number of HTTP requests by path and status code.",
		}, []string{"path", "status"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "picalc_active_requests",
			Help: "Number of HTTP requests currently being served.",
		}),
		estimateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "picalc_estimate_duration_seconds",
			Help:    "Wall-clock duration of estimations by method.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"method"}),
		estimateError: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "picalc_estimate_abs_error",
			Help:    "Absolute difference between served estimates and math.Pi.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 7),
		}),
		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "picalc_samples_total",
			Help: "Total number of samples drawn by served estimations.",
		}),
	}
	// Labelled series only appear once observed; seed the request counter so
	// a fresh scrape lists every family.
	m.requestsTotal.WithLabelValues("/", "200").Add(0)

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.activeRequests,
		m.estimateDuration,
		m.estimateError,
		m.samplesTotal,
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(path string, status int) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// RecordEstimate records a successful estimation.
func (m *Metrics) RecordEstimate(method string, duration time.Duration, samples int64, absError float64) {
	m.estimateDuration.WithLabelValues(method).Observe(duration.Seconds())
	m.samplesTotal.Add(float64(samples))
	m.estimateError.Observe(absError)
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
