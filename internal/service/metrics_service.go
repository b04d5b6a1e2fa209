package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry and the HTTP-level collectors.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

// NewMetricsService registers the HTTP collectors plus the standard process
// and Go runtime collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Requests currently being served",
	})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		inFlight:        inFlight,
	}
}

// RequestStarted marks a request in flight and returns the completion
// callback that records its outcome.
func (s *MetricsService) RequestStarted() func(method, path string, status int, duration time.Duration) {
	s.inFlight.Inc()
	return func(method, path string, status int, duration time.Duration) {
		s.inFlight.Dec()
		labels := prometheus.Labels{
			"method": method,
			"path":   path,
			"status": strconv.Itoa(status),
		}
		s.requestDuration.With(labels).Observe(duration.Seconds())
		s.requestTotal.With(labels).Inc()
	}
}

// Handler exposes the scrape endpoint for the private registry.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}
