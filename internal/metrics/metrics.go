// Package metrics holds the prometheus collectors shared by the hosts.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/gunzone/internal/sim"
)

const namespace = "gunzone"

// Metrics is a private registry plus the collectors registered in it.
type Metrics struct {
	registry *prometheus.Registry

	Ticks         prometheus.Counter
	Events        *prometheus.CounterVec
	Runs          *prometheus.CounterVec
	Sessions      prometheus.Gauge
	DroppedFrames prometheus.Counter
	TickDuration  prometheus.Histogram
	reqDuration   *prometheus.HistogramVec
	reqErrors     *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go
// runtime collectors, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks advanced across all sessions.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Gameplay events emitted, by type.",
		}, []string{"type"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Connected play sessions.",
		}),
		DroppedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Outbound frames discarded because a client fell behind.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent inside one simulation tick.",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "HTTP requests answered with 4xx or 5xx.",
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		m.Ticks, m.Events, m.Runs, m.Sessions, m.DroppedFrames, m.TickDuration,
		m.reqDuration, m.reqErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTick counts one tick and the events it produced.
func (m *Metrics) ObserveTick(events []sim.GameEvent, took time.Duration) {
	m.Ticks.Inc()
	m.TickDuration.Observe(took.Seconds())
	for _, ev := range events {
		m.Events.WithLabelValues(string(ev.Type())).Inc()
	}
}

// ObserveRun counts a finished run.
func (m *Metrics) ObserveRun(mode, outcome string) {
	m.Runs.WithLabelValues(mode, outcome).Inc()
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request latency and error counts for gin routes.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.reqDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= 400 {
			m.reqErrors.WithLabelValues(method, path, status).Inc()
		}
	}
}
