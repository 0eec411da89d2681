package prometheus

import (
	"strconv"
	"time"

	"github.com/aescanero/rxplay/pkg/domain"
	"github.com/aescanero/rxplay/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	demoRuns     *prometheus.CounterVec
	demoDuration *prometheus.HistogramVec
	itemsEmitted *prometheus.CounterVec
	activeDemos  prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector registered on reg.
// Pass prometheus.DefaultRegisterer to expose the metrics through promhttp.Handler.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rxplay_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rxplay_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"path"},
		),
		demoRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rxplay_demo_runs_total",
				Help: "Total number of demo runs by final status",
			},
			[]string{"demo", "status"},
		),
		demoDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rxplay_demo_duration_seconds",
				Help:    "Demo run duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"demo"},
		),
		itemsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rxplay_demo_items_emitted_total",
				Help: "Total number of values printed by demos",
			},
			[]string{"demo"},
		),
		activeDemos: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "rxplay_active_demos",
				Help: "Number of demos currently running",
			},
		),
	}
}

// RecordHTTPRequest records a served HTTP request
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordDemoRun records a demo run. A running status increments the active
// gauge, any terminal status decrements it and is counted.
func (c *Collector) RecordDemoRun(demo string, status domain.RunStatus, duration time.Duration) {
	if !status.IsTerminal() {
		c.activeDemos.Inc()
		return
	}
	c.activeDemos.Dec()
	c.demoRuns.WithLabelValues(demo, string(status)).Inc()
	c.demoDuration.WithLabelValues(demo).Observe(duration.Seconds())
}

// IncItemsEmitted increments the count of values printed by a demo
func (c *Collector) IncItemsEmitted(demo string) {
	c.itemsEmitted.WithLabelValues(demo).Inc()
}

var _ ports.MetricsCollector = (*Collector)(nil)
