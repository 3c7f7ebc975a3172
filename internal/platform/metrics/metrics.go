// Package metrics exposes Prometheus metrics for batch runs and the report API
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "fraud_scorer"

// BatchMetrics holds the metrics describing the last batch run. It owns its
// registry so a run can push exactly these series to a Pushgateway.
type BatchMetrics struct {
	registry      *prometheus.Registry
	records       *prometheus.GaugeVec
	indicatorHits *prometheus.GaugeVec
	sideFailures  *prometheus.CounterVec
	duration      prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// NewBatchMetrics creates and registers the batch metrics on a fresh registry
func NewBatchMetrics() *BatchMetrics {
	m := &BatchMetrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records seen by the last run, by outcome.",
		}, []string{"outcome"}),
		indicatorHits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indicator_hits",
			Help:      "Transactions on which each indicator fired in the last run.",
		}, []string{"indicator"}),
		sideFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_output_failures_total",
			Help:      "Failed side outputs (alerts, dead letters, report, cache) by step.",
		}, []string{"step"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall clock duration of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}
	m.registry.MustRegister(m.records, m.indicatorHits, m.sideFailures, m.duration, m.lastSuccess)
	return m
}

// Registry returns the registry holding the batch metrics
func (m *BatchMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveReport copies the counters of a finished run report into the gauges
func (m *BatchMetrics) ObserveReport(report *run.Report) {
	m.records.WithLabelValues("total").Set(float64(report.TotalRecords))
	m.records.WithLabelValues("scored").Set(float64(report.ScoredRecords))
	m.records.WithLabelValues("rejected").Set(float64(len(report.Rejections)))
	m.records.WithLabelValues("flagged").Set(float64(report.FlaggedRecords))
	for name, hits := range report.IndicatorHits {
		m.indicatorHits.WithLabelValues(string(name)).Set(float64(hits))
	}
	if report.FinishedAt != nil {
		m.duration.Set(report.FinishedAt.Sub(report.StartedAt).Seconds())
		if report.Status == run.StatusCompleted {
			m.lastSuccess.Set(float64(report.FinishedAt.Unix()))
		}
	}
}

// SideOutputFailed counts a failed side output step
func (m *BatchMetrics) SideOutputFailed(step string) {
	m.sideFailures.WithLabelValues(step).Inc()
}

// Pusher sends the batch metrics to a Pushgateway
type Pusher struct {
	url     string
	jobName string
	timeout time.Duration
}

// NewPusher returns nil when no Pushgateway URL is configured
func NewPusher(url, jobName string) *Pusher {
	if url == "" {
		return nil
	}
	return &Pusher{url: url, jobName: jobName, timeout: 10 * time.Second}
}

// Push replaces the job's series on the gateway with the current values
func (p *Pusher) Push(ctx context.Context, m *BatchMetrics) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := push.New(p.url, p.jobName).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", p.url, err)
	}
	return nil
}

// HTTPMetrics instruments the report API
type HTTPMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPMetrics registers request metrics together with the Go and process
// collectors on a fresh registry
func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one served request
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, fmt.Sprint(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
