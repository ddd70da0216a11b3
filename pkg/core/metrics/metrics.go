// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     metrics
// Description: Prometheus collector for estimation runs
// Author:      Mike Stoffels
// Created:     2026-09-24
// License:     MIT
// ============================================================================

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mcpi"

// Collector records estimation runs on its own registry
type Collector struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	samplesTotal  *prometheus.CounterVec
	failuresTotal *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	lastError     *prometheus.GaugeVec
	speedup       *prometheus.GaugeVec
}

// NewCollector creates a collector with a fresh registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed estimation runs by estimator kind",
		}, []string{"kind"}),
		samplesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Points sampled by estimator kind",
		}, []string{"kind"}),
		failuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed estimation runs by error code",
		}, []string{"code"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of estimation runs",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16), // 0.5ms to ~16s
		}, []string{"kind"}),
		lastError: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_absolute_error",
			Help:      "Absolute error of the most recent run",
		}, []string{"kind"}),
		speedup: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "speedup_ratio",
			Help:      "Most recent speedup over the sequential baseline by thread count",
		}, []string{"threads"}),
	}
}

// ObserveRun records a completed run
func (c *Collector) ObserveRun(kind string, points int64, elapsed time.Duration, absErr float64) {
	if c == nil {
		return
	}
	c.runsTotal.WithLabelValues(kind).Inc()
	c.samplesTotal.WithLabelValues(kind).Add(float64(points))
	c.runDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	c.lastError.WithLabelValues(kind).Set(absErr)
}

// ObserveFailure records a failed run
func (c *Collector) ObserveFailure(code string) {
	if c == nil {
		return
	}
	c.failuresTotal.WithLabelValues(code).Inc()
}

// ObserveSpeedup records the speedup of a parallel run
func (c *Collector) ObserveSpeedup(threads int, speedup float64) {
	if c == nil {
		return
	}
	c.speedup.WithLabelValues(strconv.Itoa(threads)).Set(speedup)
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the collector's metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
