// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics registers the Prometheus collectors exported at /metrics.
// All recording methods are safe to call on a nil *Metrics, so packages can
// accept an optional collector without guarding every call site.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service records into.
type Metrics struct {
	// CommandsTotal counts editor commands applied. Labels: type
	CommandsTotal *prometheus.CounterVec

	// ExportsTotal counts export attempts. Labels: outcome (ok|invalid|upload_error|error)
	ExportsTotal *prometheus.CounterVec

	// AssetUploadsTotal counts background uploads. Labels: status (success|error)
	AssetUploadsTotal *prometheus.CounterVec

	// GreetingsTotal counts generated greeting images. Labels: provider, status
	GreetingsTotal *prometheus.CounterVec

	// GreetingDuration measures one image-generation call in seconds.
	GreetingDuration *prometheus.HistogramVec

	// ActiveSessions tracks editor sessions held by this process.
	ActiveSessions prometheus.Gauge

	// HTTPRequestsTotal counts served requests. Labels: method, route, code
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPDuration measures request latency in seconds. Labels: method, route
	HTTPDuration *prometheus.HistogramVec
}

var (
	once     sync.Once
	instance *Metrics
)

// New returns the process-wide collectors, registering them on first use.
func New() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			CommandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "cardforge_editor_commands_total",
				Help: "Total number of editor commands applied by type",
			}, []string{"type"}),
			ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "cardforge_exports_total",
				Help: "Total number of template export attempts by outcome",
			}, []string{"outcome"}),
			AssetUploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "cardforge_asset_uploads_total",
				Help: "Total number of background asset uploads by status",
			}, []string{"status"}),
			GreetingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "cardforge_greetings_total",
				Help: "Total number of greeting images requested by provider and status",
			}, []string{"provider", "status"}),
			GreetingDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "cardforge_greeting_duration_seconds",
				Help:    "Duration of image-generation calls in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			}, []string{"provider"}),
			ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "cardforge_editor_sessions_active",
				Help: "Current number of editor sessions created by this process",
			}),
			HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "cardforge_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status code",
			}, []string{"method", "route", "code"}),
			HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "cardforge_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"method", "route"}),
		}
	})
	return instance
}

func (m *Metrics) RecordCommand(typ string) {
	if m == nil || m.CommandsTotal == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(typ).Inc()
}

func (m *Metrics) RecordExport(outcome string) {
	if m == nil || m.ExportsTotal == nil {
		return
	}
	m.ExportsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordUpload(err error) {
	if m == nil || m.AssetUploadsTotal == nil {
		return
	}
	m.AssetUploadsTotal.WithLabelValues(status(err)).Inc()
}

// RecordGreeting counts one generation call and observes its latency.
func (m *Metrics) RecordGreeting(provider string, started time.Time, err error) {
	if m == nil || m.GreetingsTotal == nil {
		return
	}
	m.GreetingsTotal.WithLabelValues(provider, status(err)).Inc()
	m.GreetingDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

func (m *Metrics) SessionOpened() {
	if m == nil || m.ActiveSessions == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil || m.ActiveSessions == nil {
		return
	}
	m.ActiveSessions.Dec()
}

// RecordHTTP counts one served request. route is the matched pattern, not
// the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordHTTP(method, route string, code int, elapsed time.Duration) {
	if m == nil || m.HTTPRequestsTotal == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
