package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the console's collectors on a private registry.
type Metrics struct {
	reg      *prometheus.Registry
	actions  *prometheus.CounterVec
	uploads  *prometheus.CounterVec
	sessions prometheus.Gauge
}

// NewMetrics registers the console collectors together with the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insightbox_actions_total",
			Help: "Cleaning actions submitted, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insightbox_uploads_total",
			Help: "File uploads, by outcome.",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "insightbox_sessions_active",
			Help: "Sessions currently held in memory.",
		}),
	}
	m.reg.MustRegister(
		m.actions, m.uploads, m.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) action(kind, outcome string) { m.actions.WithLabelValues(kind, outcome).Inc() }
func (m *Metrics) upload(outcome string)       { m.uploads.WithLabelValues(outcome).Inc() }
func (m *Metrics) setSessions(n int)           { m.sessions.Set(float64(n)) }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
