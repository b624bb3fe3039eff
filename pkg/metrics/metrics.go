// Package metrics exposes Prometheus counters for the command channel.
//
// A nil *Metrics is valid and records nothing, so components can take an
// optional metrics sink without branching.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ynhub"

// Metrics holds the collectors registered for one hub instance.
type Metrics struct {
	registry *prometheus.Registry

	polls       prometheus.Counter
	pollErrors  prometheus.Counter
	transitions prometheus.Counter
	actions     *prometheus.CounterVec
	clients     prometheus.Gauge
}

// New creates collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "polls_total",
			Help:      "Channel read cycles attempted.",
		}),
		pollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "poll_errors_total",
			Help:      "Channel read cycles that failed.",
		}),
		transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "transitions_total",
			Help:      "Detected changes of channel content.",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "actions_total",
			Help:      "Handled channel commands by outcome.",
		}, []string{"outcome"}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "connected_clients",
			Help:      "Host pages currently connected to the bridge.",
		}),
	}

	m.registry.MustRegister(m.polls, m.pollErrors, m.transitions, m.actions, m.clients)
	return m
}

// Registry returns the registry holding the hub collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePoll counts a read cycle and whether it failed.
func (m *Metrics) ObservePoll(err error) {
	if m == nil {
		return
	}
	m.polls.Inc()
	if err != nil {
		m.pollErrors.Inc()
	}
}

// ObserveTransition counts a detected content change.
func (m *Metrics) ObserveTransition() {
	if m == nil {
		return
	}
	m.transitions.Inc()
}

// ObserveAction counts a handled command by outcome.
func (m *Metrics) ObserveAction(outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(outcome).Inc()
}

// SetClients records the number of connected host pages.
func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}
