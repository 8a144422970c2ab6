// Package metrics holds the Prometheus collectors for the cef command.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons an event is rejected.
const (
	ReasonDecode = "decode"
	ReasonFormat = "format"
	ReasonSend   = "send"
)

// Collector holds Prometheus metrics collectors.
type Collector struct {
	eventsEncodedTotal  *prometheus.CounterVec
	eventsRejectedTotal *prometheus.CounterVec
	sendDuration        *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg. A nil reg
// means the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		eventsEncodedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cef_events_encoded_total",
				Help: "Total number of events encoded and delivered",
			},
			[]string{"output"},
		),
		eventsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cef_events_rejected_total",
				Help: "Total number of events that could not be encoded or delivered",
			},
			[]string{"output", "reason"},
		),
		sendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cef_send_duration_seconds",
				Help:    "Duration of event delivery in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"output"},
		),
	}
}

// IncEncoded increments the delivered counter.
func (c *Collector) IncEncoded(output string) {
	c.eventsEncodedTotal.WithLabelValues(output).Inc()
}

// IncRejected increments the rejected counter.
func (c *Collector) IncRejected(output, reason string) {
	c.eventsRejectedTotal.WithLabelValues(output, reason).Inc()
}

// ObserveSend records how long a delivery took.
func (c *Collector) ObserveSend(output string, seconds float64) {
	c.sendDuration.WithLabelValues(output).Observe(seconds)
}
