// Package metrics provides Prometheus instrumentation for the chat client.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks backend request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mchat_http_request_duration_seconds",
			Help:    "Backend HTTP request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsTotal counts backend requests by outcome.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mchat_http_requests_total",
			Help: "Total backend HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MessagesSentTotal counts outbound messages by final outcome.
	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mchat_messages_sent_total",
			Help: "Outbound messages by outcome",
		},
		[]string{"outcome"},
	)

	// RealtimeEventsTotal counts decoded realtime events.
	RealtimeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mchat_realtime_events_total",
			Help: "Realtime events received by name",
		},
		[]string{"event"},
	)

	// RealtimeReconnectsTotal counts realtime reconnect attempts.
	RealtimeReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mchat_realtime_reconnects_total",
			Help: "Realtime reconnect attempts",
		},
	)

	// BusEventsDroppedTotal counts events a slow consumer missed.
	BusEventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mchat_bus_events_dropped_total",
			Help: "Events dropped because a subscriber buffer was full",
		},
		[]string{"kind"},
	)

	// RealtimeConnected is 1 while the realtime channel is connected.
	RealtimeConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mchat_realtime_connected",
			Help: "Whether the realtime channel is connected",
		},
	)
)

// Send outcomes.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// RecordRequest records one backend HTTP round trip. status 0 means the
// request never got a response.
func RecordRequest(method, path string, status int, d time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordSend records the outcome of an outbound message.
func RecordSend(outcome string) {
	MessagesSentTotal.WithLabelValues(outcome).Inc()
}

// RecordEvent records one realtime event.
func RecordEvent(name string) {
	RealtimeEventsTotal.WithLabelValues(name).Inc()
}

// RecordDrop records one event a bus subscriber missed.
func RecordDrop(kind string) {
	BusEventsDroppedTotal.WithLabelValues(kind).Inc()
}

// SetConnected flips the realtime connection gauge.
func SetConnected(up bool) {
	if up {
		RealtimeConnected.Set(1)
		return
	}
	RealtimeConnected.Set(0)
}
