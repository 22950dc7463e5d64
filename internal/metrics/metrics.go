// Package metrics registers the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusfeed_messages_sent_total",
		Help: "Direct messages persisted.",
	})

	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfeed_notifications_created_total",
		Help: "Notification rows created, by type.",
	}, []string{"type"})

	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfeed_ws_events_emitted_total",
		Help: "Events delivered to a client send buffer, by event name.",
	}, []string{"event"})

	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfeed_ws_events_dropped_total",
		Help: "Events dropped because a client send buffer was full, by event name.",
	}, []string{"event"})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campusfeed_ws_connections_active",
		Help: "Live websocket connections.",
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
