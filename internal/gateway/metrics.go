package gateway

import "github.com/prometheus/client_golang/prometheus"

const namespace = "transcribe_relay"

var (
	subscribersActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers_active",
			Help:      "Connected transcript subscribers",
		},
		[]string{"kind"}, // sse, ws
	)

	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Transcript events dropped because a consumer was not keeping up",
		},
		[]string{"sink"}, // sse, ws, redis
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Transcript events published to redis",
		},
		[]string{"status"},
	)
)

func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		subscribersActive,
		eventsDropped,
		eventsPublished,
	}
}
