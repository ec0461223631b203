package transcription

import "github.com/prometheus/client_golang/prometheus"

const namespace = "transcribe_relay"

var (
	handshakesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Speech service connection attempts",
		},
		[]string{"status"}, // ok, error
	)

	audioFramesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_frames_sent_total",
			Help:      "Binary audio frames written to the speech service",
		},
		[]string{"status"}, // ok, error
	)

	audioBytesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_sent_total",
			Help:      "PCM bytes written to the speech service",
		},
	)

	transcriptsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_emitted_total",
			Help:      "Transcript events forwarded to consumers",
		},
		[]string{"final"},
	)

	framesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_skipped_total",
			Help:      "Inbound frames dropped by the event pump",
		},
		[]string{"reason"},
	)

	pumpsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_pumps_active",
			Help:      "Event pumps currently reading from a speech connection",
		},
	)
)

// Collectors returns the relay metrics for registration on a prometheus registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		handshakesTotal,
		audioFramesSent,
		audioBytesSent,
		transcriptsEmitted,
		framesSkipped,
		pumpsActive,
	}
}
