package gateway

import (
	"log/slog"
	"sync"

	"github.com/eleven-am/transcribe-relay/internal/shared"
	"github.com/eleven-am/transcribe-relay/internal/transcription"
)

const DefaultSubscriberBuffer = 64

// Subscriber receives transcript events from the hub until it is unsubscribed, at which
// point Events is closed.
type Subscriber struct {
	id     string
	kind   string
	events chan transcription.TranscriptEvent
}

func (s *Subscriber) ID() string {
	return s.id
}

func (s *Subscriber) Events() <-chan transcription.TranscriptEvent {
	return s.events
}

// Hub fans transcript events out to connected SSE and websocket clients. A subscriber
// whose buffer is full misses the event instead of stalling the event pump.
type Hub struct {
	buffer int
	logger *slog.Logger

	mu     sync.RWMutex
	subs   map[string]*Subscriber
	closed bool
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		buffer: buffer,
		logger: logger.With("component", "hub"),
		subs:   make(map[string]*Subscriber),
	}
}

func (h *Hub) Subscribe(kind string) *Subscriber {
	sub := &Subscriber{
		id:     shared.NewID("sub_"),
		kind:   kind,
		events: make(chan transcription.TranscriptEvent, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.events)
		return sub
	}
	h.subs[sub.id] = sub
	subscribersActive.WithLabelValues(kind).Inc()
	h.logger.Debug("subscriber added", "subscriber_id", sub.id, "kind", kind)
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.events)
	subscribersActive.WithLabelValues(sub.kind).Dec()
	h.logger.Debug("subscriber removed", "subscriber_id", sub.id, "kind", sub.kind)
}

func (h *Hub) EmitTranscript(evt transcription.TranscriptEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		select {
		case sub.events <- evt:
		default:
			eventsDropped.WithLabelValues(sub.kind).Inc()
			h.logger.Warn("subscriber buffer full, dropping transcript", "subscriber_id", sub.id)
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later subscribers receive an already closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		close(sub.events)
		subscribersActive.WithLabelValues(sub.kind).Dec()
		delete(h.subs, id)
	}
}
