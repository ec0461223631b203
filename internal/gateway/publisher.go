package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/transcribe-relay/internal/transcription"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisChannel = "transcripts"

	publishTimeout = 2 * time.Second
	publishBuffer  = 256
)

// RedisPublisher forwards transcript events to a redis pub/sub channel. Publishing runs
// on its own goroutine so a slow redis never stalls the event pump.
type RedisPublisher struct {
	redis   *redis.Client
	channel string
	logger  *slog.Logger
	queue   chan transcription.TranscriptEvent

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRedisPublisher(redisClient *redis.Client, channel string, logger *slog.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	ctx, cancel := context.WithCancel(context.Background())

	p := &RedisPublisher{
		redis:   redisClient,
		channel: channel,
		logger:  logger.With("component", "redis_publisher", "channel", channel),
		queue:   make(chan transcription.TranscriptEvent, publishBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.wg.Add(1)
	go p.publishLoop()

	return p
}

func (p *RedisPublisher) Channel() string {
	return p.channel
}

func (p *RedisPublisher) EmitTranscript(evt transcription.TranscriptEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	select {
	case p.queue <- evt:
	default:
		eventsDropped.WithLabelValues("redis").Inc()
		p.logger.Warn("publish queue full, dropping transcript")
	}
}

// Close stops accepting events, flushes what is queued and waits for the loop to exit.
func (p *RedisPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}

func (p *RedisPublisher) publishLoop() {
	defer p.wg.Done()

	for evt := range p.queue {
		if err := p.publish(evt); err != nil {
			eventsPublished.WithLabelValues("error").Inc()
			p.logger.Error("publish transcript", "error", err)
			continue
		}
		eventsPublished.WithLabelValues("ok").Inc()
	}
}

func (p *RedisPublisher) publish(evt transcription.TranscriptEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	ctx, cancel := context.WithTimeout(p.ctx, publishTimeout)
	defer cancel()

	if err := p.redis.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish transcript: %w", err)
	}
	p.logger.Debug("published transcript", "final", evt.Final)
	return nil
}
