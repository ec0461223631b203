package gateway

import (
	"context"
	"log/slog"

	"github.com/eleven-am/transcribe-relay/internal/transcription"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type Config struct {
	SubscriberBuffer int
	RedisChannel     string
}

func ProvideHub(lc fx.Lifecycle, cfg Config, logger *slog.Logger) *Hub {
	hub := NewHub(cfg.SubscriberBuffer, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

// ProvideRedisPublisher returns nil when redis is not configured.
func ProvideRedisPublisher(lc fx.Lifecycle, redisClient *redis.Client, cfg Config, logger *slog.Logger) *RedisPublisher {
	if redisClient == nil {
		return nil
	}

	pub := NewRedisPublisher(redisClient, cfg.RedisChannel, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pub.Close()
			return nil
		},
	})
	return pub
}

// ProvideEmitter combines every transcript consumer into the emitter handed to the relay.
func ProvideEmitter(hub *Hub, pub *RedisPublisher) transcription.Emitter {
	emitters := transcription.Emitters{hub}
	if pub != nil {
		emitters = append(emitters, pub)
	}
	return emitters
}

func ProvideHandler(relay transcription.Transcriber, hub *Hub, logger *slog.Logger) *Handler {
	return NewHandler(relay, hub, logger.With("handler", "transcription"))
}

var Module = fx.Options(
	fx.Provide(
		ProvideHub,
		ProvideRedisPublisher,
		ProvideEmitter,
		ProvideHandler,
	),
)
