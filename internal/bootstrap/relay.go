package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/transcribe-relay/internal/gateway"
	"github.com/eleven-am/transcribe-relay/internal/transcription"
	"go.uber.org/fx"
)

func ProvideTranscriptionConfig(cfg *Config) transcription.Config {
	return transcription.Config{
		URL:        cfg.SpeechURL,
		AuthScheme: cfg.SpeechAuthScheme,
		CloseGrace: cfg.CloseGrace,
	}
}

func ProvideCredentials(cfg *Config) transcription.CredentialSource {
	return transcription.EnvCredentials{
		Name:  cfg.SpeechAPIKeyEnv,
		Files: []string{cfg.EnvFile},
	}
}

func ProvideGatewayConfig(cfg *Config) gateway.Config {
	return gateway.Config{
		SubscriberBuffer: cfg.EventBuffer,
		RedisChannel:     cfg.RedisChannel,
	}
}

// ProvideRegistry builds the process-wide relay. The active session is closed on shutdown.
func ProvideRegistry(
	lc fx.Lifecycle,
	cfg transcription.Config,
	creds transcription.CredentialSource,
	emitter transcription.Emitter,
	logger *slog.Logger,
) *transcription.Registry {
	registry := transcription.NewRegistry(cfg, creds, emitter, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return registry.Stop(ctx)
		},
	})
	return registry
}

func ProvideTranscriber(registry *transcription.Registry) transcription.Transcriber {
	return registry
}

var RelayModule = fx.Options(
	fx.Provide(
		ProvideTranscriptionConfig,
		ProvideCredentials,
		ProvideGatewayConfig,
		ProvideRegistry,
		ProvideTranscriber,
	),
	gateway.Module,
)
