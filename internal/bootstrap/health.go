package bootstrap

import (
	"github.com/eleven-am/transcribe-relay/internal/gateway"
	"github.com/eleven-am/transcribe-relay/internal/health"
	"github.com/eleven-am/transcribe-relay/internal/transcription"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const version = "1.0.0"

func ProvideHealthHandler(
	creds transcription.CredentialSource,
	redis *redis.Client,
	relay transcription.Transcriber,
	hub *gateway.Hub,
) *health.Handler {
	return health.NewHandler(creds, redis, relay, hub, version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementConnections()
			defer h.DecrementConnections()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
