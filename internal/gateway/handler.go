package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eleven-am/transcribe-relay/internal/audio"
	"github.com/eleven-am/transcribe-relay/internal/shared"
	"github.com/eleven-am/transcribe-relay/internal/transcription"
	"github.com/labstack/echo/v4"
)

const maxAudioBody = 1 << 20

type Handler struct {
	relay        transcription.Transcriber
	hub          *Hub
	logger       *slog.Logger
	sseKeepAlive time.Duration
}

func NewHandler(relay transcription.Transcriber, hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		relay:        relay,
		hub:          hub,
		logger:       logger,
		sseKeepAlive: sseKeepAliveInterval,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/start", h.Start)
	g.POST("/audio", h.SendAudio)
	g.POST("/stop", h.Stop)
	g.GET("/status", h.Status)
	g.GET("/events", h.Events)
	g.GET("/ws", h.WebSocket)
}

// Start godoc
// @Summary      Start a transcription session
// @Description  Opens the speech connection. An already active session is closed and replaced.
// @Tags         transcription
// @Success      204
// @Failure      500  {object}  shared.APIError  "Speech credential missing"
// @Failure      502  {object}  shared.APIError  "Speech service rejected the handshake"
// @Router       /v1/transcription/start [post]
func (h *Handler) Start(c echo.Context) error {
	if err := h.relay.Start(c.Request().Context()); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SendAudio godoc
// @Summary      Send an audio chunk
// @Description  Accepts either a JSON body of samples or raw little-endian 16-bit PCM at 16 kHz mono.
// @Tags         transcription
// @Accept       json
// @Accept       octet-stream
// @Param        request  body  AudioRequest  true  "Audio samples"
// @Success      204
// @Failure      400  {object}  shared.APIError
// @Failure      409  {object}  shared.APIError  "No active session"
// @Failure      413  {object}  shared.APIError
// @Failure      415  {object}  shared.APIError
// @Failure      502  {object}  shared.APIError  "Write to the speech service failed"
// @Router       /v1/transcription/audio [post]
func (h *Handler) SendAudio(c echo.Context) error {
	samples, err := h.readSamples(c)
	if err != nil {
		return err
	}

	if err := h.relay.SendAudio(c.Request().Context(), samples); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) readSamples(c echo.Context) ([]int16, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(contentType, echo.MIMEOctetStream):
		pcm, err := io.ReadAll(io.LimitReader(c.Request().Body, maxAudioBody+1))
		if err != nil {
			return nil, shared.BadRequest("invalid_request", "failed to read body")
		}
		if len(pcm) > maxAudioBody {
			return nil, shared.NewAPIError("payload_too_large", "audio chunk too large").
				WithDetails(map[string]int{"limit_bytes": maxAudioBody}).
				ToHTTP(http.StatusRequestEntityTooLarge)
		}
		if len(pcm)%audio.BytesPerSample != 0 {
			return nil, toHTTPError(ErrOddAudioLength)
		}
		return audio.PCMBytesToInt16(pcm), nil

	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		var req AudioRequest
		if err := c.Bind(&req); err != nil {
			return nil, shared.BadRequest("invalid_request", "invalid request body")
		}
		return req.Samples, nil

	default:
		return nil, shared.UnsupportedMediaType("unsupported_media_type", "use application/json or application/octet-stream")
	}
}

// Stop godoc
// @Summary      Stop the transcription session
// @Description  Sends a close frame to the speech service. Stopping an idle relay is a no-op.
// @Tags         transcription
// @Success      204
// @Router       /v1/transcription/stop [post]
func (h *Handler) Stop(c echo.Context) error {
	if err := h.relay.Stop(c.Request().Context()); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Status godoc
// @Summary      Session status
// @Tags         transcription
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /v1/transcription/status [get]
func (h *Handler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Active:      h.relay.Active(),
		Subscribers: h.hub.SubscriberCount(),
	})
}

// Events godoc
// @Summary      Stream transcripts
// @Description  Server-sent events; each transcript is an "event: transcript" message with a JSON body.
// @Tags         transcription
// @Produce      text/event-stream
// @Success      200  {object}  transcription.TranscriptEvent
// @Router       /v1/transcription/events [get]
func (h *Handler) Events(c echo.Context) error {
	sub := h.hub.Subscribe("sse")
	defer h.hub.Unsubscribe(sub)

	conn, err := NewSSEConn(c.Response(), sub, h.sseKeepAlive)
	if err != nil {
		return shared.InternalError("sse_unsupported", "streaming not supported")
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.Header().Set("X-Accel-Buffering", "no")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	h.logger.Info("sse client connected", "subscriber_id", sub.ID())
	if err := conn.Run(c.Request().Context()); err != nil {
		h.logger.Debug("sse stream ended", "subscriber_id", sub.ID(), "error", err)
	}
	h.logger.Info("sse client disconnected", "subscriber_id", sub.ID())
	return nil
}

// WebSocket godoc
// @Summary      UI websocket
// @Description  Binary frames carry PCM audio, text frames carry {"type":"start"|"stop"} commands.
// @Description  Transcripts and errors come back as Envelope frames. Closing it leaves the speech session as it is.
// @Tags         transcription
// @Success      101  {object}  Envelope
// @Router       /v1/transcription/ws [get]
func (h *Handler) WebSocket(c echo.Context) error {
	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return nil
	}

	sub := h.hub.Subscribe("ws")
	conn := NewWSConn(ws, h.relay, sub, h.logger)

	h.logger.Info("websocket client connected", "subscriber_id", sub.ID())

	go conn.writePump()
	conn.readPump(c.Request().Context())

	h.hub.Unsubscribe(sub)
	h.logger.Info("websocket client disconnected", "subscriber_id", sub.ID())
	return nil
}
