package gateway

import (
	"errors"
	"net/http"

	"github.com/eleven-am/transcribe-relay/internal/shared"
	"github.com/eleven-am/transcribe-relay/internal/transcription"
	"github.com/labstack/echo/v4"
)

var ErrOddAudioLength = errors.New("pcm payload has an odd number of bytes")

// classify maps relay errors onto a status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, transcription.ErrConfig):
		return http.StatusInternalServerError, "config_error"
	case errors.Is(err, transcription.ErrHandshake):
		return http.StatusBadGateway, "handshake_failed"
	case errors.Is(err, transcription.ErrNotInitialized):
		return http.StatusConflict, "not_initialized"
	case errors.Is(err, transcription.ErrSessionNotActive):
		return http.StatusConflict, "session_not_active"
	case errors.Is(err, transcription.ErrTransport):
		return http.StatusBadGateway, "transport_error"
	case errors.Is(err, ErrOddAudioLength):
		return http.StatusBadRequest, "invalid_audio"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func toHTTPError(err error) *echo.HTTPError {
	status, code := classify(err)
	switch status {
	case http.StatusBadRequest:
		return shared.BadRequest(code, err.Error())
	case http.StatusConflict:
		return shared.Conflict(code, err.Error())
	case http.StatusBadGateway:
		return shared.BadGateway(code, err.Error())
	default:
		return shared.InternalError(code, err.Error())
	}
}
