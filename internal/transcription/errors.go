package transcription

import "errors"

var (
	ErrConfig           = errors.New("transcription config error")
	ErrHandshake        = errors.New("speech service handshake failed")
	ErrNotInitialized   = errors.New("transcription not initialized")
	ErrSessionNotActive = errors.New("transcription session not active")
	ErrTransport        = errors.New("speech service transport error")

	// ErrDecode marks inbound frames the pump drops. It never leaves this package.
	ErrDecode = errors.New("undecodable transcript frame")
)

var (
	errNotText      = errors.New("frame is not text")
	errMalformed    = errors.New("frame is not a results object")
	errNoTranscript = errors.New("frame has no transcript")
	errSilence      = errors.New("transcript is blank")
)

func skipReason(err error) string {
	switch {
	case errors.Is(err, errNotText):
		return "not_text"
	case errors.Is(err, errMalformed):
		return "malformed"
	case errors.Is(err, errNoTranscript):
		return "no_transcript"
	case errors.Is(err, errSilence):
		return "silence"
	default:
		return "unknown"
	}
}
