package transcription

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultListenURL  = "wss://api.deepgram.com/v1/listen"
	DefaultAuthScheme = "Token"
	DefaultCloseGrace = 5 * time.Second

	// The stream format is fixed: 16 kHz mono little-endian PCM with punctuation and
	// interim results enabled.
	EncodingLinear16  = "linear16"
	DefaultSampleRate = 16000
)

// TranscriptEvent is one accepted transcript frame as delivered to consumers.
type TranscriptEvent struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Emitter receives transcript events from the event pump. Implementations must not block
// for long: they run on the pump goroutine.
type Emitter interface {
	EmitTranscript(event TranscriptEvent)
}

type EmitterFunc func(event TranscriptEvent)

func (f EmitterFunc) EmitTranscript(event TranscriptEvent) {
	f(event)
}

// Emitters fans one event out to every emitter in order.
type Emitters []Emitter

func (es Emitters) EmitTranscript(event TranscriptEvent) {
	for _, e := range es {
		if e != nil {
			e.EmitTranscript(event)
		}
	}
}

type Config struct {
	URL        string
	AuthScheme string
	// CloseGrace bounds how long a stopped connection waits for the remote close
	// acknowledgement before the socket is torn down.
	CloseGrace time.Duration
	Dialer     *websocket.Dialer
}

func DefaultConfig() Config {
	return Config{
		URL:        DefaultListenURL,
		AuthScheme: DefaultAuthScheme,
		CloseGrace: DefaultCloseGrace,
	}
}

func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = def.AuthScheme
	}
	if cfg.CloseGrace <= 0 {
		cfg.CloseGrace = def.CloseGrace
	}
	if cfg.Dialer == nil {
		cfg.Dialer = &websocket.Dialer{
			Proxy: http.ProxyFromEnvironment,
		}
	}
	return cfg
}
