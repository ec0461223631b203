package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eleven-am/transcribe-relay/internal/audio"
)

// Registry owns the single speech session of the process. The slot holds the write half
// of the active connection; its presence is what "session active" means.
//
// mu guards the slot. Sends hold the read side for the whole write, so Stop and Start
// never swap the slot under an in-flight frame. Each outbound additionally serialises
// its own writes.
type Registry struct {
	cfg     Config
	creds   CredentialSource
	emitter Emitter
	logger  *slog.Logger

	mu          sync.RWMutex
	initialized bool
	slot        *outbound
}

func NewRegistry(cfg Config, creds CredentialSource, emitter Emitter, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:     normalizeConfig(cfg),
		creds:   creds,
		emitter: emitter,
		logger:  logger.With("component", "transcription"),
	}
}

// Start opens a speech session and spawns its event pump. An already active session is
// closed and replaced.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	r.initialized = true
	r.mu.Unlock()

	if r.creds == nil {
		return fmt.Errorf("%w: no credential source", ErrConfig)
	}
	apiKey, err := r.creds.APIKey()
	if err != nil {
		r.logger.Error("speech credential unavailable", "error", err)
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	r.logger.Info("connecting to speech service", "url", r.cfg.URL)
	in, out, err := dial(ctx, r.cfg.Dialer, r.cfg, apiKey)
	if err != nil {
		handshakesTotal.WithLabelValues("error").Inc()
		r.logger.Error("speech service connect failed", "error", err)
		return err
	}
	handshakesTotal.WithLabelValues("ok").Inc()

	r.mu.Lock()
	prev := r.slot
	r.slot = out
	r.mu.Unlock()

	if prev != nil {
		r.logger.Warn("replacing active transcription session")
		if err := prev.close(ctx); err != nil {
			r.logger.Debug("close of replaced session failed", "error", err)
		}
	}

	pump := &eventPump{in: in, emitter: r.emitter, logger: r.logger}
	go pump.run()

	r.logger.Info("transcription session started")
	return nil
}

// SendAudio writes samples as one little-endian PCM binary frame. A failed write leaves
// the session in place; the caller decides whether to Stop.
func (r *Registry) SendAudio(ctx context.Context, samples []int16) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if r.slot == nil {
		return ErrSessionNotActive
	}

	data := audio.SamplesToPCM(samples)
	if err := r.slot.writeBinary(ctx, data); err != nil {
		audioFramesSent.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	audioFramesSent.WithLabelValues("ok").Inc()
	audioBytesSent.Add(float64(len(data)))
	return nil
}

// Stop clears the slot and sends a close frame. Close failures are logged, never returned.
func (r *Registry) Stop(ctx context.Context) error {
	r.mu.Lock()
	out := r.slot
	r.slot = nil
	r.mu.Unlock()

	if out == nil {
		return nil
	}

	if err := out.close(ctx); err != nil {
		r.logger.Warn("close frame not delivered", "error", err)
	}
	r.logger.Info("transcription session stopped")
	return nil
}

func (r *Registry) Active() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slot != nil
}
