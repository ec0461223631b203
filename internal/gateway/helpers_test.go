package gateway

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/eleven-am/transcribe-relay/internal/transcription"
)

type mockTranscriber struct {
	mu       sync.Mutex
	active   bool
	starts   int
	stops    int
	chunks   [][]int16
	startErr error
	sendErr  error
}

func (m *mockTranscriber) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	if m.startErr != nil {
		return m.startErr
	}
	m.active = true
	return nil
}

func (m *mockTranscriber) SendAudio(ctx context.Context, samples []int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	if !m.active {
		return transcription.ErrSessionNotActive
	}
	m.chunks = append(m.chunks, samples)
	return nil
}

func (m *mockTranscriber) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	m.active = false
	return nil
}

func (m *mockTranscriber) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *mockTranscriber) received() [][]int16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]int16, len(m.chunks))
	copy(out, m.chunks)
	return out
}

func (m *mockTranscriber) counts() (starts, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
