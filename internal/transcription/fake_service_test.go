package transcription

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeService is a stand-in speech endpoint. Every accepted connection is recorded along
// with the binary frames it receives and the close code it ended with.
type fakeService struct {
	server  *httptest.Server
	reject  int
	dials   atomic.Int32
	conns   chan *fakeConn
	headers chan http.Header
	queries chan map[string][]string
}

type fakeConn struct {
	ws *websocket.Conn

	mu        sync.Mutex
	frames    [][]byte
	closeCode int
	done      chan struct{}
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	fs := &fakeService{
		conns:   make(chan *fakeConn, 8),
		headers: make(chan http.Header, 8),
		queries: make(chan map[string][]string, 8),
	}

	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.dials.Add(1)
		fs.headers <- r.Header.Clone()
		fs.queries <- r.URL.Query()

		if fs.reject != 0 {
			w.WriteHeader(fs.reject)
			return
		}

		upgrader := websocket.Upgrader{}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		fc := &fakeConn{ws: ws, done: make(chan struct{})}
		fs.conns <- fc
		defer close(fc.done)

		for {
			messageType, data, err := ws.ReadMessage()
			if err != nil {
				if ce, ok := err.(*websocket.CloseError); ok {
					fc.mu.Lock()
					fc.closeCode = ce.Code
					fc.mu.Unlock()
				}
				return
			}
			if messageType == websocket.BinaryMessage {
				fc.mu.Lock()
				fc.frames = append(fc.frames, data)
				fc.mu.Unlock()
			}
		}
	}))
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *fakeService) url() string {
	return "ws" + fs.server.URL[4:] + "/v1/listen"
}

func (fs *fakeService) accept(t *testing.T) *fakeConn {
	t.Helper()
	select {
	case fc := <-fs.conns:
		return fc
	case <-time.After(2 * time.Second):
		t.Fatal("speech service never received a connection")
		return nil
	}
}

func (fc *fakeConn) wait(t *testing.T) {
	t.Helper()
	select {
	case <-fc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection did not end")
	}
}

func (fc *fakeConn) snapshot() ([][]byte, int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	frames := make([][]byte, len(fc.frames))
	copy(frames, fc.frames)
	return frames, fc.closeCode
}

func (fc *fakeConn) sendText(t *testing.T, payload string) {
	t.Helper()
	if err := fc.ws.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

type eventSink struct {
	events chan TranscriptEvent
}

func newEventSink() *eventSink {
	return &eventSink{events: make(chan TranscriptEvent, 64)}
}

func (s *eventSink) EmitTranscript(event TranscriptEvent) {
	s.events <- event
}

func (s *eventSink) next(t *testing.T) TranscriptEvent {
	t.Helper()
	select {
	case evt := <-s.events:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no transcript event received")
		return TranscriptEvent{}
	}
}

func (s *eventSink) expectNone(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case evt := <-s.events:
		t.Fatalf("unexpected transcript event %+v", evt)
	case <-time.After(wait):
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(fs *fakeService, emitter Emitter) *Registry {
	cfg := DefaultConfig()
	cfg.URL = fs.url()
	cfg.CloseGrace = 500 * time.Millisecond
	return NewRegistry(cfg, StaticCredentials("test-key"), emitter, testLogger())
}
