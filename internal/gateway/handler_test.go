package gateway

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eleven-am/transcribe-relay/internal/audio"
	"github.com/eleven-am/transcribe-relay/internal/shared"
	"github.com/eleven-am/transcribe-relay/internal/transcription"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func newTestHandler(relay *mockTranscriber) (*echo.Echo, *Hub) {
	hub := NewHub(8, testLogger())
	h := NewHandler(relay, hub, testLogger())

	e := echo.New()
	h.RegisterRoutes(e.Group("/v1/transcription"))
	return e, hub
}

func doRequest(e *echo.Echo, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) shared.APIError {
	t.Helper()
	var apiErr shared.APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return apiErr
}

func TestHandler_StartSendStop(t *testing.T) {
	relay := &mockTranscriber{}
	e, _ := newTestHandler(relay)

	if rec := doRequest(e, http.MethodPost, "/v1/transcription/start", "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("start: expected 204, got %d", rec.Code)
	}

	rec := doRequest(e, http.MethodPost, "/v1/transcription/audio", echo.MIMEApplicationJSON, `{"samples":[1,-2,3]}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("json audio: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	pcm := string(audio.SamplesToPCM([]int16{100, -100}))
	rec = doRequest(e, http.MethodPost, "/v1/transcription/audio", echo.MIMEOctetStream, pcm)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("raw audio: expected 204, got %d", rec.Code)
	}

	chunks := relay.received()
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if fmt.Sprint(chunks[0]) != "[1 -2 3]" || fmt.Sprint(chunks[1]) != "[100 -100]" {
		t.Errorf("unexpected chunks %v", chunks)
	}

	if rec := doRequest(e, http.MethodPost, "/v1/transcription/stop", "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("stop: expected 204, got %d", rec.Code)
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		startErr error
		sendErr  error
		path     string
		status   int
		code     string
	}{
		{"missing credential", fmt.Errorf("%w: missing KEY", transcription.ErrConfig), nil, "/start", http.StatusInternalServerError, "config_error"},
		{"rejected handshake", fmt.Errorf("%w: 401", transcription.ErrHandshake), nil, "/start", http.StatusBadGateway, "handshake_failed"},
		{"never started", nil, transcription.ErrNotInitialized, "/audio", http.StatusConflict, "not_initialized"},
		{"no session", nil, transcription.ErrSessionNotActive, "/audio", http.StatusConflict, "session_not_active"},
		{"broken socket", nil, fmt.Errorf("%w: broken pipe", transcription.ErrTransport), "/audio", http.StatusBadGateway, "transport_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestHandler(&mockTranscriber{startErr: tt.startErr, sendErr: tt.sendErr})

			rec := doRequest(e, http.MethodPost, "/v1/transcription"+tt.path, echo.MIMEApplicationJSON, `{"samples":[1]}`)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if apiErr := decodeAPIError(t, rec); apiErr.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, apiErr.Code)
			}
		})
	}
}

func TestHandler_AudioBadBodies(t *testing.T) {
	relay := &mockTranscriber{active: true}
	e, _ := newTestHandler(relay)

	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
	}{
		{"invalid json", echo.MIMEApplicationJSON, `{"samples":`, http.StatusBadRequest},
		{"sample out of range", echo.MIMEApplicationJSON, `{"samples":[40000]}`, http.StatusBadRequest},
		{"odd pcm length", echo.MIMEOctetStream, "\x01\x02\x03", http.StatusBadRequest},
		{"unknown content type", "text/plain", "hello", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/v1/transcription/audio", tt.contentType, tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	if n := len(relay.received()); n != 0 {
		t.Errorf("no chunk should reach the relay, got %d", n)
	}
}

func TestHandler_AudioTooLarge(t *testing.T) {
	relay := &mockTranscriber{active: true}
	e, _ := newTestHandler(relay)

	body := strings.Repeat("\x00", maxAudioBody+2)
	rec := doRequest(e, http.MethodPost, "/v1/transcription/audio", echo.MIMEOctetStream, body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}

	apiErr := decodeAPIError(t, rec)
	if apiErr.Code != "payload_too_large" {
		t.Errorf("expected code payload_too_large, got %q", apiErr.Code)
	}
	details, ok := apiErr.Details.(map[string]any)
	if !ok || details["limit_bytes"] != float64(maxAudioBody) {
		t.Errorf("expected limit_bytes %d in details, got %v", maxAudioBody, apiErr.Details)
	}
	if n := len(relay.received()); n != 0 {
		t.Errorf("no chunk should reach the relay, got %d", n)
	}
}

func TestHandler_Status(t *testing.T) {
	relay := &mockTranscriber{active: true}
	e, hub := newTestHandler(relay)
	hub.Subscribe("sse")

	rec := doRequest(e, http.MethodGet, "/v1/transcription/status", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Active || resp.Subscribers != 1 {
		t.Errorf("unexpected status %+v", resp)
	}
}

func TestHandler_EventsStream(t *testing.T) {
	e, hub := newTestHandler(&mockTranscriber{})
	server := httptest.NewServer(e)
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/transcription/events")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %q", ct)
	}

	waitFor(t, func() bool { return hub.SubscriberCount() == 1 })
	hub.EmitTranscript(transcription.TranscriptEvent{Text: "streamed", Final: false})

	reader := bufio.NewReader(resp.Body)
	eventLine, _ := reader.ReadString('\n')
	dataLine, _ := reader.ReadString('\n')

	if eventLine != "event: transcript\n" {
		t.Errorf("unexpected event line %q", eventLine)
	}
	if dataLine != "data: {\"text\":\"streamed\",\"final\":false}\n" {
		t.Errorf("unexpected data line %q", dataLine)
	}
}

func TestHandler_WebSocket(t *testing.T) {
	relay := &mockTranscriber{}
	e, hub := newTestHandler(relay)
	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + server.URL[4:] + "/v1/transcription/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	readEnvelope := func() map[string]any {
		t.Helper()
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		var env map[string]any
		if err := ws.ReadJSON(&env); err != nil {
			t.Fatalf("read envelope: %v", err)
		}
		return env
	}

	// audio before start surfaces the relay error on the socket
	if err := ws.WriteMessage(websocket.BinaryMessage, audio.SamplesToPCM([]int16{1})); err != nil {
		t.Fatalf("write: %v", err)
	}
	env := readEnvelope()
	if env["event"] != "error" {
		t.Fatalf("expected error envelope, got %v", env)
	}
	if payload := env["payload"].(map[string]any); payload["code"] != "session_not_active" {
		t.Errorf("expected session_not_active, got %v", payload["code"])
	}

	if err := ws.WriteJSON(Command{Type: CommandStart}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	waitFor(t, relay.Active)

	if err := ws.WriteMessage(websocket.BinaryMessage, audio.SamplesToPCM([]int16{5, 6})); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	waitFor(t, func() bool { return len(relay.received()) == 1 })

	hub.EmitTranscript(transcription.TranscriptEvent{Text: "from speech", Final: true})
	env = readEnvelope()
	if env["event"] != "transcript" {
		t.Fatalf("expected transcript envelope, got %v", env)
	}
	if payload := env["payload"].(map[string]any); payload["text"] != "from speech" || payload["final"] != true {
		t.Errorf("unexpected payload %v", payload)
	}

	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"rewind"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if env := readEnvelope(); env["payload"].(map[string]any)["code"] != "invalid_command" {
		t.Errorf("expected invalid_command, got %v", env)
	}

	if err := ws.WriteJSON(Command{Type: CommandStop}); err != nil {
		t.Fatalf("write stop: %v", err)
	}
	waitFor(t, func() bool { return !relay.Active() })

	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	waitFor(t, func() bool { return hub.SubscriberCount() == 0 })

	if starts, stops := relay.counts(); starts != 1 || stops != 1 {
		t.Errorf("expected 1 start and 1 stop, got %d and %d", starts, stops)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}
