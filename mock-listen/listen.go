package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

const silenceRMS = 100.0

type alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type results struct {
	Type     string  `json:"type"`
	IsFinal  bool    `json:"is_final"`
	Duration float64 `json:"duration"`
	Channel  struct {
		Alternatives []alternative `json:"alternatives"`
	} `json:"channel"`
}

type metadata struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
}

// listenServer imitates a streaming speech endpoint: every binary frame yields an interim
// result, every finalEvery-th frame a final one. Quiet frames produce an empty transcript.
type listenServer struct {
	apiKey     string
	finalEvery int
	upgrader   websocket.Upgrader
}

func (s *listenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if auth != "Token "+s.apiKey {
		fmt.Printf("[MOCK] Rejected handshake, Authorization=%q\n", auth)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	if q.Get("encoding") != "linear16" || q.Get("sample_rate") == "" {
		http.Error(w, "expected encoding=linear16 and sample_rate", http.StatusBadRequest)
		return
	}
	rate := 16000
	fmt.Sscanf(q.Get("sample_rate"), "%d", &rate)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("[MOCK] Upgrade failed: %v\n", err)
		return
	}
	defer conn.Close()

	fmt.Printf("[MOCK] Session opened, query=%s\n", r.URL.RawQuery)
	s.serve(conn, rate)
	fmt.Println("[MOCK] Session closed")
}

func (s *listenServer) serve(conn *websocket.Conn, rate int) {
	// answer the client's close only after pending words are flushed
	conn.SetCloseHandler(func(code int, text string) error { return nil })
	_ = writeJSON(conn, metadata{Type: "Metadata", RequestID: "mock"})

	var words []string
	frames := 0

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if len(words) > 0 {
				_ = writeJSON(conn, result(strings.Join(words, " "), true, 0))
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			} else {
				fmt.Printf("[MOCK] Read error: %v\n", err)
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			fmt.Printf("[MOCK] Ignoring text frame: %s\n", string(data))
			continue
		}

		frames++
		duration := float64(len(data)/2) / float64(rate)

		if rms(data) < silenceRMS {
			if err := writeJSON(conn, result("", false, duration)); err != nil {
				return
			}
			continue
		}

		words = append(words, fmt.Sprintf("word%d", frames))
		final := frames%s.finalEvery == 0
		if err := writeJSON(conn, result(strings.Join(words, " "), final, duration)); err != nil {
			return
		}
		if final {
			words = words[:0]
		}
	}
}

func result(text string, final bool, duration float64) results {
	var r results
	r.Type = "Results"
	r.IsFinal = final
	r.Duration = duration
	r.Channel.Alternatives = []alternative{{Transcript: text, Confidence: 0.99}}
	return r
}

func writeJSON(conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func rms(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		v := float64(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
		sum += v * v
	}
	return math.Sqrt(sum / float64(n))
}
