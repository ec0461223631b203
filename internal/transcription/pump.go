package transcription

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

type resultsFrame struct {
	IsFinal json.RawMessage `json:"is_final"`
	Channel json.RawMessage `json:"channel"`
}

type resultsChannel struct {
	Alternatives []json.RawMessage `json:"alternatives"`
}

type resultsAlternative struct {
	Transcript json.RawMessage `json:"transcript"`
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// decodeFrame turns one inbound frame into a transcript event. Any error means the frame
// is dropped; the wrapped reason only feeds logs and metrics. Only
// channel.alternatives[0].transcript and is_final are read, so unrelated fields never
// reject a frame.
func decodeFrame(messageType int, payload []byte) (TranscriptEvent, error) {
	isText := messageType == websocket.TextMessage ||
		(messageType == websocket.BinaryMessage && utf8.Valid(payload))
	if !isText {
		return TranscriptEvent{}, fmt.Errorf("%w: %w", ErrDecode, errNotText)
	}

	var frame resultsFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return TranscriptEvent{}, fmt.Errorf("%w: %w: %v", ErrDecode, errMalformed, err)
	}

	var channel resultsChannel
	if !present(frame.Channel) || json.Unmarshal(frame.Channel, &channel) != nil || len(channel.Alternatives) == 0 {
		return TranscriptEvent{}, fmt.Errorf("%w: %w", ErrDecode, errNoTranscript)
	}
	var first resultsAlternative
	if json.Unmarshal(channel.Alternatives[0], &first) != nil || !present(first.Transcript) {
		return TranscriptEvent{}, fmt.Errorf("%w: %w", ErrDecode, errNoTranscript)
	}

	var transcript string
	if err := json.Unmarshal(first.Transcript, &transcript); err != nil {
		return TranscriptEvent{}, fmt.Errorf("%w: %w: %v", ErrDecode, errMalformed, err)
	}

	if strings.TrimSpace(transcript) == "" {
		return TranscriptEvent{}, fmt.Errorf("%w: %w", ErrDecode, errSilence)
	}

	// is_final is optional; anything but a JSON bool counts as interim
	var final bool
	if len(frame.IsFinal) > 0 {
		_ = json.Unmarshal(frame.IsFinal, &final)
	}

	return TranscriptEvent{Text: transcript, Final: final}, nil
}

type eventPump struct {
	in      *inbound
	emitter Emitter
	logger  *slog.Logger
}

func (p *eventPump) run() {
	pumpsActive.Inc()
	defer pumpsActive.Dec()
	defer p.in.close()

	p.logger.Debug("event pump started")
	for {
		messageType, payload, err := p.in.next()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.logger.Warn("speech stream ended unexpectedly", "error", err)
			} else {
				p.logger.Debug("speech stream closed", "error", err)
			}
			return
		}

		event, err := decodeFrame(messageType, payload)
		if err != nil {
			reason := skipReason(err)
			framesSkipped.WithLabelValues(reason).Inc()
			p.logger.Debug("skipping inbound frame", "reason", reason, "error", err)
			continue
		}

		transcriptsEmitted.WithLabelValues(strconv.FormatBool(event.Final)).Inc()
		if p.emitter != nil {
			p.emitter.EmitTranscript(event)
		}
	}
}
