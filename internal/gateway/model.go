package gateway

import "github.com/eleven-am/transcribe-relay/internal/transcription"

type EventType string

const (
	EventTranscript EventType = "transcript"
	EventError      EventType = "error"
)

// Envelope is the frame pushed to websocket clients.
type Envelope struct {
	Event   EventType `json:"event"`
	Payload any       `json:"payload"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func transcriptEnvelope(evt transcription.TranscriptEvent) *Envelope {
	return &Envelope{Event: EventTranscript, Payload: evt}
}

func errorEnvelope(code, message string) *Envelope {
	return &Envelope{Event: EventError, Payload: ErrorPayload{Code: code, Message: message}}
}

type CommandType string

const (
	CommandStart CommandType = "start"
	CommandStop  CommandType = "stop"
)

// Command is a text frame sent by websocket clients.
type Command struct {
	Type CommandType `json:"type"`
}

type AudioRequest struct {
	Samples []int16 `json:"samples"`
}

type StatusResponse struct {
	Active      bool `json:"active"`
	Subscribers int  `json:"subscribers"`
}
