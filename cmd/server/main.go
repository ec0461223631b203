package main

import (
	_ "github.com/eleven-am/transcribe-relay/docs"
	"github.com/eleven-am/transcribe-relay/internal/bootstrap"
)

// @title Transcribe Relay API
// @version 1.0.0
// @description Relays 16 kHz PCM audio to a streaming speech service and fans transcripts out to local clients.

// @BasePath /

func main() {
	bootstrap.Run()
}
