package transcription

import "context"

type Transcriber interface {
	Start(ctx context.Context) error
	SendAudio(ctx context.Context, samples []int16) error
	Stop(ctx context.Context) error
	Active() bool
}

var _ Transcriber = (*Registry)(nil)
