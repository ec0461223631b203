package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/go-audio/wav"

	"github.com/eleven-am/transcribe-relay/internal/audio"
	"github.com/eleven-am/transcribe-relay/internal/transcription"
)

var errEmptyAudio = errors.New("audio file contains no samples")

// loadMono16k decodes path into 16 kHz mono samples. Files without a RIFF/WAVE header are
// read as raw s16le at rawRate with rawChans interleaved channels.
func loadMono16k(path string, rawRate, rawChans int) ([]int16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	var samples []int16
	rate, chans := rawRate, rawChans

	dec := wav.NewDecoder(bytes.NewReader(data))
	if dec.IsValidFile() {
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("decode wav: %w", err)
		}
		samples, err = intsToInt16(buf.Data, int(dec.BitDepth))
		if err != nil {
			return nil, err
		}
		rate, chans = buf.Format.SampleRate, buf.Format.NumChannels
	} else {
		samples = audio.PCMBytesToInt16(data)
	}

	if chans > 1 {
		samples = audio.Downmix(samples, chans)
	}
	if rate != transcription.DefaultSampleRate {
		samples = audio.ResampleInt16(samples, rate, transcription.DefaultSampleRate)
	}
	if len(samples) == 0 {
		return nil, errEmptyAudio
	}
	return samples, nil
}

func intsToInt16(data []int, bitDepth int) ([]int16, error) {
	out := make([]int16, len(data))
	switch bitDepth {
	case 8:
		for i, v := range data {
			out[i] = int16((v - 128) << 8)
		}
	case 16:
		for i, v := range data {
			out[i] = int16(v)
		}
	case 24:
		for i, v := range data {
			out[i] = int16(v >> 8)
		}
	case 32:
		for i, v := range data {
			out[i] = int16(v >> 16)
		}
	default:
		return nil, fmt.Errorf("unsupported wav bit depth %d", bitDepth)
	}
	return out, nil
}

func chunkSamples(samples []int16, size int) [][]int16 {
	if size <= 0 {
		size = len(samples)
	}
	chunks := make([][]int16, 0, (len(samples)+size-1)/size)
	for start := 0; start < len(samples); start += size {
		end := min(start+size, len(samples))
		chunks = append(chunks, samples[start:end])
	}
	return chunks
}

// printer renders transcripts on a terminal: interim results overwrite the current line.
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	interim bool
	width   int
}

func (p *printer) EmitTranscript(evt transcription.TranscriptEvent) {
	if !evt.Final && !p.interim {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	text := strings.TrimSpace(evt.Text)
	pad := ""
	if p.width > len(text) {
		pad = strings.Repeat(" ", p.width-len(text))
	}

	if evt.Final {
		fmt.Fprintf(p.out, "\r%s%s\n", text, pad)
		p.width = 0
		return
	}
	fmt.Fprintf(p.out, "\r%s%s", text, pad)
	p.width = len(text)
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func credentials(o options) transcription.CredentialSource {
	if o.apiKey != "" {
		return transcription.StaticCredentials(o.apiKey)
	}
	return transcription.EnvCredentials{Name: o.apiKeyEnv, Files: []string{o.envFile}}
}

func run(ctx context.Context, path string, o options, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	samples, err := loadMono16k(path, o.rawRate, o.rawChans)
	if err != nil {
		return err
	}

	chunkSize := int(o.chunk.Seconds() * transcription.DefaultSampleRate)
	chunks := chunkSamples(samples, chunkSize)

	cfg := transcription.DefaultConfig()
	cfg.URL = o.url
	registry := transcription.NewRegistry(cfg, credentials(o), &printer{out: stdout, interim: o.interim}, newLogger(o.logLevel, stderr))

	if err := registry.Start(ctx); err != nil {
		return err
	}

	var sendErr error
	for _, chunk := range chunks {
		if err := registry.SendAudio(ctx, chunk); err != nil {
			sendErr = err
			break
		}
		if o.realtime {
			select {
			case <-time.After(o.chunk):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			break
		}
	}

	_ = registry.Stop(context.Background())

	if sendErr == nil && ctx.Err() == nil && o.drain > 0 {
		select {
		case <-time.After(o.drain):
		case <-ctx.Done():
		}
	}
	return sendErr
}
