package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/eleven-am/transcribe-relay/internal/audio"
	"github.com/eleven-am/transcribe-relay/internal/transcription"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSConn is one UI client. Binary frames are audio chunks for the relay, text frames are
// commands. Transcript events and command errors flow back as JSON envelopes.
type WSConn struct {
	ws     *websocket.Conn
	relay  transcription.Transcriber
	sub    *Subscriber
	logger *slog.Logger

	replies   chan *Envelope
	done      chan struct{}
	closeOnce sync.Once
}

func NewWSConn(ws *websocket.Conn, relay transcription.Transcriber, sub *Subscriber, logger *slog.Logger) *WSConn {
	return &WSConn{
		ws:      ws,
		relay:   relay,
		sub:     sub,
		logger:  logger.With("subscriber_id", sub.ID()),
		replies: make(chan *Envelope, 16),
		done:    make(chan struct{}),
	}
}

func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

func (c *WSConn) reply(env *Envelope) {
	select {
	case c.replies <- env:
	case <-c.done:
	default:
		eventsDropped.WithLabelValues("ws").Inc()
		c.logger.Warn("reply buffer full, dropping message")
	}
}

func (c *WSConn) replyError(err error) {
	_, code := classify(err)
	c.reply(errorEnvelope(code, err.Error()))
}

func (c *WSConn) readPump(ctx context.Context) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		switch messageType {
		case websocket.BinaryMessage:
			c.handleAudio(ctx, message)
		case websocket.TextMessage:
			c.handleCommand(ctx, message)
		}
	}
}

func (c *WSConn) handleAudio(ctx context.Context, pcm []byte) {
	if len(pcm)%audio.BytesPerSample != 0 {
		c.replyError(ErrOddAudioLength)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	if err := c.relay.SendAudio(sendCtx, audio.PCMBytesToInt16(pcm)); err != nil {
		c.replyError(err)
	}
}

func (c *WSConn) handleCommand(ctx context.Context, message []byte) {
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(errorEnvelope("invalid_command", "command must be a JSON object"))
		return
	}

	var err error
	switch cmd.Type {
	case CommandStart:
		err = c.relay.Start(ctx)
	case CommandStop:
		err = c.relay.Stop(ctx)
	default:
		c.reply(errorEnvelope("invalid_command", "unknown command "+string(cmd.Type)))
		return
	}
	if err != nil {
		c.replyError(err)
	}
}

func (c *WSConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		var env *Envelope
		select {
		case evt, ok := <-c.sub.Events():
			if !ok {
				_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			env = transcriptEnvelope(evt)
		case env = <-c.replies:
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		case <-c.done:
			return
		}

		data, err := json.Marshal(env)
		if err != nil {
			c.logger.Error("failed to marshal message", "error", err)
			continue
		}
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
			c.logger.Debug("websocket write error", "error", err)
			return
		}
	}
}
