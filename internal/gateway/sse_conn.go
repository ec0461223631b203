package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const sseKeepAliveInterval = 30 * time.Second

// SSEConn streams hub events to one Server-Sent Events client.
type SSEConn struct {
	writer    http.ResponseWriter
	flusher   http.Flusher
	sub       *Subscriber
	keepAlive time.Duration
}

func NewSSEConn(w http.ResponseWriter, sub *Subscriber, keepAlive time.Duration) (*SSEConn, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, http.ErrNotSupported
	}
	if keepAlive <= 0 {
		keepAlive = sseKeepAliveInterval
	}

	return &SSEConn{
		writer:    w,
		flusher:   flusher,
		sub:       sub,
		keepAlive: keepAlive,
	}, nil
}

// Run writes events until the client goes away or the subscription ends.
func (c *SSEConn) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-c.sub.Events():
			if !ok {
				return nil
			}
			data, err := json.Marshal(evt)
			if err != nil {
				return err
			}
			if err := c.writeEvent(EventTranscript, data); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.writeKeepAlive(); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *SSEConn) writeEvent(event EventType, data []byte) error {
	if _, err := c.writer.Write([]byte("event: " + string(event) + "\n")); err != nil {
		return err
	}
	if _, err := c.writer.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := c.writer.Write(data); err != nil {
		return err
	}
	if _, err := c.writer.Write([]byte("\n\n")); err != nil {
		return err
	}

	c.flusher.Flush()
	return nil
}

func (c *SSEConn) writeKeepAlive() error {
	if _, err := c.writer.Write([]byte(":keepalive\n\n")); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}
