package transcription

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const maxFrameSize = 512 * 1024

// socket is the shared transport under both halves. Either half may tear it down; the
// first shutdown wins.
type socket struct {
	conn *websocket.Conn
	once sync.Once
}

func (s *socket) shutdown() {
	s.once.Do(func() {
		_ = s.conn.Close()
	})
}

// inbound is the read half. It is owned by exactly one event pump.
type inbound struct {
	sock *socket
}

func (in *inbound) next() (int, []byte, error) {
	return in.sock.conn.ReadMessage()
}

func (in *inbound) close() {
	in.sock.shutdown()
}

// outbound is the write half stored in the registry slot. mu keeps one frame in flight.
type outbound struct {
	sock       *socket
	closeGrace time.Duration

	mu     sync.Mutex
	closed bool
}

func (o *outbound) writeBinary(ctx context.Context, data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := o.sock.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return o.sock.conn.WriteMessage(websocket.BinaryMessage, data)
}

// close sends a normal-closure frame and lets the remote acknowledge it so the pump can
// drain late results. The socket is torn down after closeGrace regardless.
func (o *outbound) close(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	deadline, _ := ctx.Deadline()
	_ = o.sock.conn.SetWriteDeadline(deadline)

	err := o.sock.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		o.sock.shutdown()
		return err
	}

	time.AfterFunc(o.closeGrace, o.sock.shutdown)
	return nil
}

func listenURL(cfg Config) (string, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid listen url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("invalid listen url scheme %q", u.Scheme)
	}

	q := u.Query()
	q.Set("encoding", EncodingLinear16)
	q.Set("sample_rate", strconv.Itoa(DefaultSampleRate))
	q.Set("punctuate", "true")
	q.Set("interim_results", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func authHeader(scheme, apiKey string) http.Header {
	h := http.Header{}
	h.Set("Authorization", fmt.Sprintf("%s %s", scheme, apiKey))
	return h
}

func dial(ctx context.Context, dialer *websocket.Dialer, cfg Config, apiKey string) (*inbound, *outbound, error) {
	target, err := listenURL(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	conn, resp, err := dialer.DialContext(ctx, target, authHeader(cfg.AuthScheme, apiKey))
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrHandshake, resp.Status, err)
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	conn.SetReadLimit(maxFrameSize)

	sock := &socket{conn: conn}
	return &inbound{sock: sock}, &outbound{sock: sock, closeGrace: cfg.CloseGrace}, nil
}
