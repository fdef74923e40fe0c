// Package watcher implements the resilient clipboard change-detection loop.
//
// While connected it polls the local clipboard for text and image content,
// hashes each modality independently, and publishes a submission whenever a
// modality's content differs from the last content sent for that modality.
// On any transport failure it drops to a fixed backoff and redials forever;
// the dedup state survives reconnects so resuming a session never re-sends
// unchanged content.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"go.mkw.dev/clipfeed/internal/clip"
	"go.mkw.dev/clipfeed/internal/protocol"
)

const (
	DefaultServerURL    = "ws://localhost:9000/ws"
	DefaultPollInterval = 500 * time.Millisecond
	DefaultBackoff      = 2 * time.Second

	// imageLabel is the filename hint attached to published images.
	imageLabel = "clipboard.png"
)

// Conn is the slice of a WebSocket connection the watcher uses.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a connection to the relay.
type Dialer func(ctx context.Context) (Conn, error)

// Dial returns a Dialer for the given ws:// or wss:// URL.
func Dial(url string) Dialer {
	return func(ctx context.Context) (Conn, error) {
		d := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
		conn, _, err := d.DialContext(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// Watcher publishes local clipboard changes to the relay.
type Watcher struct {
	backend clip.Backend
	dial    Dialer
	poll    time.Duration
	backoff time.Duration

	// modality → hash of the content last successfully sent. Tracked per
	// modality so a text update never suppresses an identical image update
	// or vice versa.
	lastSent map[string]string
}

// New returns a Watcher over the given clipboard backend and dialer.
// Non-positive intervals fall back to the defaults.
func New(backend clip.Backend, dial Dialer, poll, backoff time.Duration) *Watcher {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Watcher{
		backend:  backend,
		dial:     dial,
		poll:     poll,
		backoff:  backoff,
		lastSent: make(map[string]string),
	}
}

// Run drives the connect/poll/backoff state machine until ctx is cancelled.
// There is no retry limit; the watcher is expected to run unattended.
func (w *Watcher) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := w.dial(ctx)
		if err != nil {
			slog.Warn("connection failed", "err", err, "retry_in", w.backoff)
			if !sleep(ctx, w.backoff) {
				return
			}
			continue
		}
		slog.Info("connected, polling clipboard", "interval", w.poll)
		w.session(ctx, conn)
		slog.Warn("disconnected, reconnecting", "retry_in", w.backoff)
		if !sleep(ctx, w.backoff) {
			return
		}
	}
}

// session polls until the connection fails or ctx is cancelled.
func (w *Watcher) session(ctx context.Context, conn Conn) {
	defer conn.Close()

	// The hub broadcasts every event to all sessions, this one included.
	// Drain and discard so the connection doesn't back up, and surface
	// transport closure.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	t := time.NewTicker(w.poll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-readerDone:
			return
		case <-t.C:
			if err := w.pollOnce(conn); err != nil {
				slog.Warn("publish failed", "err", err)
				return
			}
		}
	}
}

// pollOnce checks both modalities and publishes whatever changed. Empty or
// unreadable clipboard content just skips that modality for this cycle; the
// returned error is always a transport error ending the session.
func (w *Watcher) pollOnce(conn Conn) error {
	if text := w.backend.Text(); len(strings.TrimSpace(string(text))) > 0 {
		h := hashOf(text)
		if h != w.lastSent[protocol.KindText] {
			if err := conn.WriteJSON(protocol.NewTextSubmission(string(text))); err != nil {
				return err
			}
			w.lastSent[protocol.KindText] = h
			slog.Debug("text published", "bytes", len(text))
		}
	}

	if img := w.backend.Image(); len(img) > 0 {
		h := hashOf(img)
		if h != w.lastSent[protocol.KindImage] {
			if err := conn.WriteJSON(protocol.NewImageSubmission(imageLabel, img)); err != nil {
				return err
			}
			w.lastSent[protocol.KindImage] = h
			slog.Debug("image published", "bytes", len(img))
		}
	}
	return nil
}

func hashOf(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// sleep waits d or until ctx is cancelled, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
