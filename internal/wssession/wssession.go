// Package wssession adapts a gorilla/websocket connection into a hub.Session.
//
// Each connection gets a buffered send channel drained by a write pump that
// owns the conn for writes, and a read pump feeding submissions into the
// hub. A full buffer or a write error marks the session failed; the hub
// reacts by removing it from the registry.
package wssession

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go.mkw.dev/clipfeed/internal/hub"
	"go.mkw.dev/clipfeed/internal/protocol"
)

const (
	// MaxMessageSize is the largest frame accepted from a client (20 MiB,
	// sized for base64-encoded screenshots).
	MaxMessageSize = 20 * 1024 * 1024

	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

var errSendBufferFull = errors.New("send buffer full")

// Session wraps a single WebSocket connection as a hub.Session.
type Session struct {
	id     string
	conn   *websocket.Conn
	sendCh chan *protocol.Message

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(conn *websocket.Conn) *Session {
	// Never the remote address: OS port reuse could let a newcomer collide
	// with a dying session whose deferred disconnect would then evict it.
	return &Session{
		id:     uuid.NewString(),
		conn:   conn,
		sendCh: make(chan *protocol.Message, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// Send queues msg for delivery. It never blocks: a closed session or a full
// buffer (a consumer too slow to keep up with the feed) returns an error,
// which the hub treats as a disconnect.
func (s *Session) Send(msg *protocol.Message) error {
	select {
	case <-s.done:
		return net.ErrClosed
	default:
	}
	select {
	case s.sendCh <- msg:
		return nil
	case <-s.done:
		return net.ErrClosed
	default:
		return errSendBufferFull
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// writePump drains the send channel onto the connection. It owns all writes;
// a failed or timed-out write closes the session.
func (s *Session) writePump() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.sendCh:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				slog.Debug("write failed", "session", s.id, "err", err)
				s.close()
				return
			}
		}
	}
}

// readPump feeds inbound frames into the hub until the connection drops.
// Frames that don't decode are skipped; decoded submissions with unknown or
// reserved types are dropped by the hub's validation.
func (s *Session) readPump(h *hub.Hub) {
	defer func() {
		h.Disconnect(s)
		s.close()
	}()

	s.conn.SetReadLimit(MaxMessageSize)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("read failed", "session", s.id, "err", err)
			}
			return
		}
		sub, err := protocol.DecodeSubmission(data)
		if err != nil {
			slog.Debug("unparseable frame skipped", "session", s.id, "err", err)
			continue
		}
		h.Submit(s, *sub)
	}
}

// Handler upgrades HTTP requests to WebSocket sessions attached to h.
// The first message every new session receives is a full sync.
func Handler(h *hub.Hub) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		// The relay is meant to be exposed through a tunnel and carries no
		// auth; browser origin gives no security boundary here.
		CheckOrigin: func(*http.Request) bool { return true },
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		s := newSession(conn)
		go s.writePump()
		h.Connect(s)
		s.readPump(h)
	})
}
