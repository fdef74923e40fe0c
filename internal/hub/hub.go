// Package hub implements the broadcast relay at the centre of clipfeed.
// It is transport-agnostic: sessions register, receive sync/add messages,
// and publish submissions. The hub owns the feed store and is the sole
// assigner of item ids and timestamps.
package hub

import (
	"log/slog"
	"sync"
	"time"

	"go.mkw.dev/clipfeed/internal/feed"
	"go.mkw.dev/clipfeed/internal/protocol"
)

// Session is anything that can receive feed events from the hub.
type Session interface {
	ID() string
	// Send enqueues a message for delivery. It must never block: the hub
	// calls it under its mutation gate, and the actual transport write
	// belongs to the session's own write loop. An error marks the session
	// dead and the hub removes it.
	Send(*protocol.Message) error
}

// Hub routes submissions into the store and fans updates out to every
// connected session. One mutex gates registration, appends, expiry, and
// event enqueueing, so a connecting session's greeting snapshot can never
// interleave with a concurrent add or sweep — its local view starts
// consistent and stays so. Sends are non-blocking enqueues; a session
// whose enqueue fails is removed without affecting delivery to the rest.
type Hub struct {
	store *feed.Store

	mu       sync.Mutex
	sessions map[string]Session
}

// New returns a Hub over the given store.
func New(store *feed.Store) *Hub {
	return &Hub{
		store:    store,
		sessions: make(map[string]Session),
	}
}

// Connect registers a session and greets it with a full sync of the current
// store. Registration, snapshot, and greeting happen under the mutation
// gate: every event enqueued after the greeting reflects a strictly later
// store state. A failed greeting removes the session again.
func (h *Hub) Connect(s Session) {
	h.mu.Lock()
	h.sessions[s.ID()] = s
	total := len(h.sessions)
	err := s.Send(protocol.Sync(h.store.Snapshot()))
	if err != nil {
		delete(h.sessions, s.ID())
	}
	h.mu.Unlock()

	if err != nil {
		slog.Warn("greeting sync failed", "session", s.ID(), "err", err)
		return
	}
	slog.Info("session connected", "session", s.ID(), "total", total)
}

// Disconnect removes a session from the registry. Removing an absent
// session is a no-op.
func (h *Hub) Disconnect(s Session) {
	h.mu.Lock()
	_, present := h.sessions[s.ID()]
	delete(h.sessions, s.ID())
	total := len(h.sessions)
	h.mu.Unlock()

	if present {
		slog.Info("session disconnected", "session", s.ID(), "total", total)
	}
}

// Submit validates a submission, appends it to the store, and broadcasts
// the new item to every connected session, the submitter included.
// Invalid submissions (missing or reserved kind, empty payload) are
// dropped silently — this is a best-effort feed, not a transactional API.
func (h *Hub) Submit(s Session, sub protocol.Submission) {
	if !sub.Valid() {
		slog.Debug("submission dropped", "session", s.ID(), "kind", sub.Kind)
		return
	}

	h.mu.Lock()
	item := h.store.Append(sub)
	h.broadcastLocked(protocol.Add(item))
	h.mu.Unlock()

	logItem("item appended", s.ID(), item)
}

// Sweep expires items older than ttl at now and, when anything was removed,
// pushes a full sync of the survivors to every session. Expiry and fan-out
// share the mutation gate with Submit and Connect, so a sweep can never
// land between an append and its broadcast. Implements feed.SweepFunc.
func (h *Hub) Sweep(ttl time.Duration, now time.Time) int {
	h.mu.Lock()
	kept, removed := h.store.Expire(ttl, now)
	if removed > 0 {
		h.broadcastLocked(protocol.Sync(kept))
	}
	h.mu.Unlock()

	if removed > 0 {
		slog.Info("expired items swept", "removed", removed, "kept", len(kept))
	}
	return removed
}

// broadcastLocked enqueues msg to every connected session, dropping any
// whose enqueue fails. Must be called with h.mu held; Send implementations
// never block, so holding the gate across the loop is cheap and is what
// guarantees every session sees events in hub processing order.
func (h *Hub) broadcastLocked(msg *protocol.Message) {
	for id, s := range h.sessions {
		if err := s.Send(msg); err != nil {
			slog.Warn("send failed, dropping session", "session", id, "err", err)
			delete(h.sessions, id)
		}
	}
}

// Sessions returns the current number of connected sessions.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
