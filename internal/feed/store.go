// Package feed holds the in-memory item log and its TTL sweeper.
// The log is the source of truth for the live feed: insertion-ordered,
// no duplicate suppression, owned by the hub for its process lifetime.
package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"go.mkw.dev/clipfeed/internal/protocol"
)

// Store is an ordered, mutex-guarded log of clipboard items. Appends and
// expiry swaps serialize on one lock so a sweep can never interleave with
// a half-applied append.
type Store struct {
	mu    sync.RWMutex
	items []protocol.Item
	last  time.Time // timestamp of the most recent append

	now func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Append assigns an id and timestamp to the candidate, appends it, and
// returns the stored item. Timestamps are clamped to the previous append so
// created_at is non-decreasing in insertion order even if the wall clock
// steps backwards. Identical content still becomes a new item.
func (s *Store) Append(sub protocol.Submission) protocol.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts.Before(s.last) {
		ts = s.last
	}
	s.last = ts

	item := protocol.Item{
		ID:        uuid.NewString(),
		Kind:      sub.Kind,
		Data:      sub.Data,
		Name:      sub.Name,
		CreatedAt: protocol.UnixTime{Time: ts},
	}
	s.items = append(s.items, item)
	return item
}

// Snapshot returns a copy of the current contents. The copy reflects a
// consistent point in time; concurrent appends are never visible partially.
func (s *Store) Snapshot() []protocol.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]protocol.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Replace atomically swaps the entire contents.
func (s *Store) Replace(items []protocol.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]protocol.Item(nil), items...)
}

// Expire removes every item whose age at now meets or exceeds ttl, as one
// atomic filter-and-swap. It returns the kept items and how many were
// removed; removed == 0 means the store was left untouched.
func (s *Store) Expire(ttl time.Duration, now time.Time) ([]protocol.Item, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]protocol.Item, 0, len(s.items))
	for _, it := range s.items {
		if now.Sub(it.CreatedAt.Time) < ttl {
			kept = append(kept, it)
		}
	}
	removed := len(s.items) - len(kept)
	if removed > 0 {
		s.items = kept
	}
	out := make([]protocol.Item, len(kept))
	copy(out, kept)
	return out, removed
}

// Len returns the current item count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
