package chat

import (
	"errors"
	"sync"
	"time"
)

// ErrNotConnected is returned when a push targets a user with no live
// session. Callers that only notify treat it as a no-op.
var ErrNotConnected = errors.New("user not connected")

// Sender pushes one event to a connected client transport. Kept minimal so
// tests can register fakes in place of real connections.
type Sender interface {
	Send(Event) error
}

// Record tracks one authenticated connection: who it belongs to, which
// transport session carries it, and when it was last active. Process-local,
// never persisted.
type Record struct {
	UserID     string
	Role       string
	SessionID  string
	LastActive time.Time
	Sender     Sender
}

// SessionStore is the injected key-value store behind the registry. The
// interface exists so a multi-device variant (several sessions per user) can
// replace the single-session store without touching calling code.
type SessionStore interface {
	// Put records a session, replacing any prior record for the same user.
	Put(rec *Record)
	// Remove deletes the user's record, but only if it still belongs to the
	// given session id; a stale disconnect must not evict a newer session.
	Remove(userID, sessionID string) bool
	// Get returns the user's current record, if any.
	Get(userID string) (*Record, bool)
	// Touch refreshes the record's last-active time.
	Touch(userID string, at time.Time)
	// Online returns the ids of every connected user.
	Online() []string
	// All returns every current record.
	All() []*Record
}

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemorySessionStore returns the in-process single-session-per-user
// store.
func NewMemorySessionStore() SessionStore {
	return &memoryStore{records: make(map[string]*Record)}
}

func (s *memoryStore) Put(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = rec
}

func (s *memoryStore) Remove(userID, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok || rec.SessionID != sessionID {
		return false
	}
	delete(s.records, userID)
	return true
}

func (s *memoryStore) Get(userID string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	return rec, ok
}

func (s *memoryStore) Touch(userID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[userID]; ok {
		rec.LastActive = at
	}
}

func (s *memoryStore) Online() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids
}

func (s *memoryStore) All() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	return recs
}

// Hub is the connection registry plus presence broadcaster. Register and
// Unregister mutate the session store and announce the resulting online set
// to every connected transport.
type Hub struct {
	store SessionStore
}

// NewHub creates a hub over the given store; nil selects the in-memory
// single-session store.
func NewHub(store SessionStore) *Hub {
	if store == nil {
		store = NewMemorySessionStore()
	}
	return &Hub{store: store}
}

// Register records an authenticated connection. A later connection for the
// same user replaces the earlier mapping; only one active session per user
// is tracked.
func (h *Hub) Register(userID, role, sessionID string, s Sender) {
	h.store.Put(&Record{
		UserID:     userID,
		Role:       role,
		SessionID:  sessionID,
		LastActive: time.Now(),
		Sender:     s,
	})
	h.BroadcastOnline()
}

// Unregister removes the user's session, if the given session still owns the
// record, and announces the shrunk online set. Synchronous: the entry is
// gone before the broadcast fires.
func (h *Hub) Unregister(userID, sessionID string) {
	if h.store.Remove(userID, sessionID) {
		h.BroadcastOnline()
	}
}

// Online returns the ids of currently connected users.
func (h *Hub) Online() []string {
	return h.store.Online()
}

// Touch records send activity on the user's connection.
func (h *Hub) Touch(userID string) {
	h.store.Touch(userID, time.Now())
}

// SendToUser pushes an event to the user's active session. A broken
// connection is dropped from the registry so it cannot go stale.
func (h *Hub) SendToUser(userID string, ev Event) error {
	rec, ok := h.store.Get(userID)
	if !ok {
		return ErrNotConnected
	}
	if err := rec.Sender.Send(ev); err != nil {
		if h.store.Remove(userID, rec.SessionID) {
			h.BroadcastOnline()
		}
		return err
	}
	return nil
}

// BroadcastOnline announces the current online-user set to every connected
// transport, not just the one that triggered the change. Best effort:
// sessions that fail to receive are dropped.
func (h *Hub) BroadcastOnline() {
	ev, err := NewEvent(EventOnlineUsers, h.store.Online())
	if err != nil {
		return
	}

	var failed []*Record
	for _, rec := range h.store.All() {
		if sendErr := rec.Sender.Send(ev); sendErr != nil {
			failed = append(failed, rec)
		}
	}
	for _, rec := range failed {
		h.store.Remove(rec.UserID, rec.SessionID)
	}
}

// OnlineSnapshot builds the on-demand presence event a client may request at
// any time; it contains exactly the registry's current key set.
func (h *Hub) OnlineSnapshot() (Event, error) {
	return NewEvent(EventOnlineUsers, h.store.Online())
}
