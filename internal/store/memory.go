// internal/store/memory.go
//
// In-memory registry of play sessions.
//
// Sessions are not safe for concurrent use, so every access goes through
// With, which holds a per-session mutex for the duration of the callback.
// The registry map itself is guarded by an RWMutex (concurrent lookups,
// exclusive inserts/deletes). State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/alphabet-game/internal/session"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Entry is a stored session plus ownership metadata.
type Entry struct {
	ID      string
	Owner   Owner
	Session *session.Session
	Daily   bool // plays the word of the day instead of random words

	mu       sync.Mutex
	lastUsed time.Time
}

// Owner identifies who plays a session: a signed-in user or an anonymous cookie.
type Owner struct {
	UserID      string
	AnonymousID string
}

// Store defines the session registry used by the HTTP layer.
type Store interface {
	// Create registers s and returns its new ID.
	Create(ctx context.Context, owner Owner, s *session.Session) (string, error)

	// With runs fn with exclusive access to the session.
	// Returns ErrNotFound if the ID is unknown, otherwise fn's error.
	With(ctx context.Context, id string, fn func(*Entry) error) error

	// Delete forgets a session.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions idle for longer than maxIdle and returns how many.
	Sweep(ctx context.Context, maxIdle time.Duration) int
}

// memory is a map-based Store implementation.
type memory struct {
	mu      sync.RWMutex      // guards entries
	entries map[string]*Entry // keyed by Entry.ID
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{entries: make(map[string]*Entry), now: time.Now}
}

// Create adds the session under a fresh random ID.
func (m *memory) Create(ctx context.Context, owner Owner, s *session.Session) (string, error) {
	e := &Entry{ID: uuid.NewString(), Owner: owner, Session: s, lastUsed: m.now()}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return e.ID, nil
}

// With looks up the entry and serializes fn against other callers of the same session.
func (m *memory) With(ctx context.Context, id string, fn func(*Entry) error) error {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = m.now()
	return fn(e)
}

// Delete removes the entry; unknown IDs are not an error.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Sweep drops idle sessions. Entries in use are skipped.
func (m *memory) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			delete(m.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}
