package dashboard

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chatlens/chatlens/internal/chatlog"
)

// Session is one uploaded conversation: the immutable canonical
// log plus its precomputed bundle. Sessions replace the implicit
// "current parsed log" global of older designs, so multiple
// independent analyses can coexist.
type Session struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
	Log       chatlog.Log `json:"-"`
	Bundle    Bundle      `json:"-"`
}

// Store holds live analysis sessions in memory for the process
// lifetime. Logs are never mutated after insertion, so concurrent
// readers are safe; the lock only guards the map itself.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Add builds a session for a parsed log and registers it.
func (s *Store) Add(name string, log chatlog.Log, bundle Bundle) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Log:       log,
		Bundle:    bundle,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a session by ID, or nil when absent.
func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Delete removes a session, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// List returns all sessions, newest first.
func (s *Store) List() []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
