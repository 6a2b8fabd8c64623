package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	mu       sync.Mutex // serializes calls on s
	s        *Session
	lastUsed time.Time // guarded by Store.mu
}

// Store keeps one independent Session per tenant. Calls for the same
// session are serialized; different sessions never share state.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore creates a store whose idle sessions expire after ttl; ttl <= 0
// keeps sessions until deleted.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{entries: map[string]*entry{}, ttl: ttl, logger: logger, now: time.Now}
}

// Create starts a new session over t.
func (st *Store) Create(t *table.Table, source string) (*Session, error) {
	s := New(WithLogger(st.logger))
	if err := s.Load(t, source); err != nil {
		return nil, err
	}
	st.mu.Lock()
	st.entries[s.ID()] = &entry{s: s, lastUsed: st.now()}
	st.mu.Unlock()
	return s, nil
}

// With runs fn with exclusive access to the session id.
func (st *Store) With(id string, fn func(*Session) error) error {
	st.mu.Lock()
	e, ok := st.entries[id]
	if ok && st.expired(e) {
		delete(st.entries, id)
		ok = false
	}
	if ok {
		e.lastUsed = st.now()
	}
	st.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.entries[id]
	delete(st.entries, id)
	return ok
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// Sweep drops expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, e := range st.entries {
		if st.expired(e) {
			delete(st.entries, id)
			n++
		}
	}
	if n > 0 {
		st.logger.Info("expired sessions removed", zap.Int("count", n))
	}
	return n
}

// expired must be called with st.mu held.
func (st *Store) expired(e *entry) bool {
	return st.ttl > 0 && st.now().Sub(e.lastUsed) > st.ttl
}
