// Package session keeps calculator engines alive between HTTP requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"basic-calculator/internal/engine"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrCapacity = errors.New("session store at capacity")
)

// Session is one calculator addressed by ID. Commands on a session are
// applied one at a time, in arrival order.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *engine.Engine
	lastUsed time.Time
}

// Do runs fn with exclusive access to the session's engine and returns the
// resulting snapshot.
func (s *Session) Do(fn func(*engine.Engine)) engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fn != nil {
		fn(s.engine)
	}
	return s.engine.Snapshot()
}

// Snapshot returns the current state without changing it.
func (s *Session) Snapshot() engine.Snapshot {
	return s.Do(nil)
}

// Config bounds a Store.
type Config struct {
	MaxSessions      int
	IdleTimeout      time.Duration
	MaxDisplayLength int
}

// Store is an in-memory, concurrency-safe set of sessions.
type Store struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore builds an empty store. A zero MaxSessions or IdleTimeout disables
// that limit.
func NewStore(cfg Config) *Store {
	return &Store{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with a fresh engine.
func (st *Store) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.cfg.MaxSessions > 0 && len(st.sessions) >= st.cfg.MaxSessions {
		return nil, fmt.Errorf("%w: %d sessions", ErrCapacity, len(st.sessions))
	}

	var opts []engine.Option
	if st.cfg.MaxDisplayLength > 0 {
		opts = append(opts, engine.WithMaxDisplayLength(st.cfg.MaxDisplayLength))
	}

	now := st.now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		engine:    engine.New(opts...),
		lastUsed:  now,
	}
	st.sessions[s.ID] = s
	return s, nil
}

// Get looks up a session and marks it as used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.mu.Lock()
	s.lastUsed = st.now()
	s.mu.Unlock()
	return s, nil
}

// Delete removes a session. Unknown IDs return ErrNotFound.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(st.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle since before now-IdleTimeout and returns how many
// were removed.
func (st *Store) Sweep(now time.Time) int {
	if st.cfg.IdleTimeout <= 0 {
		return 0
	}

	cutoff := now.Add(-st.cfg.IdleTimeout)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := s.lastUsed.Before(cutoff)
		s.mu.Unlock()

		if idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done. onSweep, if set, receives the
// number of sessions removed by each pass.
func (st *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := st.Sweep(st.now())
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
