// Package session keeps one booking engine per visitor.  Sessions live in
// memory only and are dropped after a period of inactivity; a restart
// starts everybody over with an empty selection.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/bus-seat-booking/internal/booking"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session pairs an engine with its id.
type Session struct {
	ID        string
	Engine    *booking.Engine
	CreatedAt time.Time

	lastSeen time.Time
}

// Store is safe for concurrent use.
type Store struct {
	rules booking.Rules
	grid  *booking.Grid
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty store.  Every session gets its own engine built
// from rules and grid.  A ttl of zero disables expiry.
func NewStore(rules booking.Rules, grid *booking.Grid, ttl time.Duration, opts ...Option) (*Store, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if grid == nil {
		return nil, errors.New("session: nil grid")
	}
	s := &Store{
		rules:    rules,
		grid:     grid,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create starts a new session with an empty selection.
func (s *Store) Create() (*Session, error) {
	id, err := randomID(16)
	if err != nil {
		return nil, err
	}
	eng, err := booking.NewEngine(s.rules, s.grid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess := &Session{ID: id, Engine: eng, CreatedAt: now, lastSeen: now}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns the session and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

// Delete removes a session.  Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len is the number of live sessions, expired ones included until the next sweep.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many
// were removed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is cancelled.  onSweep, when not nil,
// receives the number of sessions removed by each pass.
func (s *Store) Run(ctx context.Context, every time.Duration, onSweep func(removed int)) {
	if s.ttl <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := s.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

func randomID(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
