// Package session keeps the outcome of the most recent availability check
// per shopper session, so the result can be consulted again at checkout
// time. Entries expire after a TTL; a new check for the same session
// overwrites the previous entry and refreshes its expiry.
package session

import (
	"sync"
	"time"

	"zip-gate/internal/model"
)

type entry struct {
	result    model.CheckResult
	expiresAt time.Time
}

// Store is an in-memory session-keyed map of check results with TTL
// eviction. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	done    chan struct{}
	closed  sync.Once
	nowFunc func() time.Time
}

// NewStore creates a session store and starts its eviction janitor.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		done:    make(chan struct{}),
		nowFunc: time.Now,
	}

	go s.janitor()

	return s
}

// Put records the last check result for a session, overwriting any prior
// value and refreshing the TTL.
func (s *Store) Put(sessionID string, result model.CheckResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = entry{
		result:    result,
		expiresAt: s.nowFunc().Add(s.ttl),
	}
}

// Get returns the last recorded check result for a session. Expired entries
// are treated as absent.
func (s *Store) Get(sessionID string) (model.CheckResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[sessionID]
	if !ok || s.nowFunc().After(e.expiresAt) {
		return model.CheckResult{}, false
	}

	return e.result, true
}

// Len returns the number of entries currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Close stops the eviction janitor. Safe to call more than once.
func (s *Store) Close() {
	s.closed.Do(func() {
		close(s.done)
	})
}

// janitor periodically removes expired entries.
func (s *Store) janitor() {
	interval := s.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

// evictExpired drops every entry past its expiry.
func (s *Store) evictExpired() {
	now := s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
