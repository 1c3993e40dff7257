package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	userID    uint64
	expiresAt time.Time
}

// MemoryStore is the in-process fallback used when Redis is unreachable at
// startup.  Unlike the naive token map it replaces, entries carry an
// expiry and a janitor goroutine sweeps them, so the table cannot grow
// without bound.  Sessions still die with the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	done    chan struct{}
}

// NewMemoryStore returns a running store.  sweepEvery controls how often
// expired entries are collected; Get never returns an expired entry even
// between sweeps.
func NewMemoryStore(sweepEvery time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go s.janitor(sweepEvery)
	return s
}

func (s *MemoryStore) Put(_ context.Context, token string, userID uint64, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[token] = entry{userID: userID, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (uint64, error) {
	s.mu.RLock()
	e, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return 0, ErrNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() {
	close(s.done)
}

func (s *MemoryStore) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for token, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
