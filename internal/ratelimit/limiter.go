// Package ratelimit implements a per-key sliding-window limiter over an
// injected store.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store records hits and reports whether key still has room in the window.
// Implementations must be safe for concurrent use.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (allowed bool, remaining int, err error)
}

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter applies one limit/window pair to many keys
// ⭐ SSOT: 클라이언트별 요청 제한은 여기서만
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// New creates a limiter allowing limit hits per key per window
func New(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a hit for key
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	allowed, remaining, err := l.store.Hit(ctx, key, now, l.window, l.limit)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   now.Add(l.window),
	}, nil
}

// Window returns the sliding window length
func (l *Limiter) Window() time.Duration {
	return l.window
}

// MemoryStore is a process-local Store. State is lost on restart.
type MemoryStore struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hits: make(map[string][]time.Time)}
}

// Hit drops timestamps older than the window, then records now if under limit
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	kept := s.hits[key][:0]
	for _, t := range s.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		s.hits[key] = kept
		return false, 0, nil
	}

	kept = append(kept, now)
	s.hits[key] = kept
	return true, limit - len(kept), nil
}

// Sweep removes keys with no hits inside window
func (s *MemoryStore) Sweep(now time.Time, window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	removed := 0
	for key, ts := range s.hits {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(s.hits, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}
