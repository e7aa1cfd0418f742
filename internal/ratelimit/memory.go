package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore counts submissions per client identity in fixed time
// buckets, entirely in process. Counters reset on restart.
//
// The window is a fixed-size bucket, not a sliding log: a client can send
// up to twice the limit across a bucket boundary. This approximation is
// part of the documented policy; do not change it silently.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
	now     func() time.Time
}

type windowEntry struct {
	count       int
	windowStart time.Time
}

// NewMemoryStore creates a MemoryStore admitting at most limit
// submissions per identity per window.
func NewMemoryStore(limit int, window time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow implements Gate. The increment-and-check is performed under the
// store lock so concurrent requests from one identity cannot exceed the
// limit through a race.
func (s *MemoryStore) Allow(_ context.Context, identity string) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[identity]
	if !ok || now.Sub(ent.windowStart) >= s.window {
		s.entries[identity] = &windowEntry{count: 1, windowStart: now}
		return true, nil
	}

	ent.count++
	return ent.count <= s.limit, nil
}

// Cleanup evicts entries whose window has expired.
func (s *MemoryStore) Cleanup() {
	cutoff := s.now().Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.windowStart.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor starts a goroutine that evicts expired entries
// periodically. Stop it by cancelling the context.
func (s *MemoryStore) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
