package services

import (
	"sync"
	"time"
)

// ttlEntry pairs a value with its absolute expiry.
type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLStore is a small in-memory key/value map with per-entry expiry.
// Expired entries are dropped lazily on read and swept periodically in
// the background. It backs the PIN attempt limiter and the diagnostic
// link tokens; nothing here survives a restart, which is acceptable for
// both uses.
type TTLStore[V any] struct {
	mu      sync.Mutex
	entries map[string]ttlEntry[V]
	done    chan struct{}
	once    sync.Once
}

func NewTTLStore[V any](sweepInterval time.Duration) *TTLStore[V] {
	s := &TTLStore[V]{
		entries: make(map[string]ttlEntry[V]),
		done:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweepLoop(sweepInterval)
	}
	return s
}

func (s *TTLStore[V]) Set(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = ttlEntry[V]{value: value, expiresAt: time.Now().Add(ttl)}
}

func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Take returns and removes the entry in one step, for single-use tokens.
func (s *TTLStore[V]) Take(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	delete(s.entries, key)
	return e.value, true
}

func (s *TTLStore[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Update applies fn to the current value (zero value if absent or
// expired) under the lock and stores the result with a fresh ttl.
func (s *TTLStore[V]) Update(key string, ttl time.Duration, fn func(current V, exists bool) V) V {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if ok && time.Now().After(e.expiresAt) {
		ok = false
	}
	var current V
	if ok {
		current = e.value
	}
	next := fn(current, ok)
	s.entries[key] = ttlEntry[V]{value: next, expiresAt: time.Now().Add(ttl)}
	return next
}

func (s *TTLStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stop ends the background sweep. Safe to call more than once.
func (s *TTLStore[V]) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *TTLStore[V]) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *TTLStore[V]) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}
