package subscription

import (
	"context"
	"sync"
	"time"
)

// SessionStore remembers created sessions by idempotency key.
type SessionStore interface {
	// Get returns the stored session, or nil when the key is unknown or expired.
	Get(ctx context.Context, key string) (*SessionResult, error)
	// Put stores res under key for ttl. An existing entry is kept.
	Put(ctx context.Context, key string, res SessionResult, ttl time.Duration) error
}

type memoryEntry struct {
	result    SessionResult
	expiresAt time.Time
}

// DefaultSweepInterval is how often MemoryStore drops expired entries.
const DefaultSweepInterval = time.Minute

// MemoryStore is an in-process SessionStore for single instance deployments and tests.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	sweepEach time.Duration
	lastSweep time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often Put drops expired entries.
func WithSweepInterval(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.sweepEach = d
		}
	}
}

// WithStoreClock overrides time.Now, for tests.
func WithStoreClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries:   make(map[string]memoryEntry),
		now:       time.Now,
		sweepEach: DefaultSweepInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (*SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	res := e.result
	return &res, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, res SessionResult, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return nil
	}
	s.entries[key] = memoryEntry{result: res, expiresAt: now.Add(ttl)}

	if now.Sub(s.lastSweep) >= s.sweepEach {
		s.lastSweep = now
		for k, e := range s.entries {
			if !now.Before(e.expiresAt) {
				delete(s.entries, k)
			}
		}
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
