package challenge

import (
	"context"
	"sync"
	"time"

	gallery "github.com/naszahistoria/gallery"
)

// memoryStore is a gallery.ChallengeStore held in process memory.
// It backs tests and single node deployments that run without redis.
// Expired entries are dropped lazily on read rather than by a
// background sweeper.
type memoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore returns an in memory gallery.ChallengeStore.
func NewMemoryStore(ttl time.Duration) gallery.ChallengeStore {
	if ttl == 0 {
		ttl = gallery.ChallengeTTL
	}

	return &memoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Put stores challenge data for a username, superseding any
// previous entry.
func (s *memoryStore) Put(ctx context.Context, username string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[username] = memoryEntry{
		data:      data,
		expiresAt: s.now().Add(s.ttl),
	}

	return nil
}

// TakeAndInvalidate removes and returns the challenge data stored for
// a username. Expiry is evaluated at read time.
func (s *memoryStore) TakeAndInvalidate(ctx context.Context, username string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[username]
	if !ok {
		return nil, gallery.ErrChallengeExpired("challenge is expired or was already used")
	}

	delete(s.entries, username)

	if s.now().After(entry.expiresAt) {
		return nil, gallery.ErrChallengeExpired("challenge is expired or was already used")
	}

	return entry.data, nil
}
