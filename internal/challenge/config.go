package challenge

import (
	"time"

	"github.com/go-kit/kit/log"

	gallery "github.com/naszahistoria/gallery"
)

// NewService returns a redis backed gallery.ChallengeStore.
func NewService(options ...ConfigOption) gallery.ChallengeStore {
	s := redisStore{
		logger: log.NewNopLogger(),
		ttl:    gallery.ChallengeTTL,
	}

	for _, opt := range options {
		opt(&s)
	}

	return &s
}

// ConfigOption configures the service.
type ConfigOption func(*redisStore)

// WithLogger configures the service with a logger.
func WithLogger(l log.Logger) ConfigOption {
	return func(s *redisStore) {
		s.logger = l
	}
}

// WithDB configures the service with a redis DB.
func WithDB(db Rediser) ConfigOption {
	return func(s *redisStore) {
		s.db = db
	}
}

// WithTTL defines how long a stored challenge is valid for.
// The default value is gallery.ChallengeTTL.
func WithTTL(ttl time.Duration) ConfigOption {
	return func(s *redisStore) {
		s.ttl = ttl
	}
}
