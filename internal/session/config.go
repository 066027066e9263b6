package session

import (
	"time"

	"github.com/go-kit/kit/log"

	gallery "github.com/naszahistoria/gallery"
)

// NewService returns a new SessionService.
func NewService(options ...ConfigOption) gallery.SessionService {
	s := service{
		logger:      log.NewNopLogger(),
		tokenExpiry: gallery.SessionTTL,
	}

	for _, opt := range options {
		opt(&s)
	}

	return &s
}

// ConfigOption configures the service.
type ConfigOption func(*service)

// WithLogger configures the service with a logger.
func WithLogger(l log.Logger) ConfigOption {
	return func(s *service) {
		s.logger = l
	}
}

// WithRepoManager configures the service with a new RepositoryManager.
func WithRepoManager(repoMngr gallery.RepositoryManager) ConfigOption {
	return func(s *service) {
		s.repoMngr = repoMngr
	}
}

// WithTokenExpiry defines how long session tokens are valid for.
// The default value is gallery.SessionTTL.
func WithTokenExpiry(expiresIn time.Duration) ConfigOption {
	return func(s *service) {
		s.tokenExpiry = expiresIn
	}
}

// WithCookieDomain configures the domain attribute on session cookies.
func WithCookieDomain(domain string) ConfigOption {
	return func(s *service) {
		s.cookieDomain = domain
	}
}

// WithProductionMode toggles the Secure and SameSite None attributes
// on session cookies.
func WithProductionMode(isProduction bool) ConfigOption {
	return func(s *service) {
		s.isProduction = isProduction
	}
}
