package authapi

import (
	"github.com/go-kit/kit/log"

	gallery "github.com/naszahistoria/gallery"
)

// NewService returns a new implementation of gallery.AuthAPI.
func NewService(options ...ConfigOption) gallery.AuthAPI {
	s := service{
		logger: log.NewNopLogger(),
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

// WithWebAuthn configures the service with a WebAuthn validator.
func WithWebAuthn(w gallery.WebAuthnService) ConfigOption {
	return func(s *service) {
		s.webauthn = w
	}
}

// WithSessionService configures the service with a new SessionService.
func WithSessionService(sessionSvc gallery.SessionService) ConfigOption {
	return func(s *service) {
		s.session = sessionSvc
	}
}

// WithChallengeStore configures the service with a ChallengeStore.
func WithChallengeStore(cs gallery.ChallengeStore) ConfigOption {
	return func(s *service) {
		s.challenges = cs
	}
}

// WithRepoManager configures the service with a new RepositoryManager.
func WithRepoManager(repoMngr gallery.RepositoryManager) ConfigOption {
	return func(s *service) {
		s.repoMngr = repoMngr
	}
}

// WithRegistrationKey configures the shared key that gates passkey
// registration.
func WithRegistrationKey(key string) ConfigOption {
	return func(s *service) {
		s.registrationKey = key
	}
}
