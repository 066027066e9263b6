package photoapi

import (
	"github.com/go-kit/kit/log"

	gallery "github.com/naszahistoria/gallery"
)

// NewService returns a new implementation of gallery.PhotoAPI.
func NewService(options ...ConfigOption) gallery.PhotoAPI {
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

// WithRepoManager configures the service with a new RepositoryManager.
func WithRepoManager(repoMngr gallery.RepositoryManager) ConfigOption {
	return func(s *service) {
		s.repoMngr = repoMngr
	}
}

// WithBlobStorage configures the service with object storage for
// uploaded images.
func WithBlobStorage(b gallery.BlobStorage) ConfigOption {
	return func(s *service) {
		s.blob = b
	}
}
