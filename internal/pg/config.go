package pg

import (
	"database/sql"

	"github.com/go-kit/kit/log"
)

// NewClient returns a new Postgres client to manage repositories.
func NewClient(options ...ConfigOption) *Client {
	c := Client{
		logger:            log.NewNopLogger(),
		userRepository:    &UserRepository{},
		passkeyRepository: &PasskeyRepository{},
		sessionRepository: &SessionRepository{},
		photoRepository:   &PhotoRepository{},
	}

	for _, opt := range options {
		opt(&c)
	}

	// Each repository has an embedded client to ensure they
	// use the same connection and are able to share transactions.
	c.userRepository.client = &c
	c.passkeyRepository.client = &c
	c.sessionRepository.client = &c
	c.photoRepository.client = &c

	c.setQueries()

	return &c
}

// ConfigOption configures the Client.
type ConfigOption func(*Client)

// WithLogger configures the client with a Logger.
func WithLogger(l log.Logger) ConfigOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithDB configures the client with a database connection.
func WithDB(db *sql.DB) ConfigOption {
	return func(c *Client) {
		c.db = db
	}
}
