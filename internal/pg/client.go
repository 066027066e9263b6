// Package pg provides Postgres backed repositories for the gallery domain.
package pg

import (
	"context"
	"database/sql"

	"github.com/go-kit/kit/log"
	// pq registers itself as a driver with database/sql.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

// Client represents a client for PostgreSQL.
type Client struct {
	db     *sql.DB
	tx     *sql.Tx
	logger log.Logger

	userRepository *UserRepository
	userQ          map[string]string

	passkeyRepository *PasskeyRepository
	passkeyQ          map[string]string

	sessionRepository *SessionRepository
	sessionQ          map[string]string

	photoRepository *PhotoRepository
	photoQ          map[string]string
}

func (c *Client) setQueries() {
	c.userQ = map[string]string{
		"byUsername": `
			SELECT id, username, created_at
			FROM users
			WHERE username = $1;
		`,
		"byID": `
			SELECT id, username, created_at
			FROM users
			WHERE id = $1;
		`,
		"forUpdate": `
			SELECT id, username, created_at
			FROM users
			WHERE id = $1
			FOR UPDATE;
		`,
		"upsert": `
			INSERT INTO users (username)
			VALUES ($1)
			ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
			RETURNING id, username, created_at;
		`,
	}

	c.passkeyQ = map[string]string{
		"byID": `
			SELECT id, user_id, public_key, counter, transports, created_at
			FROM passkeys
			WHERE id = $1;
		`,
		"byUserID": `
			SELECT id, user_id, public_key, counter, transports, created_at
			FROM passkeys
			WHERE user_id = $1;
		`,
		"countByUserID": `
			SELECT COUNT(*)
			FROM passkeys
			WHERE user_id = $1;
		`,
		"insert": `
			INSERT INTO passkeys (id, user_id, public_key, counter, transports)
			SELECT $1, $2, $3, $4, $5
			WHERE (SELECT COUNT(*) FROM passkeys WHERE user_id = $2) < $6
			RETURNING created_at;
		`,
		"updateCounter": `
			UPDATE passkeys
			SET counter = $2
			WHERE id = $1
			AND counter <= $2;
		`,
	}

	c.sessionQ = map[string]string{
		"insert": `
			INSERT INTO sessions (id, user_id, expires_at)
			VALUES ($1, $2, $3)
			RETURNING created_at;
		`,
		"byToken": `
			SELECT u.id, u.username
			FROM sessions s
			JOIN users u ON s.user_id = u.id
			WHERE s.id = $1
			AND s.expires_at > current_timestamp;
		`,
		"delete": `
			DELETE FROM sessions
			WHERE id = $1;
		`,
	}

	c.photoQ = map[string]string{
		"list": `
			SELECT id, src, date, message, section, COALESCE(added_by, ''),
				added_at, sort_order
			FROM photos
			ORDER BY sort_order ASC, added_at ASC;
		`,
		"byID": `
			SELECT id, src, date, message, section, COALESCE(added_by, ''),
				added_at, sort_order
			FROM photos
			WHERE id = $1;
		`,
		"forUpdate": `
			SELECT id, src, date, message, section, COALESCE(added_by, ''),
				added_at, sort_order
			FROM photos
			WHERE id = $1
			FOR UPDATE;
		`,
		"update": `
			UPDATE photos
			SET message = $2, date = $3
			WHERE id = $1;
		`,
		"insert": `
			INSERT INTO photos (src, date, message, section, added_by, sort_order)
			VALUES (
				$1, $2, $3, $4, $5,
				(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM photos WHERE section = $4)
			)
			RETURNING id, added_at, sort_order;
		`,
		"count": `
			SELECT COUNT(*)
			FROM photos;
		`,
	}
}

// Close closes the PostgreSQL connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// NewWithTransaction starts a transaction and returns a client
// with the transaction set.
func (c *Client) NewWithTransaction(ctx context.Context) (gallery.RepositoryManager, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	newClient := *c
	newClient.tx = tx
	newClient.userRepository = &UserRepository{client: &newClient}
	newClient.passkeyRepository = &PasskeyRepository{client: &newClient}
	newClient.sessionRepository = &SessionRepository{client: &newClient}
	newClient.photoRepository = &PhotoRepository{client: &newClient}
	return &newClient, nil
}

// WithAtomic performs an operation within a transaction. If the operation
// is successful it commits it, otherwise the operation will be rolled back.
func (c *Client) WithAtomic(operation func() (interface{}, error)) (interface{}, error) {
	if c.tx == nil {
		return nil, errors.New("cannot complete operation outside of transaction")
	}

	entity, err := operation()

	defer func() {
		c.tx = nil
	}()

	if err == nil {
		return entity, errors.Wrap(c.tx.Commit(), "commit failed")
	}

	if dbErr := c.tx.Rollback(); dbErr != nil {
		err = errors.Wrap(err, dbErr.Error())
	}

	return nil, err
}

// User returns the user repository.
func (c *Client) User() gallery.UserRepository {
	return c.userRepository
}

// Passkey returns the passkey repository.
func (c *Client) Passkey() gallery.PasskeyRepository {
	return c.passkeyRepository
}

// Session returns the session repository.
func (c *Client) Session() gallery.SessionRepository {
	return c.sessionRepository
}

// Photo returns the photo repository.
func (c *Client) Photo() gallery.PhotoRepository {
	return c.photoRepository
}

func (c *Client) queryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	if c.tx != nil {
		return c.tx.QueryRowContext(ctx, query, args...)
	}
	return c.db.QueryRowContext(ctx, query, args...)
}

func (c *Client) queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if c.tx != nil {
		return c.tx.QueryContext(ctx, query, args...)
	}
	return c.db.QueryContext(ctx, query, args...)
}

func (c *Client) execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if c.tx != nil {
		return c.tx.ExecContext(ctx, query, args...)
	}
	return c.db.ExecContext(ctx, query, args...)
}
