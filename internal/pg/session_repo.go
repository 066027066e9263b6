package pg

import (
	"context"
	"database/sql"

	gallery "github.com/naszahistoria/gallery"
)

// SessionRepository is an implementation of gallery.SessionRepository.
type SessionRepository struct {
	client *Client
}

// Create persists a new Session.
func (r *SessionRepository) Create(ctx context.Context, session *gallery.Session) error {
	row := r.client.queryRowContext(
		ctx,
		r.client.sessionQ["insert"],
		session.Token,
		session.UserID,
		session.ExpiresAt,
	)
	return row.Scan(&session.CreatedAt)
}

// ByToken resolves an unexpired session token to its owning user.
// Unknown and expired tokens both resolve to nil without error;
// callers cannot distinguish the two.
func (r *SessionRepository) ByToken(ctx context.Context, token string) (*gallery.SessionUser, error) {
	sessionUser := gallery.SessionUser{}
	row := r.client.queryRowContext(ctx, r.client.sessionQ["byToken"], token)
	err := row.Scan(&sessionUser.ID, &sessionUser.Username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sessionUser, nil
}

// Delete removes a session token. Deleting an absent token is a no-op.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.client.execContext(ctx, r.client.sessionQ["delete"], token)
	return err
}
