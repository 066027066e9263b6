package pg

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

// PasskeyRepository is an implementation of gallery.PasskeyRepository.
type PasskeyRepository struct {
	client *Client
}

// ByID retrieves a Passkey by credential ID.
func (r *PasskeyRepository) ByID(ctx context.Context, passkeyID string) (*gallery.Passkey, error) {
	passkey := gallery.Passkey{}
	row := r.client.queryRowContext(ctx, r.client.passkeyQ["byID"], passkeyID)
	err := row.Scan(
		&passkey.ID, &passkey.UserID, &passkey.PublicKey, &passkey.Counter,
		pq.Array(&passkey.Transports), &passkey.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(gallery.ErrCredentialNotFound("passkey not found"), err.Error())
	}
	if err != nil {
		return nil, err
	}

	return &passkey, nil
}

// ByUserID retrieves all of a user's passkeys.
func (r *PasskeyRepository) ByUserID(ctx context.Context, userID int64) ([]*gallery.Passkey, error) {
	rows, err := r.client.queryContext(ctx, r.client.passkeyQ["byUserID"], userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passkeys := make([]*gallery.Passkey, 0)
	for rows.Next() {
		passkey := gallery.Passkey{}
		err := rows.Scan(
			&passkey.ID, &passkey.UserID, &passkey.PublicKey, &passkey.Counter,
			pq.Array(&passkey.Transports), &passkey.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		passkeys = append(passkeys, &passkey)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return passkeys, nil
}

// CountByUserID returns the number of passkeys registered to a user.
func (r *PasskeyRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	row := r.client.queryRowContext(ctx, r.client.passkeyQ["countByUserID"], userID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// Create persists a new Passkey. The insert is conditional on the
// owner being under the passkey cap, so a concurrent registration
// cannot push a user past the limit even when the caller's own
// capacity check raced.
func (r *PasskeyRepository) Create(ctx context.Context, passkey *gallery.Passkey) error {
	row := r.client.queryRowContext(
		ctx,
		r.client.passkeyQ["insert"],
		passkey.ID,
		passkey.UserID,
		passkey.PublicKey,
		passkey.Counter,
		pq.Array(passkey.Transports),
		gallery.MaxPasskeysPerUser,
	)
	err := row.Scan(&passkey.CreatedAt)
	if err == sql.ErrNoRows {
		return errors.Wrap(gallery.ErrCapacityExceeded("maximum passkeys reached"), err.Error())
	}
	return err
}

// UpdateCounter sets the signature counter of a passkey. The write is
// conditional on the new value not regressing; a rejected write is
// reported as ErrCounterRegression and the stored counter is left
// unchanged.
func (r *PasskeyRepository) UpdateCounter(ctx context.Context, passkeyID string, counter int64) error {
	res, err := r.client.execContext(ctx, r.client.passkeyQ["updateCounter"], passkeyID, counter)
	if err != nil {
		return err
	}

	updatedRows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updatedRows == 1 {
		return nil
	}

	stored, err := r.ByID(ctx, passkeyID)
	if err != nil {
		return err
	}
	if stored.Counter > counter {
		return errors.Wrapf(
			gallery.ErrCounterRegression("signature counter moved backwards"),
			"stored counter %d, got %d", stored.Counter, counter,
		)
	}

	return errors.Errorf("wrong number of passkeys updated: %d", updatedRows)
}
