package pg

import (
	"context"

	gallery "github.com/naszahistoria/gallery"
)

// UserRepository is an implementation of gallery.UserRepository.
type UserRepository struct {
	client *Client
}

// ByUsername retrieves a User by unique username.
func (r *UserRepository) ByUsername(ctx context.Context, username string) (*gallery.User, error) {
	return r.get(ctx, "byUsername", username)
}

// ByID retrieves a User by ID.
func (r *UserRepository) ByID(ctx context.Context, userID int64) (*gallery.User, error) {
	return r.get(ctx, "byID", userID)
}

// GetForUpdate retrieves a User and locks the row until the
// surrounding transaction completes.
func (r *UserRepository) GetForUpdate(ctx context.Context, userID int64) (*gallery.User, error) {
	return r.get(ctx, "forUpdate", userID)
}

// Upsert creates a user row for the username if one does not exist
// and returns the stored row. Usernames never change, so a repeat
// call returns the original row untouched.
func (r *UserRepository) Upsert(ctx context.Context, username string) (*gallery.User, error) {
	return r.get(ctx, "upsert", username)
}

func (r *UserRepository) get(ctx context.Context, queryKey string, values ...interface{}) (*gallery.User, error) {
	user := gallery.User{}
	row := r.client.queryRowContext(ctx, r.client.userQ[queryKey], values...)
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
