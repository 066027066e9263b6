package pg

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

// PhotoRepository is an implementation of gallery.PhotoRepository.
type PhotoRepository struct {
	client *Client
}

// List returns all photos in display order.
func (r *PhotoRepository) List(ctx context.Context) ([]*gallery.Photo, error) {
	rows, err := r.client.queryContext(ctx, r.client.photoQ["list"])
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]*gallery.Photo, 0)
	for rows.Next() {
		photo := gallery.Photo{}
		err := rows.Scan(
			&photo.ID, &photo.Src, &photo.Date, &photo.Message, &photo.Section,
			&photo.AddedBy, &photo.AddedAt, &photo.SortOrder,
		)
		if err != nil {
			return nil, err
		}
		photos = append(photos, &photo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return photos, nil
}

// ByID retrieves a Photo by ID.
func (r *PhotoRepository) ByID(ctx context.Context, photoID int64) (*gallery.Photo, error) {
	return r.get(ctx, "byID", photoID)
}

// GetForUpdate retrieves a Photo and locks the row until the
// surrounding transaction completes.
func (r *PhotoRepository) GetForUpdate(ctx context.Context, photoID int64) (*gallery.Photo, error) {
	return r.get(ctx, "forUpdate", photoID)
}

// Update persists caption changes to a Photo.
func (r *PhotoRepository) Update(ctx context.Context, photo *gallery.Photo) error {
	res, err := r.client.execContext(
		ctx,
		r.client.photoQ["update"],
		photo.ID,
		photo.Message,
		photo.Date,
	)
	if err != nil {
		return err
	}

	updatedRows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updatedRows != 1 {
		return errors.Errorf("wrong number of photos updated: %d", updatedRows)
	}
	return nil
}

// Create persists a new Photo at the end of its section.
func (r *PhotoRepository) Create(ctx context.Context, photo *gallery.Photo) error {
	row := r.client.queryRowContext(
		ctx,
		r.client.photoQ["insert"],
		photo.Src,
		photo.Date,
		photo.Message,
		photo.Section,
		photo.AddedBy,
	)
	return row.Scan(&photo.ID, &photo.AddedAt, &photo.SortOrder)
}

// Count returns the number of stored photos.
func (r *PhotoRepository) Count(ctx context.Context) (int, error) {
	var count int
	row := r.client.queryRowContext(ctx, r.client.photoQ["count"])
	if err := row.Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *PhotoRepository) get(ctx context.Context, queryKey string, photoID int64) (*gallery.Photo, error) {
	photo := gallery.Photo{}
	row := r.client.queryRowContext(ctx, r.client.photoQ[queryKey], photoID)
	err := row.Scan(
		&photo.ID, &photo.Src, &photo.Date, &photo.Message, &photo.Section,
		&photo.AddedBy, &photo.AddedAt, &photo.SortOrder,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(gallery.ErrNotFound("photo not found"), err.Error())
	}
	if err != nil {
		return nil, err
	}

	return &photo, nil
}
