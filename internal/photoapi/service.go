// Package photoapi provides an HTTP API for the shared photo gallery.
package photoapi

import (
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
	"github.com/naszahistoria/gallery/internal/httpapi"
)

type service struct {
	logger   log.Logger
	repoMngr gallery.RepositoryManager
	blob     gallery.BlobStorage
}

// List returns all photos ordered for display. The gallery itself is
// public; only mutation requires a session.
func (s *service) List(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	ctx := r.Context()

	photos, err := s.repoMngr.Photo().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list photos")
	}

	return &listResponse{Photos: photos}, nil
}

// Update edits a photo's caption fields. The row is locked while the
// edit is applied so concurrent edits cannot interleave.
func (s *service) Update(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	ctx := r.Context()

	photoID, err := photoIDFromRequest(r)
	if err != nil {
		return nil, err
	}

	req, err := decodeUpdateRequest(r)
	if err != nil {
		return nil, err
	}

	txClient, err := s.repoMngr.NewWithTransaction(ctx)
	if err != nil {
		return nil, err
	}

	entity, err := txClient.WithAtomic(func() (interface{}, error) {
		photo, err := txClient.Photo().GetForUpdate(ctx, photoID)
		if err != nil {
			return nil, err
		}

		if req.Message != nil {
			photo.Message = *req.Message
		}
		if req.Date != nil {
			photo.Date = *req.Date
		}

		if err = txClient.Photo().Update(ctx, photo); err != nil {
			return nil, err
		}

		return photo, nil
	})
	if err != nil {
		return nil, err
	}

	return entity.(*gallery.Photo), nil
}

// Upload stores a new photo. The image arrives as the raw request
// body; metadata rides in the query string so the body can stream
// straight to object storage.
func (s *service) Upload(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	ctx := r.Context()
	user := httpapi.GetSessionUser(r)

	req, err := decodeUploadRequest(r)
	if err != nil {
		return nil, err
	}

	src, err := s.blob.Upload(ctx, req.Section, req.Filename, req.ContentType, r.Body)
	if err != nil {
		return nil, err
	}

	photo := &gallery.Photo{
		Src:     src,
		Date:    req.Date,
		Message: req.Message,
		Section: req.Section,
		AddedBy: user.Username,
	}
	if err = s.repoMngr.Photo().Create(ctx, photo); err != nil {
		return nil, err
	}

	return photo, nil
}
