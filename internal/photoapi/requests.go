package photoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	gallery "github.com/naszahistoria/gallery"
)

type updateRequest struct {
	Message *string `json:"message"`
	Date    *string `json:"date"`
}

type uploadRequest struct {
	Filename    string
	Date        string
	Message     string
	Section     string
	ContentType string
}

type listResponse struct {
	Photos []*gallery.Photo `json:"photos"`
}

func photoIDFromRequest(r *http.Request) (int64, error) {
	photoID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, gallery.ErrBadRequest("invalid photo ID")
	}

	return photoID, nil
}

func decodeUpdateRequest(r *http.Request) (*updateRequest, error) {
	var req updateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, gallery.ErrBadRequest("invalid JSON request"))
	}

	if req.Message == nil && req.Date == nil {
		return nil, gallery.ErrBadRequest("nothing to update")
	}

	return &req, nil
}

func decodeUploadRequest(r *http.Request) (*uploadRequest, error) {
	q := r.URL.Query()

	req := uploadRequest{
		Filename:    strings.TrimSpace(q.Get("filename")),
		Date:        strings.TrimSpace(q.Get("date")),
		Message:     q.Get("message"),
		Section:     strings.TrimSpace(q.Get("section")),
		ContentType: r.Header.Get("Content-Type"),
	}

	if req.Filename == "" {
		return nil, gallery.ErrBadRequest("filename is required")
	}
	if req.Date == "" {
		req.Date = polishDate(time.Now())
	}
	if req.Message == "" {
		req.Message = "<3"
	}
	if req.Section == "" {
		req.Section = "polaroid"
	}
	if !gallery.IsPhotoSection(req.Section) {
		return nil, gallery.ErrBadRequest("section must be polaroid or film")
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	return &req, nil
}

// polishMonths holds month names in the genitive case used when
// writing out a date, as in "31 sierpnia 2026".
var polishMonths = [...]string{
	"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
	"lipca", "sierpnia", "września", "października", "listopada", "grudnia",
}

func polishDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), polishMonths[t.Month()-1], t.Year())
}
