package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	gallery "github.com/naszahistoria/gallery"
)

type registerOptionsRequest struct {
	Username        string `json:"username"`
	RegistrationKey string `json:"registrationKey"`
}

type loginOptionsRequest struct {
	Username string `json:"username"`
}

type verifyRequest struct {
	Username   string          `json:"username"`
	Credential json.RawMessage `json:"credential"`
}

type verifyResponse struct {
	Verified bool   `json:"verified"`
	Username string `json:"username"`
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

type logoutResponse struct {
	OK bool `json:"ok"`
}

// CredentialID extracts the credential ID the browser asserted with.
// IDs arrive base64url encoded and are stored in the same form.
func (r *verifyRequest) CredentialID() (string, error) {
	var c struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(r.Credential, &c); err != nil {
		return "", fmt.Errorf("%v: %w", err, gallery.ErrBadRequest("invalid credential payload"))
	}
	if c.ID == "" {
		return "", gallery.ErrBadRequest("credential ID is required")
	}

	return c.ID, nil
}

func decodeRegisterOptionsRequest(r *http.Request) (*registerOptionsRequest, error) {
	var req registerOptionsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, gallery.ErrBadRequest("invalid JSON request"))
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, gallery.ErrBadRequest("username is required")
	}

	return &req, nil
}

func decodeLoginOptionsRequest(r *http.Request) (*loginOptionsRequest, error) {
	var req loginOptionsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, gallery.ErrBadRequest("invalid JSON request"))
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, gallery.ErrBadRequest("username is required")
	}

	return &req, nil
}

func decodeVerifyRequest(r *http.Request) (*verifyRequest, error) {
	var req verifyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, gallery.ErrBadRequest("invalid JSON request"))
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, gallery.ErrBadRequest("username is required")
	}
	if len(req.Credential) == 0 {
		return nil, gallery.ErrBadRequest("credential is required")
	}

	return &req, nil
}
