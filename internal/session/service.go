// Package session issues and validates opaque session tokens.
//
// Tokens are 256 bits of randomness rendered as 64 hex characters.
// They carry no claims; ownership and expiry live in the database,
// so revoking a token takes effect immediately.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

const tokenByteLength = 32

// service is an implementation of gallery.SessionService backed
// by a SessionRepository.
type service struct {
	logger       log.Logger
	repoMngr     gallery.RepositoryManager
	tokenExpiry  time.Duration
	cookieDomain string
	isProduction bool
}

// Create issues a new session token for a user.
func (s *service) Create(ctx context.Context, userID int64) (*gallery.Session, error) {
	token, err := genToken()
	if err != nil {
		return nil, err
	}

	session := &gallery.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.tokenExpiry),
	}

	if err = s.repoMngr.Session().Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	return session, nil
}

// Resolve returns the identity owning an unexpired token. An unknown
// or expired token resolves to a nil identity with no error, so callers
// cannot distinguish the two cases.
func (s *service) Resolve(ctx context.Context, token string) (*gallery.SessionUser, error) {
	if token == "" {
		return nil, nil
	}

	user, err := s.repoMngr.Session().ByToken(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve session")
	}

	return user, nil
}

// Revoke removes a session token. Revoking an absent token is
// not an error.
func (s *service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.repoMngr.Session().Delete(ctx, token); err != nil {
		return errors.Wrap(err, "failed to revoke session")
	}

	return nil
}

// Cookie returns a cookie carrying a session token. In production the
// gallery frontend is served from a separate origin, so the cookie is
// marked Secure with SameSite None; elsewhere SameSite Lax keeps local
// development on plain HTTP working.
func (s *service) Cookie(session *gallery.Session) *http.Cookie {
	cookie := http.Cookie{
		Name:     gallery.SessionCookie,
		Value:    session.Token,
		MaxAge:   int(s.tokenExpiry.Seconds()),
		Domain:   s.cookieDomain,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	if s.isProduction {
		cookie.SameSite = http.SameSiteNoneMode
	}

	return &cookie
}

// ClearCookie returns an expired cookie that removes the session
// token from a client. Its attributes match Cookie so browsers treat
// it as the same cookie.
func (s *service) ClearCookie() *http.Cookie {
	cookie := http.Cookie{
		Name:     gallery.SessionCookie,
		Value:    "",
		MaxAge:   -1,
		Domain:   s.cookieDomain,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	if s.isProduction {
		cookie.SameSite = http.SameSiteNoneMode
	}

	return &cookie
}

func genToken() (string, error) {
	b := make([]byte, tokenByteLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate session token")
	}

	return hex.EncodeToString(b), nil
}
