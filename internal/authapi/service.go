// Package authapi provides an HTTP API for passkey registration,
// login and session management.
package authapi

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
	"github.com/naszahistoria/gallery/internal/httpapi"
)

type service struct {
	logger          log.Logger
	webauthn        gallery.WebAuthnService
	session         gallery.SessionService
	challenges      gallery.ChallengeStore
	repoMngr        gallery.RepositoryManager
	registrationKey string
}

// RegisterOptions starts a passkey registration ceremony. Registration
// is limited to the fixed account allow-list and gated behind a shared
// registration key; the account row is created on first registration.
func (s *service) RegisterOptions(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	ctx := r.Context()

	req, err := decodeRegisterOptionsRequest(r)
	if err != nil {
		return nil, err
	}

	if !gallery.IsAllowedUser(req.Username) {
		return nil, gallery.ErrInvalidUser("username is not recognized")
	}

	if subtle.ConstantTimeCompare([]byte(req.RegistrationKey), []byte(s.registrationKey)) != 1 {
		return nil, gallery.ErrUnauthorized("registration key is invalid")
	}

	user, err := s.repoMngr.User().Upsert(ctx, req.Username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert user")
	}

	passkeys, err := s.repoMngr.Passkey().ByUserID(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve passkeys")
	}
	if len(passkeys) >= gallery.MaxPasskeysPerUser {
		return nil, gallery.ErrCapacityExceeded("passkey limit reached")
	}

	options, challengeData, err := s.webauthn.BeginRegistration(ctx, user, passkeys)
	if err != nil {
		return nil, err
	}

	if err = s.challenges.Put(ctx, user.Username, challengeData); err != nil {
		return nil, err
	}

	return options, nil
}

// RegisterVerify completes a passkey registration ceremony, stores
// the new passkey and signs the user in.
func (s *service) RegisterVerify(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	ctx := r.Context()

	req, err := decodeVerifyRequest(r)
	if err != nil {
		return nil, err
	}

	user, err := s.verifyingUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	challengeData, err := s.challenges.TakeAndInvalidate(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	passkey, err := s.webauthn.FinishRegistration(ctx, user, challengeData, req.Credential)
	if err != nil {
		return nil, err
	}

	if err = s.registerPasskey(ctx, user.ID, passkey); err != nil {
		return nil, err
	}

	if err = s.signIn(ctx, w, user.ID); err != nil {
		return nil, err
	}

	return &verifyResponse{Verified: true, Username: user.Username}, nil
}

// LoginOptions starts a passkey login ceremony against a user's
// registered passkeys.
func (s *service) LoginOptions(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	ctx := r.Context()

	req, err := decodeLoginOptionsRequest(r)
	if err != nil {
		return nil, err
	}

	user, err := s.userByName(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	passkeys, err := s.repoMngr.Passkey().ByUserID(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve passkeys")
	}
	if len(passkeys) == 0 {
		return nil, gallery.ErrNoCredentials("no passkeys registered for user")
	}

	options, challengeData, err := s.webauthn.BeginLogin(ctx, user, passkeys)
	if err != nil {
		return nil, err
	}

	if err = s.challenges.Put(ctx, user.Username, challengeData); err != nil {
		return nil, err
	}

	return options, nil
}

// LoginVerify completes a passkey login ceremony and signs the
// user in.
func (s *service) LoginVerify(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	ctx := r.Context()

	req, err := decodeVerifyRequest(r)
	if err != nil {
		return nil, err
	}

	user, err := s.verifyingUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	challengeData, err := s.challenges.TakeAndInvalidate(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	credentialID, err := req.CredentialID()
	if err != nil {
		return nil, err
	}

	passkey, err := s.repoMngr.Passkey().ByID(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if passkey.UserID != user.ID {
		return nil, gallery.ErrCredentialNotFound("credential is not registered for user")
	}

	counter, err := s.webauthn.FinishLogin(ctx, user, passkey, challengeData, req.Credential)
	if err != nil {
		return nil, err
	}

	// A rolled back counter means the assertion may come from a
	// cloned authenticator. The login is rejected and no session
	// is issued.
	if err = s.repoMngr.Passkey().UpdateCounter(ctx, passkey.ID, counter); err != nil {
		return nil, err
	}

	if err = s.signIn(ctx, w, user.ID); err != nil {
		return nil, err
	}

	return &verifyResponse{Verified: true, Username: user.Username}, nil
}

// Me reports the identity attached to the request's session cookie.
// It never fails; an anonymous request is a valid answer.
func (s *service) Me(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	if user := httpapi.GetSessionUser(r); user != nil {
		return &meResponse{Authenticated: true, Username: user.Username}, nil
	}

	return &meResponse{Authenticated: false}, nil
}

// Logout revokes the request's session and clears the session
// cookie. Logging out without a valid session succeeds.
func (s *service) Logout(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	ctx := r.Context()

	if cookie, err := r.Cookie(gallery.SessionCookie); err == nil {
		if err = s.session.Revoke(ctx, cookie.Value); err != nil {
			return nil, err
		}
	}

	http.SetCookie(w, s.session.ClearCookie())

	return &logoutResponse{OK: true}, nil
}

func (s *service) userByName(ctx context.Context, username string) (*gallery.User, error) {
	user, err := s.repoMngr.User().ByUsername(ctx, username)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(gallery.ErrUserNotFound("user is not registered"), err.Error())
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// verifyingUser resolves the account a verification request claims.
// An unknown username reports an expired challenge: no account means
// no challenge was ever issued, and the response should not reveal
// which usernames hold accounts.
func (s *service) verifyingUser(ctx context.Context, username string) (*gallery.User, error) {
	user, err := s.userByName(ctx, username)
	if gallery.ErrorCode(err) == gallery.EUserNotFound {
		return nil, gallery.ErrChallengeExpired("challenge is expired or was already used")
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// registerPasskey stores a new passkey while holding the owner's row
// lock, so two registrations finishing at the same time serialize and
// the second observes the first one's insert in its capacity count.
func (s *service) registerPasskey(ctx context.Context, userID int64, passkey *gallery.Passkey) error {
	txClient, err := s.repoMngr.NewWithTransaction(ctx)
	if err != nil {
		return err
	}

	_, err = txClient.WithAtomic(func() (interface{}, error) {
		if _, err := txClient.User().GetForUpdate(ctx, userID); err != nil {
			return nil, err
		}

		count, err := txClient.Passkey().CountByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count >= gallery.MaxPasskeysPerUser {
			return nil, gallery.ErrCapacityExceeded("passkey limit reached")
		}

		if err = txClient.Passkey().Create(ctx, passkey); err != nil {
			return nil, err
		}

		return passkey, nil
	})
	return err
}

func (s *service) signIn(ctx context.Context, w http.ResponseWriter, userID int64) error {
	session, err := s.session.Create(ctx, userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, s.session.Cookie(session))

	return nil
}
