// Package gallery describes the domain of a passkey protected
// shared photo gallery. Entities and service contracts are declared
// here and implemented under internal/.
package gallery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const (
	// MaxPasskeysPerUser caps the number of registered passkeys
	// for a single account.
	MaxPasskeysPerUser = 3

	// ChallengeTTL is how long an issued ceremony challenge may be
	// completed before it is treated as absent.
	ChallengeTTL = time.Minute * 5

	// SessionTTL is how long an issued session token remains valid.
	SessionTTL = time.Hour * 24 * 30

	// SessionCookie is the cookie name carrying a session token.
	SessionCookie = "session"
)

// AllowedUsers is the fixed account allow-list. Registration is
// rejected for any username outside of it; accounts are never
// created dynamically.
var AllowedUsers = []string{"adas", "roksanka"}

// IsAllowedUser reports whether a username is on the account allow-list.
func IsAllowedUser(username string) bool {
	for _, u := range AllowedUsers {
		if u == username {
			return true
		}
	}
	return false
}

// PhotoSections are the valid values for Photo.Section.
var PhotoSections = []string{"polaroid", "film"}

// IsPhotoSection reports whether a section name is valid.
func IsPhotoSection(section string) bool {
	for _, s := range PhotoSections {
		if s == section {
			return true
		}
	}
	return false
}

// User is an account on the allow-list. Users are read-mostly
// reference data created by seeding or by the registration ceremony,
// never deleted.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Passkey is one registered WebAuthn credential bound to a user.
// The ID is the authenticator's credential ID, base64url encoded.
type Passkey struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	PublicKey  []byte    `json:"-"`
	Counter    int64     `json:"counter"`
	Transports []string  `json:"transports"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session is an opaque bearer token representing an authenticated
// browser, delivered as an HTTP cookie.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionUser is the identity a valid session token resolves to.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Photo is an entry in the shared gallery.
type Photo struct {
	ID        int64     `json:"id"`
	Src       string    `json:"src"`
	Date      string    `json:"date"`
	Message   string    `json:"message"`
	Section   string    `json:"section"`
	AddedBy   string    `json:"added_by"`
	AddedAt   time.Time `json:"added_at"`
	SortOrder int       `json:"sort_order"`
}

// UserRepository manages User records.
type UserRepository interface {
	// ByUsername retrieves a user by unique username.
	ByUsername(ctx context.Context, username string) (*User, error)
	// ByID retrieves a user by ID.
	ByID(ctx context.Context, userID int64) (*User, error)
	// GetForUpdate retrieves a user, locking the row for the duration
	// of the surrounding transaction.
	GetForUpdate(ctx context.Context, userID int64) (*User, error)
	// Upsert creates a user row for the username if absent and
	// returns the stored row. It is idempotent.
	Upsert(ctx context.Context, username string) (*User, error)
}

// PasskeyRepository manages Passkey records.
type PasskeyRepository interface {
	ByID(ctx context.Context, passkeyID string) (*Passkey, error)
	ByUserID(ctx context.Context, userID int64) ([]*Passkey, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	// Create persists a new passkey. It fails with ErrCapacityExceeded
	// when the user already has MaxPasskeysPerUser passkeys; the check
	// and the insert run in one transaction.
	Create(ctx context.Context, passkey *Passkey) error
	// UpdateCounter sets the signature counter for a passkey. A counter
	// lower than the stored value fails with ErrCounterRegression and
	// leaves the stored value unchanged.
	UpdateCounter(ctx context.Context, passkeyID string, counter int64) error
}

// SessionRepository manages Session records.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// ByToken resolves an unexpired session token to its owner.
	ByToken(ctx context.Context, token string) (*SessionUser, error)
	// Delete removes a session token. Deleting an absent token
	// is not an error.
	Delete(ctx context.Context, token string) error
}

// PhotoRepository manages Photo records.
type PhotoRepository interface {
	List(ctx context.Context) ([]*Photo, error)
	ByID(ctx context.Context, photoID int64) (*Photo, error)
	GetForUpdate(ctx context.Context, photoID int64) (*Photo, error)
	Update(ctx context.Context, photo *Photo) error
	// Create persists a photo, assigning the next sort order
	// within its section.
	Create(ctx context.Context, photo *Photo) error
	Count(ctx context.Context) (int, error)
}

// RepositoryManager manages repositories stored in relational storage.
type RepositoryManager interface {
	NewWithTransaction(ctx context.Context) (RepositoryManager, error)
	WithAtomic(operation func() (interface{}, error)) (interface{}, error)
	User() UserRepository
	Passkey() PasskeyRepository
	Session() SessionRepository
	Photo() PhotoRepository
}

// ChallengeStore holds at most one pending ceremony challenge per
// username. Entries are single use and live for ChallengeTTL.
type ChallengeStore interface {
	// Put stores challenge data for a username, superseding any
	// previous entry and resetting the expiry.
	Put(ctx context.Context, username string, data []byte) error
	// TakeAndInvalidate atomically removes and returns the stored
	// challenge data. It fails with ErrChallengeExpired when no live
	// entry exists; expiry is evaluated at read time.
	TakeAndInvalidate(ctx context.Context, username string) ([]byte, error)
}

// WebAuthnService adapts an external WebAuthn verifier. Options and
// credential payloads are opaque JSON exchanged with the browser;
// challengeData is the verifier's serialized ceremony state, owned by
// the caller between the two phases.
type WebAuthnService interface {
	BeginRegistration(ctx context.Context, user *User, exclude []*Passkey) (options json.RawMessage, challengeData []byte, err error)
	FinishRegistration(ctx context.Context, user *User, challengeData []byte, credential json.RawMessage) (*Passkey, error)
	BeginLogin(ctx context.Context, user *User, passkeys []*Passkey) (options json.RawMessage, challengeData []byte, err error)
	// FinishLogin verifies an assertion against the stored passkey
	// state and returns the authenticator's new signature counter.
	FinishLogin(ctx context.Context, user *User, passkey *Passkey, challengeData []byte, credential json.RawMessage) (int64, error)
}

// SessionService issues and validates session tokens.
type SessionService interface {
	Create(ctx context.Context, userID int64) (*Session, error)
	// Resolve returns the identity owning an unexpired token, or nil
	// with no error when the token is unknown or expired.
	Resolve(ctx context.Context, token string) (*SessionUser, error)
	Revoke(ctx context.Context, token string) error
	// Cookie returns a cookie carrying a session token.
	Cookie(session *Session) *http.Cookie
	// ClearCookie returns an expired cookie that removes the session
	// token from a client.
	ClearCookie() *http.Cookie
}

// BlobStorage stores photo images in object storage and returns
// their public URLs.
type BlobStorage interface {
	Upload(ctx context.Context, section, filename, contentType string, body io.Reader) (string, error)
}

// AuthAPI provides HTTP handlers for passkey registration, login
// and session management.
type AuthAPI interface {
	RegisterOptions(w http.ResponseWriter, r *http.Request) (interface{}, error)
	RegisterVerify(w http.ResponseWriter, r *http.Request) (interface{}, error)
	LoginOptions(w http.ResponseWriter, r *http.Request) (interface{}, error)
	LoginVerify(w http.ResponseWriter, r *http.Request) (interface{}, error)
	Me(w http.ResponseWriter, r *http.Request) (interface{}, error)
	Logout(w http.ResponseWriter, r *http.Request) (interface{}, error)
}

// PhotoAPI provides HTTP handlers for the shared photo gallery.
type PhotoAPI interface {
	List(w http.ResponseWriter, r *http.Request) (interface{}, error)
	Update(w http.ResponseWriter, r *http.Request) (interface{}, error)
	Upload(w http.ResponseWriter, r *http.Request) (interface{}, error)
}
