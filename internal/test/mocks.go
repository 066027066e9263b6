// Package test provides shared test mocks and helpers.
package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

// RepositoryManager mocks gallery.RepositoryManager.
type RepositoryManager struct {
	NewWithTransactionFn func() (gallery.RepositoryManager, error)
	WithAtomicFn         func() (interface{}, error)
	UserFn               func() gallery.UserRepository
	PasskeyFn            func() gallery.PasskeyRepository
	SessionFn            func() gallery.SessionRepository
	PhotoFn              func() gallery.PhotoRepository
	Calls                struct {
		NewWithTransaction int
		WithAtomic         int
		User               int
		Passkey            int
		Session            int
		Photo              int
	}
}

// NewWithTransaction mock.
func (m *RepositoryManager) NewWithTransaction(ctx context.Context) (gallery.RepositoryManager, error) {
	m.Calls.NewWithTransaction++
	if m.NewWithTransactionFn != nil {
		return m.NewWithTransactionFn()
	}
	return m, nil
}

// WithAtomic mock.
func (m *RepositoryManager) WithAtomic(operation func() (interface{}, error)) (interface{}, error) {
	m.Calls.WithAtomic++
	if m.WithAtomicFn != nil {
		return m.WithAtomicFn()
	}
	return operation()
}

// User mock.
func (m *RepositoryManager) User() gallery.UserRepository {
	m.Calls.User++
	if m.UserFn != nil {
		return m.UserFn()
	}
	return &UserRepository{}
}

// Passkey mock.
func (m *RepositoryManager) Passkey() gallery.PasskeyRepository {
	m.Calls.Passkey++
	if m.PasskeyFn != nil {
		return m.PasskeyFn()
	}
	return &PasskeyRepository{}
}

// Session mock.
func (m *RepositoryManager) Session() gallery.SessionRepository {
	m.Calls.Session++
	if m.SessionFn != nil {
		return m.SessionFn()
	}
	return &SessionRepository{}
}

// Photo mock.
func (m *RepositoryManager) Photo() gallery.PhotoRepository {
	m.Calls.Photo++
	if m.PhotoFn != nil {
		return m.PhotoFn()
	}
	return &PhotoRepository{}
}

// UserRepository mocks gallery.UserRepository.
type UserRepository struct {
	ByUsernameFn   func() (*gallery.User, error)
	ByIDFn         func() (*gallery.User, error)
	GetForUpdateFn func() (*gallery.User, error)
	UpsertFn       func() (*gallery.User, error)
	Calls          struct {
		ByUsername   int
		ByID         int
		GetForUpdate int
		Upsert       int
	}
}

// GetForUpdate mock.
func (m *UserRepository) GetForUpdate(ctx context.Context, userID int64) (*gallery.User, error) {
	m.Calls.GetForUpdate++
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn()
	}
	return nil, errors.New("user not found")
}

// ByUsername mock.
func (m *UserRepository) ByUsername(ctx context.Context, username string) (*gallery.User, error) {
	m.Calls.ByUsername++
	if m.ByUsernameFn != nil {
		return m.ByUsernameFn()
	}
	return nil, errors.New("user not found")
}

// ByID mock.
func (m *UserRepository) ByID(ctx context.Context, userID int64) (*gallery.User, error) {
	m.Calls.ByID++
	if m.ByIDFn != nil {
		return m.ByIDFn()
	}
	return nil, errors.New("user not found")
}

// Upsert mock.
func (m *UserRepository) Upsert(ctx context.Context, username string) (*gallery.User, error) {
	m.Calls.Upsert++
	if m.UpsertFn != nil {
		return m.UpsertFn()
	}
	return nil, errors.New("failed to upsert user")
}

// PasskeyRepository mocks gallery.PasskeyRepository.
type PasskeyRepository struct {
	ByIDFn          func() (*gallery.Passkey, error)
	ByUserIDFn      func() ([]*gallery.Passkey, error)
	CountByUserIDFn func() (int, error)
	CreateFn        func() error
	UpdateCounterFn func() error
	Calls           struct {
		ByID          int
		ByUserID      int
		CountByUserID int
		Create        int
		UpdateCounter int
	}
}

// ByID mock.
func (m *PasskeyRepository) ByID(ctx context.Context, passkeyID string) (*gallery.Passkey, error) {
	m.Calls.ByID++
	if m.ByIDFn != nil {
		return m.ByIDFn()
	}
	return nil, errors.New("passkey not found")
}

// ByUserID mock.
func (m *PasskeyRepository) ByUserID(ctx context.Context, userID int64) ([]*gallery.Passkey, error) {
	m.Calls.ByUserID++
	if m.ByUserIDFn != nil {
		return m.ByUserIDFn()
	}
	return []*gallery.Passkey{}, nil
}

// CountByUserID mock.
func (m *PasskeyRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	m.Calls.CountByUserID++
	if m.CountByUserIDFn != nil {
		return m.CountByUserIDFn()
	}
	return 0, nil
}

// Create mock.
func (m *PasskeyRepository) Create(ctx context.Context, passkey *gallery.Passkey) error {
	m.Calls.Create++
	if m.CreateFn != nil {
		return m.CreateFn()
	}
	return nil
}

// UpdateCounter mock.
func (m *PasskeyRepository) UpdateCounter(ctx context.Context, passkeyID string, counter int64) error {
	m.Calls.UpdateCounter++
	if m.UpdateCounterFn != nil {
		return m.UpdateCounterFn()
	}
	return nil
}

// SessionRepository mocks gallery.SessionRepository.
type SessionRepository struct {
	CreateFn  func() error
	ByTokenFn func() (*gallery.SessionUser, error)
	DeleteFn  func() error
	Calls     struct {
		Create  int
		ByToken int
		Delete  int
	}
}

// Create mock.
func (m *SessionRepository) Create(ctx context.Context, session *gallery.Session) error {
	m.Calls.Create++
	if m.CreateFn != nil {
		return m.CreateFn()
	}
	return nil
}

// ByToken mock.
func (m *SessionRepository) ByToken(ctx context.Context, token string) (*gallery.SessionUser, error) {
	m.Calls.ByToken++
	if m.ByTokenFn != nil {
		return m.ByTokenFn()
	}
	return nil, nil
}

// Delete mock.
func (m *SessionRepository) Delete(ctx context.Context, token string) error {
	m.Calls.Delete++
	if m.DeleteFn != nil {
		return m.DeleteFn()
	}
	return nil
}

// PhotoRepository mocks gallery.PhotoRepository.
type PhotoRepository struct {
	ListFn         func() ([]*gallery.Photo, error)
	ByIDFn         func() (*gallery.Photo, error)
	GetForUpdateFn func() (*gallery.Photo, error)
	UpdateFn       func() error
	CreateFn       func() error
	CountFn        func() (int, error)
	Calls          struct {
		List         int
		ByID         int
		GetForUpdate int
		Update       int
		Create       int
		Count        int
	}
}

// List mock.
func (m *PhotoRepository) List(ctx context.Context) ([]*gallery.Photo, error) {
	m.Calls.List++
	if m.ListFn != nil {
		return m.ListFn()
	}
	return []*gallery.Photo{}, nil
}

// ByID mock.
func (m *PhotoRepository) ByID(ctx context.Context, photoID int64) (*gallery.Photo, error) {
	m.Calls.ByID++
	if m.ByIDFn != nil {
		return m.ByIDFn()
	}
	return nil, errors.New("photo not found")
}

// GetForUpdate mock.
func (m *PhotoRepository) GetForUpdate(ctx context.Context, photoID int64) (*gallery.Photo, error) {
	m.Calls.GetForUpdate++
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn()
	}
	return nil, errors.New("photo not found")
}

// Update mock.
func (m *PhotoRepository) Update(ctx context.Context, photo *gallery.Photo) error {
	m.Calls.Update++
	if m.UpdateFn != nil {
		return m.UpdateFn()
	}
	return nil
}

// Create mock.
func (m *PhotoRepository) Create(ctx context.Context, photo *gallery.Photo) error {
	m.Calls.Create++
	if m.CreateFn != nil {
		return m.CreateFn()
	}
	return nil
}

// Count mock.
func (m *PhotoRepository) Count(ctx context.Context) (int, error) {
	m.Calls.Count++
	if m.CountFn != nil {
		return m.CountFn()
	}
	return 0, nil
}

// WebAuthnService mocks gallery.WebAuthnService.
type WebAuthnService struct {
	BeginRegistrationFn  func() (json.RawMessage, []byte, error)
	FinishRegistrationFn func() (*gallery.Passkey, error)
	BeginLoginFn         func() (json.RawMessage, []byte, error)
	FinishLoginFn        func() (int64, error)
	Calls                struct {
		BeginRegistration  int
		FinishRegistration int
		BeginLogin         int
		FinishLogin        int
	}
}

// BeginRegistration mock.
func (m *WebAuthnService) BeginRegistration(ctx context.Context, user *gallery.User, exclude []*gallery.Passkey) (json.RawMessage, []byte, error) {
	m.Calls.BeginRegistration++
	if m.BeginRegistrationFn != nil {
		return m.BeginRegistrationFn()
	}
	return nil, nil, errors.New("failed to begin registration")
}

// FinishRegistration mock.
func (m *WebAuthnService) FinishRegistration(ctx context.Context, user *gallery.User, challengeData []byte, credential json.RawMessage) (*gallery.Passkey, error) {
	m.Calls.FinishRegistration++
	if m.FinishRegistrationFn != nil {
		return m.FinishRegistrationFn()
	}
	return nil, errors.New("failed to finish registration")
}

// BeginLogin mock.
func (m *WebAuthnService) BeginLogin(ctx context.Context, user *gallery.User, passkeys []*gallery.Passkey) (json.RawMessage, []byte, error) {
	m.Calls.BeginLogin++
	if m.BeginLoginFn != nil {
		return m.BeginLoginFn()
	}
	return nil, nil, errors.New("failed to begin login")
}

// FinishLogin mock.
func (m *WebAuthnService) FinishLogin(ctx context.Context, user *gallery.User, passkey *gallery.Passkey, challengeData []byte, credential json.RawMessage) (int64, error) {
	m.Calls.FinishLogin++
	if m.FinishLoginFn != nil {
		return m.FinishLoginFn()
	}
	return 0, errors.New("failed to finish login")
}

// SessionService mocks gallery.SessionService.
type SessionService struct {
	CreateFn      func() (*gallery.Session, error)
	ResolveFn     func() (*gallery.SessionUser, error)
	RevokeFn      func() error
	CookieFn      func() *http.Cookie
	ClearCookieFn func() *http.Cookie
	Calls         struct {
		Create      int
		Resolve     int
		Revoke      int
		Cookie      int
		ClearCookie int
	}
}

// Create mock.
func (m *SessionService) Create(ctx context.Context, userID int64) (*gallery.Session, error) {
	m.Calls.Create++
	if m.CreateFn != nil {
		return m.CreateFn()
	}
	return nil, errors.New("failed to create session")
}

// Resolve mock.
func (m *SessionService) Resolve(ctx context.Context, token string) (*gallery.SessionUser, error) {
	m.Calls.Resolve++
	if m.ResolveFn != nil {
		return m.ResolveFn()
	}
	return nil, nil
}

// Revoke mock.
func (m *SessionService) Revoke(ctx context.Context, token string) error {
	m.Calls.Revoke++
	if m.RevokeFn != nil {
		return m.RevokeFn()
	}
	return nil
}

// Cookie mock.
func (m *SessionService) Cookie(session *gallery.Session) *http.Cookie {
	m.Calls.Cookie++
	if m.CookieFn != nil {
		return m.CookieFn()
	}
	return &http.Cookie{
		Name:   gallery.SessionCookie,
		Value:  session.Token,
		Path:   "/",
		MaxAge: int(gallery.SessionTTL.Seconds()),
	}
}

// ClearCookie mock.
func (m *SessionService) ClearCookie() *http.Cookie {
	m.Calls.ClearCookie++
	if m.ClearCookieFn != nil {
		return m.ClearCookieFn()
	}
	return &http.Cookie{
		Name:   gallery.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}
}

// ChallengeStore mocks gallery.ChallengeStore.
type ChallengeStore struct {
	PutFn               func() error
	TakeAndInvalidateFn func() ([]byte, error)
	Calls               struct {
		Put               int
		TakeAndInvalidate int
	}
}

// Put mock.
func (m *ChallengeStore) Put(ctx context.Context, username string, data []byte) error {
	m.Calls.Put++
	if m.PutFn != nil {
		return m.PutFn()
	}
	return nil
}

// TakeAndInvalidate mock.
func (m *ChallengeStore) TakeAndInvalidate(ctx context.Context, username string) ([]byte, error) {
	m.Calls.TakeAndInvalidate++
	if m.TakeAndInvalidateFn != nil {
		return m.TakeAndInvalidateFn()
	}
	return nil, gallery.ErrChallengeExpired("challenge expired or not found")
}

// BlobStorage mocks gallery.BlobStorage.
type BlobStorage struct {
	UploadFn func() (string, error)
	Calls    struct {
		Upload int
	}
}

// Upload mock.
func (m *BlobStorage) Upload(ctx context.Context, section, filename, contentType string, body io.Reader) (string, error) {
	m.Calls.Upload++
	if m.UploadFn != nil {
		return m.UploadFn()
	}
	return "", errors.New("failed to upload blob")
}
