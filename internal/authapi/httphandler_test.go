package authapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"

	gallery "github.com/naszahistoria/gallery"
	"github.com/naszahistoria/gallery/internal/test"
)

func TestAuthAPI_RegisterOptions(t *testing.T) {
	tt := []struct {
		name           string
		statusCode     int
		reqBody        []byte
		errCode        string
		challengePuts  int
		upsertFn       func() (*gallery.User, error)
		passkeysFn     func() ([]*gallery.Passkey, error)
		webauthnFn     func() (json.RawMessage, []byte, error)
	}{
		{
			name:       "Disallowed username failure",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "mallory",
				"registrationKey": "our-shared-secret"
			}`),
			errCode:       "invalid_user",
			challengePuts: 0,
			upsertFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "mallory"}, nil
			},
			passkeysFn: func() ([]*gallery.Passkey, error) {
				return nil, nil
			},
			webauthnFn: func() (json.RawMessage, []byte, error) {
				return json.RawMessage(`{"publicKey":{}}`), []byte("state"), nil
			},
		},
		{
			name:       "Invalid registration key failure",
			statusCode: http.StatusUnauthorized,
			reqBody: []byte(`{
				"username": "adas",
				"registrationKey": "wrong-secret"
			}`),
			errCode:       "unauthorized",
			challengePuts: 0,
			upsertFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			passkeysFn: func() ([]*gallery.Passkey, error) {
				return nil, nil
			},
			webauthnFn: func() (json.RawMessage, []byte, error) {
				return json.RawMessage(`{"publicKey":{}}`), []byte("state"), nil
			},
		},
		{
			name:       "Passkey limit failure",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"registrationKey": "our-shared-secret"
			}`),
			errCode:       "capacity_exceeded",
			challengePuts: 0,
			upsertFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			passkeysFn: func() ([]*gallery.Passkey, error) {
				return []*gallery.Passkey{
					{ID: "a"}, {ID: "b"}, {ID: "c"},
				}, nil
			},
			webauthnFn: func() (json.RawMessage, []byte, error) {
				return json.RawMessage(`{"publicKey":{}}`), []byte("state"), nil
			},
		},
		{
			name:       "Successful request",
			statusCode: http.StatusOK,
			reqBody: []byte(`{
				"username": "adas",
				"registrationKey": "our-shared-secret"
			}`),
			errCode:       "",
			challengePuts: 1,
			upsertFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			passkeysFn: func() ([]*gallery.Passkey, error) {
				return []*gallery.Passkey{{ID: "a"}}, nil
			},
			webauthnFn: func() (json.RawMessage, []byte, error) {
				return json.RawMessage(`{"publicKey":{}}`), []byte("state"), nil
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			router := mux.NewRouter()
			repoMngr := &test.RepositoryManager{
				UserFn: func() gallery.UserRepository {
					return &test.UserRepository{UpsertFn: tc.upsertFn}
				},
				PasskeyFn: func() gallery.PasskeyRepository {
					return &test.PasskeyRepository{ByUserIDFn: tc.passkeysFn}
				},
			}
			challengeStore := &test.ChallengeStore{
				PutFn: func() error {
					return nil
				},
			}
			webauthnSvc := &test.WebAuthnService{
				BeginRegistrationFn: tc.webauthnFn,
			}
			sessionSvc := &test.SessionService{}
			svc := NewService(
				WithWebAuthn(webauthnSvc),
				WithSessionService(sessionSvc),
				WithChallengeStore(challengeStore),
				WithRepoManager(repoMngr),
				WithRegistrationKey("our-shared-secret"),
			)

			req, err := http.NewRequest(
				"POST",
				"/api/v1/webauthn/register/options",
				bytes.NewBuffer(tc.reqBody),
			)
			if err != nil {
				t.Fatal("failed to create request:", err)
			}

			logger := log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
			SetupHTTPHandler(svc, router, sessionSvc, logger)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tc.statusCode {
				t.Errorf("incorrect status code, want %v got %v", tc.statusCode, rr.Code)
				t.Error(rr.Body.String())
			}

			if challengeStore.Calls.Put != tc.challengePuts {
				t.Errorf("incorrect ChallengeStore.Put() call count, want %v got %v",
					tc.challengePuts, challengeStore.Calls.Put)
			}

			if err = test.ValidateErrCode(tc.errCode, rr.Body); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestAuthAPI_RegisterVerify(t *testing.T) {
	tt := []struct {
		name           string
		statusCode     int
		reqBody        []byte
		errCode        string
		passkeyCreates int
		sessionCreates int
		userFn         func() (*gallery.User, error)
		countFn        func() (int, error)
		challengeFn    func() ([]byte, error)
		webauthnFn     func() (*gallery.Passkey, error)
	}{
		{
			name:       "Unknown user reports expired challenge",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "challenge_expired",
			passkeyCreates: 0,
			sessionCreates: 0,
			userFn: func() (*gallery.User, error) {
				return nil, sql.ErrNoRows
			},
			challengeFn: func() ([]byte, error) {
				return []byte("state"), nil
			},
			webauthnFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 1}, nil
			},
		},
		{
			name:       "Expired challenge failure",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "challenge_expired",
			passkeyCreates: 0,
			sessionCreates: 0,
			userFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			challengeFn: func() ([]byte, error) {
				return nil, gallery.ErrChallengeExpired("challenge is expired or was already used")
			},
			webauthnFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 1}, nil
			},
		},
		{
			name:       "Attestation failure",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "verification_failed",
			passkeyCreates: 0,
			sessionCreates: 0,
			userFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			challengeFn: func() ([]byte, error) {
				return []byte("state"), nil
			},
			webauthnFn: func() (*gallery.Passkey, error) {
				return nil, gallery.ErrVerificationFailed("credential could not be verified")
			},
		},
		{
			name:       "Concurrent registration filled the last slot",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "capacity_exceeded",
			passkeyCreates: 0,
			sessionCreates: 0,
			userFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			countFn: func() (int, error) {
				return 3, nil
			},
			challengeFn: func() ([]byte, error) {
				return []byte("state"), nil
			},
			webauthnFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 1}, nil
			},
		},
		{
			name:       "Successful request",
			statusCode: http.StatusOK,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "",
			passkeyCreates: 1,
			sessionCreates: 1,
			userFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			challengeFn: func() ([]byte, error) {
				return []byte("state"), nil
			},
			webauthnFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 1}, nil
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			router := mux.NewRouter()
			passkeyRepo := &test.PasskeyRepository{
				CountByUserIDFn: tc.countFn,
				CreateFn: func() error {
					return nil
				},
			}
			userRepo := &test.UserRepository{
				ByUsernameFn:   tc.userFn,
				GetForUpdateFn: tc.userFn,
			}
			repoMngr := &test.RepositoryManager{
				UserFn: func() gallery.UserRepository {
					return userRepo
				},
				PasskeyFn: func() gallery.PasskeyRepository {
					return passkeyRepo
				},
			}
			challengeStore := &test.ChallengeStore{
				TakeAndInvalidateFn: tc.challengeFn,
			}
			webauthnSvc := &test.WebAuthnService{
				FinishRegistrationFn: tc.webauthnFn,
			}
			sessionSvc := &test.SessionService{
				CreateFn: func() (*gallery.Session, error) {
					return &gallery.Session{Token: "b1c84e3a", UserID: 1}, nil
				},
			}
			svc := NewService(
				WithWebAuthn(webauthnSvc),
				WithSessionService(sessionSvc),
				WithChallengeStore(challengeStore),
				WithRepoManager(repoMngr),
				WithRegistrationKey("our-shared-secret"),
			)

			req, err := http.NewRequest(
				"POST",
				"/api/v1/webauthn/register/verify",
				bytes.NewBuffer(tc.reqBody),
			)
			if err != nil {
				t.Fatal("failed to create request:", err)
			}

			logger := log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
			SetupHTTPHandler(svc, router, sessionSvc, logger)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tc.statusCode {
				t.Errorf("incorrect status code, want %v got %v", tc.statusCode, rr.Code)
				t.Error(rr.Body.String())
			}

			if passkeyRepo.Calls.Create != tc.passkeyCreates {
				t.Errorf("incorrect PasskeyRepository.Create() call count, want %v got %v",
					tc.passkeyCreates, passkeyRepo.Calls.Create)
			}
			if sessionSvc.Calls.Create != tc.sessionCreates {
				t.Errorf("incorrect SessionService.Create() call count, want %v got %v",
					tc.sessionCreates, sessionSvc.Calls.Create)
			}

			if tc.statusCode == http.StatusOK {
				cookies := rr.Result().Cookies()
				if len(cookies) != 1 || cookies[0].Name != gallery.SessionCookie {
					t.Errorf("session cookie not set, got %v", cookies)
				}
				if repoMngr.Calls.NewWithTransaction != 1 {
					t.Errorf("passkey stored outside of a transaction, want 1 got %v",
						repoMngr.Calls.NewWithTransaction)
				}
				if userRepo.Calls.GetForUpdate != 1 {
					t.Errorf("passkey stored without the user row lock, want 1 got %v",
						userRepo.Calls.GetForUpdate)
				}
			}

			if err = test.ValidateErrCode(tc.errCode, rr.Body); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestAuthAPI_LoginOptions(t *testing.T) {
	tt := []struct {
		name          string
		statusCode    int
		reqBody       []byte
		errCode       string
		challengePuts int
		userFn        func() (*gallery.User, error)
		passkeysFn    func() ([]*gallery.Passkey, error)
	}{
		{
			name:          "Unknown user failure",
			statusCode:    http.StatusNotFound,
			reqBody:       []byte(`{"username": "adas"}`),
			errCode:       "user_not_found",
			challengePuts: 0,
			userFn: func() (*gallery.User, error) {
				return nil, sql.ErrNoRows
			},
			passkeysFn: func() ([]*gallery.Passkey, error) {
				return nil, nil
			},
		},
		{
			name:          "No passkeys failure",
			statusCode:    http.StatusBadRequest,
			reqBody:       []byte(`{"username": "adas"}`),
			errCode:       "no_credentials",
			challengePuts: 0,
			userFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			passkeysFn: func() ([]*gallery.Passkey, error) {
				return []*gallery.Passkey{}, nil
			},
		},
		{
			name:          "Successful request",
			statusCode:    http.StatusOK,
			reqBody:       []byte(`{"username": "adas"}`),
			errCode:       "",
			challengePuts: 1,
			userFn: func() (*gallery.User, error) {
				return &gallery.User{ID: 1, Username: "adas"}, nil
			},
			passkeysFn: func() ([]*gallery.Passkey, error) {
				return []*gallery.Passkey{{ID: "Y3JlZGVudGlhbC1pZA"}}, nil
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			router := mux.NewRouter()
			repoMngr := &test.RepositoryManager{
				UserFn: func() gallery.UserRepository {
					return &test.UserRepository{ByUsernameFn: tc.userFn}
				},
				PasskeyFn: func() gallery.PasskeyRepository {
					return &test.PasskeyRepository{ByUserIDFn: tc.passkeysFn}
				},
			}
			challengeStore := &test.ChallengeStore{
				PutFn: func() error {
					return nil
				},
			}
			webauthnSvc := &test.WebAuthnService{
				BeginLoginFn: func() (json.RawMessage, []byte, error) {
					return json.RawMessage(`{"publicKey":{}}`), []byte("state"), nil
				},
			}
			sessionSvc := &test.SessionService{}
			svc := NewService(
				WithWebAuthn(webauthnSvc),
				WithSessionService(sessionSvc),
				WithChallengeStore(challengeStore),
				WithRepoManager(repoMngr),
			)

			req, err := http.NewRequest(
				"POST",
				"/api/v1/webauthn/authenticate/options",
				bytes.NewBuffer(tc.reqBody),
			)
			if err != nil {
				t.Fatal("failed to create request:", err)
			}

			logger := log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
			SetupHTTPHandler(svc, router, sessionSvc, logger)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tc.statusCode {
				t.Errorf("incorrect status code, want %v got %v", tc.statusCode, rr.Code)
				t.Error(rr.Body.String())
			}

			if challengeStore.Calls.Put != tc.challengePuts {
				t.Errorf("incorrect ChallengeStore.Put() call count, want %v got %v",
					tc.challengePuts, challengeStore.Calls.Put)
			}

			if err = test.ValidateErrCode(tc.errCode, rr.Body); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestAuthAPI_LoginVerify(t *testing.T) {
	tt := []struct {
		name           string
		statusCode     int
		reqBody        []byte
		errCode        string
		sessionCreates int
		userFn         func() (*gallery.User, error)
		passkeyFn      func() (*gallery.Passkey, error)
		webauthnFn     func() (int64, error)
		counterFn      func() error
	}{
		{
			name:       "Unknown username reports expired challenge",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "mallory",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "challenge_expired",
			sessionCreates: 0,
			userFn: func() (*gallery.User, error) {
				return nil, sql.ErrNoRows
			},
			passkeyFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 1}, nil
			},
			webauthnFn: func() (int64, error) {
				return 8, nil
			},
			counterFn: func() error {
				return nil
			},
		},
		{
			name:       "Unknown credential failure",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "credential_not_found",
			sessionCreates: 0,
			passkeyFn: func() (*gallery.Passkey, error) {
				return nil, gallery.ErrCredentialNotFound("credential is not registered")
			},
			webauthnFn: func() (int64, error) {
				return 8, nil
			},
			counterFn: func() error {
				return nil
			},
		},
		{
			name:       "Foreign credential failure",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "credential_not_found",
			sessionCreates: 0,
			passkeyFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 99}, nil
			},
			webauthnFn: func() (int64, error) {
				return 8, nil
			},
			counterFn: func() error {
				return nil
			},
		},
		{
			name:       "Assertion failure",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "verification_failed",
			sessionCreates: 0,
			passkeyFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 1, Counter: 7}, nil
			},
			webauthnFn: func() (int64, error) {
				return 0, gallery.ErrVerificationFailed("credential could not be verified")
			},
			counterFn: func() error {
				return nil
			},
		},
		{
			name:       "Counter regression failure",
			statusCode: http.StatusBadRequest,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "counter_regression",
			sessionCreates: 0,
			passkeyFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 1, Counter: 7}, nil
			},
			webauthnFn: func() (int64, error) {
				return 3, nil
			},
			counterFn: func() error {
				return gallery.ErrCounterRegression("signature counter regressed")
			},
		},
		{
			name:       "Successful request",
			statusCode: http.StatusOK,
			reqBody: []byte(`{
				"username": "adas",
				"credential": {"id": "Y3JlZGVudGlhbC1pZA"}
			}`),
			errCode:        "",
			sessionCreates: 1,
			passkeyFn: func() (*gallery.Passkey, error) {
				return &gallery.Passkey{ID: "Y3JlZGVudGlhbC1pZA", UserID: 1, Counter: 7}, nil
			},
			webauthnFn: func() (int64, error) {
				return 8, nil
			},
			counterFn: func() error {
				return nil
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			router := mux.NewRouter()
			userFn := tc.userFn
			if userFn == nil {
				userFn = func() (*gallery.User, error) {
					return &gallery.User{ID: 1, Username: "adas"}, nil
				}
			}
			repoMngr := &test.RepositoryManager{
				UserFn: func() gallery.UserRepository {
					return &test.UserRepository{ByUsernameFn: userFn}
				},
				PasskeyFn: func() gallery.PasskeyRepository {
					return &test.PasskeyRepository{
						ByIDFn:          tc.passkeyFn,
						UpdateCounterFn: tc.counterFn,
					}
				},
			}
			challengeStore := &test.ChallengeStore{
				TakeAndInvalidateFn: func() ([]byte, error) {
					return []byte("state"), nil
				},
			}
			webauthnSvc := &test.WebAuthnService{
				FinishLoginFn: tc.webauthnFn,
			}
			sessionSvc := &test.SessionService{
				CreateFn: func() (*gallery.Session, error) {
					return &gallery.Session{Token: "b1c84e3a", UserID: 1}, nil
				},
			}
			svc := NewService(
				WithWebAuthn(webauthnSvc),
				WithSessionService(sessionSvc),
				WithChallengeStore(challengeStore),
				WithRepoManager(repoMngr),
			)

			req, err := http.NewRequest(
				"POST",
				"/api/v1/webauthn/authenticate/verify",
				bytes.NewBuffer(tc.reqBody),
			)
			if err != nil {
				t.Fatal("failed to create request:", err)
			}

			logger := log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
			SetupHTTPHandler(svc, router, sessionSvc, logger)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tc.statusCode {
				t.Errorf("incorrect status code, want %v got %v", tc.statusCode, rr.Code)
				t.Error(rr.Body.String())
			}

			if sessionSvc.Calls.Create != tc.sessionCreates {
				t.Errorf("incorrect SessionService.Create() call count, want %v got %v",
					tc.sessionCreates, sessionSvc.Calls.Create)
			}

			if err = test.ValidateErrCode(tc.errCode, rr.Body); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestAuthAPI_Me(t *testing.T) {
	tt := []struct {
		name      string
		cookie    *http.Cookie
		resolveFn func() (*gallery.SessionUser, error)
		respBody  string
	}{
		{
			name:   "Anonymous without cookie",
			cookie: nil,
			resolveFn: func() (*gallery.SessionUser, error) {
				return nil, nil
			},
			respBody: `{"authenticated":false}`,
		},
		{
			name:   "Anonymous with stale cookie",
			cookie: &http.Cookie{Name: gallery.SessionCookie, Value: "stale-token"},
			resolveFn: func() (*gallery.SessionUser, error) {
				return nil, nil
			},
			respBody: `{"authenticated":false}`,
		},
		{
			name:   "Authenticated",
			cookie: &http.Cookie{Name: gallery.SessionCookie, Value: "b1c84e3a"},
			resolveFn: func() (*gallery.SessionUser, error) {
				return &gallery.SessionUser{ID: 1, Username: "adas"}, nil
			},
			respBody: `{"authenticated":true,"username":"adas"}`,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			router := mux.NewRouter()
			sessionSvc := &test.SessionService{
				ResolveFn: tc.resolveFn,
			}
			svc := NewService(
				WithSessionService(sessionSvc),
			)

			req, err := http.NewRequest("GET", "/api/v1/auth/me", nil)
			if err != nil {
				t.Fatal("failed to create request:", err)
			}
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}

			logger := log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
			SetupHTTPHandler(svc, router, sessionSvc, logger)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("incorrect status code, want %v got %v", http.StatusOK, rr.Code)
				t.Error(rr.Body.String())
			}

			if rr.Body.String() != tc.respBody {
				t.Errorf("incorrect response body, want '%s' got '%s'",
					tc.respBody, rr.Body.String())
			}
		})
	}
}

func TestAuthAPI_Logout(t *testing.T) {
	tt := []struct {
		name        string
		cookie      *http.Cookie
		revokeCalls int
	}{
		{
			name:        "Logout with session",
			cookie:      &http.Cookie{Name: gallery.SessionCookie, Value: "b1c84e3a"},
			revokeCalls: 1,
		},
		{
			name:        "Logout without session",
			cookie:      nil,
			revokeCalls: 0,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			router := mux.NewRouter()
			sessionSvc := &test.SessionService{
				RevokeFn: func() error {
					return nil
				},
			}
			svc := NewService(
				WithSessionService(sessionSvc),
			)

			req, err := http.NewRequest("POST", "/api/v1/auth/logout", nil)
			if err != nil {
				t.Fatal("failed to create request:", err)
			}
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}

			logger := log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
			SetupHTTPHandler(svc, router, sessionSvc, logger)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("incorrect status code, want %v got %v", http.StatusOK, rr.Code)
				t.Error(rr.Body.String())
			}

			if sessionSvc.Calls.Revoke != tc.revokeCalls {
				t.Errorf("incorrect SessionService.Revoke() call count, want %v got %v",
					tc.revokeCalls, sessionSvc.Calls.Revoke)
			}

			if rr.Body.String() != `{"ok":true}` {
				t.Errorf("incorrect response body, want '{\"ok\":true}' got '%s'",
					rr.Body.String())
			}
		})
	}
}
