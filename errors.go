package gallery

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

const (
	// EBadRequest represents a malformed or incomplete request.
	EBadRequest ErrCode = "bad_request"
	// EInvalidUser represents a username outside of the account allow-list.
	EInvalidUser ErrCode = "invalid_user"
	// EUnauthorized represents a rejected registration key or a request
	// lacking a valid session.
	EUnauthorized ErrCode = "unauthorized"
	// ECapacityExceeded represents a user at the passkey cap.
	ECapacityExceeded ErrCode = "capacity_exceeded"
	// EChallengeExpired represents a ceremony challenge that is absent,
	// already consumed, or past its expiry.
	EChallengeExpired ErrCode = "challenge_expired"
	// EVerificationFailed represents a negative result from the
	// WebAuthn verifier.
	EVerificationFailed ErrCode = "verification_failed"
	// ECredentialNotFound represents an assertion referencing an
	// unregistered passkey.
	ECredentialNotFound ErrCode = "credential_not_found"
	// ECounterRegression represents a signature counter lower than the
	// stored value, a sign of a cloned authenticator or replayed response.
	ECounterRegression ErrCode = "counter_regression"
	// EUserNotFound represents a username with no account.
	EUserNotFound ErrCode = "user_not_found"
	// ENoCredentials represents an authentication attempt for a user
	// with no registered passkeys.
	ENoCredentials ErrCode = "no_credentials"
	// ENotFound represents a missing entity.
	ENotFound ErrCode = "not_found"
	// EInternal represents an internal error outside of our domain.
	EInternal ErrCode = "internal"
)

// Error represents an error within the gallery domain.
type Error interface {
	Error() string
	Code() ErrCode
	Message() string
}

// ErrCode is a machine readable code representing
// an error within the gallery domain.
type ErrCode string

// ErrBadRequest represents a malformed request error.
type ErrBadRequest string

func (e ErrBadRequest) Code() ErrCode   { return EBadRequest }
func (e ErrBadRequest) Message() string { return string(e) }
func (e ErrBadRequest) Error() string   { return fmt.Sprintf("[%s] %s", e.Code(), string(e)) }

// ErrInvalidUser represents a username rejected by the allow-list.
type ErrInvalidUser string

func (e ErrInvalidUser) Code() ErrCode   { return EInvalidUser }
func (e ErrInvalidUser) Message() string { return string(e) }
func (e ErrInvalidUser) Error() string   { return fmt.Sprintf("[%s] %s", e.Code(), string(e)) }

// ErrUnauthorized represents a request without valid authorization.
type ErrUnauthorized string

func (e ErrUnauthorized) Code() ErrCode   { return EUnauthorized }
func (e ErrUnauthorized) Message() string { return string(e) }
func (e ErrUnauthorized) Error() string   { return fmt.Sprintf("[%s] %s", e.Code(), string(e)) }

// ErrCapacityExceeded represents a user exceeding the passkey cap.
type ErrCapacityExceeded string

func (e ErrCapacityExceeded) Code() ErrCode   { return ECapacityExceeded }
func (e ErrCapacityExceeded) Message() string { return string(e) }
func (e ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), string(e))
}

// ErrChallengeExpired represents an absent or consumed ceremony challenge.
type ErrChallengeExpired string

func (e ErrChallengeExpired) Code() ErrCode   { return EChallengeExpired }
func (e ErrChallengeExpired) Message() string { return string(e) }
func (e ErrChallengeExpired) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), string(e))
}

// ErrVerificationFailed represents a failed ceremony verification.
type ErrVerificationFailed string

func (e ErrVerificationFailed) Code() ErrCode   { return EVerificationFailed }
func (e ErrVerificationFailed) Message() string { return string(e) }
func (e ErrVerificationFailed) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), string(e))
}

// ErrCredentialNotFound represents an unregistered credential reference.
type ErrCredentialNotFound string

func (e ErrCredentialNotFound) Code() ErrCode   { return ECredentialNotFound }
func (e ErrCredentialNotFound) Message() string { return string(e) }
func (e ErrCredentialNotFound) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), string(e))
}

// ErrCounterRegression represents a signature counter regression.
type ErrCounterRegression string

func (e ErrCounterRegression) Code() ErrCode   { return ECounterRegression }
func (e ErrCounterRegression) Message() string { return string(e) }
func (e ErrCounterRegression) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), string(e))
}

// ErrUserNotFound represents a username with no account row.
type ErrUserNotFound string

func (e ErrUserNotFound) Code() ErrCode   { return EUserNotFound }
func (e ErrUserNotFound) Message() string { return string(e) }
func (e ErrUserNotFound) Error() string   { return fmt.Sprintf("[%s] %s", e.Code(), string(e)) }

// ErrNoCredentials represents a user with no registered passkeys.
type ErrNoCredentials string

func (e ErrNoCredentials) Code() ErrCode   { return ENoCredentials }
func (e ErrNoCredentials) Message() string { return string(e) }
func (e ErrNoCredentials) Error() string   { return fmt.Sprintf("[%s] %s", e.Code(), string(e)) }

// ErrNotFound represents a missing entity.
type ErrNotFound string

func (e ErrNotFound) Code() ErrCode   { return ENotFound }
func (e ErrNotFound) Message() string { return string(e) }
func (e ErrNotFound) Error() string   { return fmt.Sprintf("[%s] %s", e.Code(), string(e)) }

// DomainError returns a domain error if available.
func DomainError(err error) Error {
	if err == nil {
		return nil
	}

	var e Error
	if stderrors.As(err, &e) {
		return e
	}

	if e, ok := errors.Cause(err).(Error); ok {
		return e
	}

	return nil
}

// ErrorCode returns the code associated with a domain error.
// If an error is not part of the gallery domain, it returns
// EInternal.
func ErrorCode(err error) ErrCode {
	if err == nil {
		return ErrCode("")
	}

	e := DomainError(err)
	if e == nil {
		return EInternal
	}

	return e.Code()
}
