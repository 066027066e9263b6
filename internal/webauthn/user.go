package webauthn

import (
	"encoding/base64"
	"strconv"

	"github.com/go-webauthn/webauthn/protocol"
	webauthnLib "github.com/go-webauthn/webauthn/webauthn"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

// User wraps a domain user to provide compatibility with the
// go-webauthn library.
type User struct {
	gallery.User

	// Passkeys are the user's registered credentials.
	Passkeys []*gallery.Passkey
}

// WebAuthnID returns a unique identifier for a user.
func (u *User) WebAuthnID() []byte {
	return strconv.AppendInt(nil, u.ID, 10)
}

// WebAuthnName returns a human readable name for a user.
func (u *User) WebAuthnName() string {
	return u.Username
}

// WebAuthnDisplayName returns the display name for a user.
func (u *User) WebAuthnDisplayName() string {
	return u.Username
}

// WebAuthnIcon returns an icon for a user.
func (u *User) WebAuthnIcon() string {
	return ""
}

// WebAuthnCredentials returns the user's registered credentials in
// the library's format.
func (u *User) WebAuthnCredentials() []webauthnLib.Credential {
	credentials := make([]webauthnLib.Credential, 0, len(u.Passkeys))
	for _, passkey := range u.Passkeys {
		credential, err := toCredential(passkey)
		if err != nil {
			continue
		}
		credentials = append(credentials, *credential)
	}

	return credentials
}

// toCredential converts a stored passkey to a library credential.
func toCredential(passkey *gallery.Passkey) (*webauthnLib.Credential, error) {
	credentialID, err := base64.RawURLEncoding.DecodeString(passkey.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid credential ID encoding")
	}

	transports := make([]protocol.AuthenticatorTransport, 0, len(passkey.Transports))
	for _, t := range passkey.Transports {
		transports = append(transports, protocol.AuthenticatorTransport(t))
	}

	return &webauthnLib.Credential{
		ID:        credentialID,
		PublicKey: passkey.PublicKey,
		Transport: transports,
		Authenticator: webauthnLib.Authenticator{
			SignCount: uint32(passkey.Counter),
		},
	}, nil
}

// toPasskey converts a library credential to a stored passkey.
func toPasskey(credential *webauthnLib.Credential, userID int64) *gallery.Passkey {
	transports := make([]string, 0, len(credential.Transport))
	for _, t := range credential.Transport {
		transports = append(transports, string(t))
	}

	return &gallery.Passkey{
		ID:         base64.RawURLEncoding.EncodeToString(credential.ID),
		UserID:     userID,
		PublicKey:  credential.PublicKey,
		Counter:    int64(credential.Authenticator.SignCount),
		Transports: transports,
	}
}
