// Package webauthn validates passkey registration and login
// ceremonies.
//
// Validation itself is deferred to the go-webauthn library. The
// service is stateless: ceremony state produced by a Begin step is
// returned to the caller as opaque bytes, and the caller hands it
// back to the matching Finish step. Challenge storage and single use
// semantics are the caller's concern.
package webauthn

import (
	"context"
	"encoding/json"

	"github.com/go-kit/kit/log"
	"github.com/go-webauthn/webauthn/protocol"
	webauthnLib "github.com/go-webauthn/webauthn/webauthn"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

// Webauthner is an interface to go-webauthn.
type Webauthner interface {
	BeginRegistration(user webauthnLib.User, opts ...webauthnLib.RegistrationOption) (*protocol.CredentialCreation, *webauthnLib.SessionData, error)
	CreateCredential(user webauthnLib.User, session webauthnLib.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthnLib.Credential, error)
	BeginLogin(user webauthnLib.User, opts ...webauthnLib.LoginOption) (*protocol.CredentialAssertion, *webauthnLib.SessionData, error)
	ValidateLogin(user webauthnLib.User, session webauthnLib.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthnLib.Credential, error)
}

// Parser parses browser credential payloads.
type Parser interface {
	ParseCredentialCreationResponseBytes(data []byte) (*protocol.ParsedCredentialCreationData, error)
	ParseCredentialRequestResponseBytes(data []byte) (*protocol.ParsedCredentialAssertionData, error)
}

type defaultParser struct{}

func (defaultParser) ParseCredentialCreationResponseBytes(data []byte) (*protocol.ParsedCredentialCreationData, error) {
	return protocol.ParseCredentialCreationResponseBytes(data)
}

func (defaultParser) ParseCredentialRequestResponseBytes(data []byte) (*protocol.ParsedCredentialAssertionData, error) {
	return protocol.ParseCredentialRequestResponseBytes(data)
}

// service is an implementation of gallery.WebAuthnService.
type service struct {
	logger log.Logger
	lib    Webauthner
	parser Parser
}

// BeginRegistration starts a passkey registration ceremony for a user.
// Credentials in the exclude list are advertised to the browser so an
// authenticator that already holds one refuses to create a duplicate.
func (s *service) BeginRegistration(ctx context.Context, user *gallery.User, exclude []*gallery.Passkey) (json.RawMessage, []byte, error) {
	wu := &User{User: *user, Passkeys: exclude}

	opts := []webauthnLib.RegistrationOption{
		webauthnLib.WithResidentKeyRequirement(protocol.ResidentKeyRequirementRequired),
		webauthnLib.WithConveyancePreference(protocol.PreferNoAttestation),
	}
	if credentials := wu.WebAuthnCredentials(); len(credentials) > 0 {
		opts = append(opts, webauthnLib.WithExclusions(
			webauthnLib.Credentials(credentials).CredentialDescriptors(),
		))
	}

	creation, sessionData, err := s.lib.BeginRegistration(wu, opts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to begin registration")
	}

	options, err := json.Marshal(creation)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode registration options")
	}

	challengeData, err := json.Marshal(sessionData)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode ceremony state")
	}

	return options, challengeData, nil
}

// FinishRegistration validates a browser's attestation response and
// returns the new passkey.
func (s *service) FinishRegistration(ctx context.Context, user *gallery.User, challengeData []byte, credential json.RawMessage) (*gallery.Passkey, error) {
	var sessionData webauthnLib.SessionData
	if err := json.Unmarshal(challengeData, &sessionData); err != nil {
		return nil, errors.Wrap(err, "failed to decode ceremony state")
	}

	parsed, err := s.parser.ParseCredentialCreationResponseBytes(credential)
	if err != nil {
		return nil, gallery.ErrVerificationFailed("credential could not be verified")
	}

	wu := &User{User: *user}
	libCredential, err := s.lib.CreateCredential(wu, sessionData, parsed)
	if err != nil {
		return nil, gallery.ErrVerificationFailed("credential could not be verified")
	}

	return toPasskey(libCredential, user.ID), nil
}

// BeginLogin starts a passkey login ceremony against a user's
// registered credentials.
func (s *service) BeginLogin(ctx context.Context, user *gallery.User, passkeys []*gallery.Passkey) (json.RawMessage, []byte, error) {
	wu := &User{User: *user, Passkeys: passkeys}

	assertion, sessionData, err := s.lib.BeginLogin(wu)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to begin login")
	}

	options, err := json.Marshal(assertion)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode login options")
	}

	challengeData, err := json.Marshal(sessionData)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode ceremony state")
	}

	return options, challengeData, nil
}

// FinishLogin validates a browser's assertion response against a
// stored passkey and returns the authenticator's new signature
// counter. The caller persists the counter and decides whether it
// regressed.
func (s *service) FinishLogin(ctx context.Context, user *gallery.User, passkey *gallery.Passkey, challengeData []byte, credential json.RawMessage) (int64, error) {
	var sessionData webauthnLib.SessionData
	if err := json.Unmarshal(challengeData, &sessionData); err != nil {
		return 0, errors.Wrap(err, "failed to decode ceremony state")
	}

	parsed, err := s.parser.ParseCredentialRequestResponseBytes(credential)
	if err != nil {
		return 0, gallery.ErrVerificationFailed("credential could not be verified")
	}

	wu := &User{User: *user, Passkeys: []*gallery.Passkey{passkey}}
	libCredential, err := s.lib.ValidateLogin(wu, sessionData, parsed)
	if err != nil {
		return 0, gallery.ErrVerificationFailed("credential could not be verified")
	}

	return int64(libCredential.Authenticator.SignCount), nil
}
