package webauthn

import (
	"github.com/go-kit/kit/log"
	webauthnLib "github.com/go-webauthn/webauthn/webauthn"

	gallery "github.com/naszahistoria/gallery"
)

// NewService returns a new WebAuthn validator.
func NewService(options ...ConfigOption) (gallery.WebAuthnService, error) {
	s := service{
		logger: log.NewNopLogger(),
		parser: defaultParser{},
	}

	var c config
	for _, opt := range options {
		opt(&s, &c)
	}

	if s.lib == nil {
		lib, err := webauthnLib.New(&webauthnLib.Config{
			RPDisplayName: c.displayName,
			RPID:          c.rpID,
			RPOrigins:     c.origins,
		})
		if err != nil {
			return nil, err
		}
		s.lib = lib
	}

	return &s, nil
}

// config holds relying party settings for the underlying library.
type config struct {
	displayName string
	rpID        string
	origins     []string
}

// ConfigOption configures the validator.
type ConfigOption func(*service, *config)

// WithLogger configures the validator with a logger.
func WithLogger(l log.Logger) ConfigOption {
	return func(s *service, c *config) {
		s.logger = l
	}
}

// WithDisplayName configures the relying party display name shown
// in browser prompts.
func WithDisplayName(name string) ConfigOption {
	return func(s *service, c *config) {
		c.displayName = name
	}
}

// WithRelyingParty configures the relying party ID, the domain
// credentials are scoped to.
func WithRelyingParty(rpID string) ConfigOption {
	return func(s *service, c *config) {
		c.rpID = rpID
	}
}

// WithOrigins configures the origins ceremony responses may
// come from.
func WithOrigins(origins []string) ConfigOption {
	return func(s *service, c *config) {
		c.origins = origins
	}
}

// WithLib overrides the underlying WebAuthn library.
func WithLib(lib Webauthner) ConfigOption {
	return func(s *service, c *config) {
		s.lib = lib
	}
}

// WithParser overrides the browser payload parser.
func WithParser(p Parser) ConfigOption {
	return func(s *service, c *config) {
		s.parser = p
	}
}
