package authkit

import (
	"context"
	"reflect"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Auther composes credential verification, the session pipeline, and the
// token codec into the login protocol. Each call is independent and safe to
// run concurrently; the only shared state is read-only configuration.
type Auther struct {
	providers       []IdentityProvider
	pipeline        *Pipeline
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
	tokenValidator  TokenValidator
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	a := &Auther{
		pipeline:        NewPipeline(),
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}

	if provider != nil {
		a.providers = append(a.providers, provider)
	}

	return a
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithProvider appends an identity provider. Providers are consulted in
// registration order during login.
func (s *Auther) WithProvider(provider IdentityProvider) *Auther {
	if provider != nil {
		s.providers = append(s.providers, provider)
	}
	return s
}

// WithPipeline replaces the session callback pipeline.
func (s *Auther) WithPipeline(pipeline *Pipeline) *Auther {
	s.pipeline = normalizePipeline(pipeline)
	return s
}

// WithTokenValidator sets a custom token validator for session verification.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Pipeline returns the session callback pipeline for hook registration.
func (s *Auther) Pipeline() *Pipeline {
	return s.pipeline
}

// Login walks the provider chain with the submitted credentials; the first
// provider to return an identity wins. On success the issuance hooks run
// and a signed token is returned. Every failure collapses to
// ErrInvalidCredentials: the cause is logged, never surfaced.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	creds := Credentials{Identifier: identifier, Secret: password}

	identity, err := s.authorize(ctx, creds)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err, "identifier", identifier)
		return "", ErrInvalidCredentials
	}

	token, err := s.generateToken(ctx, identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", ErrInvalidCredentials
	}

	return token, nil
}

func (s *Auther) authorize(ctx context.Context, creds Credentials) (Identity, error) {
	if len(s.providers) == 0 {
		return nil, ErrIdentityNotFound
	}

	var lastErr error
	for _, provider := range s.providers {
		identity, err := provider.Authorize(ctx, creds)
		if err != nil {
			lastErr = err
			continue
		}

		if identity == nil || reflect.ValueOf(identity).IsZero() {
			lastErr = ErrIdentityNotFound
			continue
		}

		return identity, nil
	}

	return nil, lastErr
}

// SessionFromToken validates a raw token and projects its claims into a
// fresh Session. Codec failures are returned verbatim so trusted callers
// can branch on the kind; they must not leak the kind to the requester.
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	session, err := normalizePipeline(s.pipeline).projectSession(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to project session from claims", "error", err)
		return nil, err
	}

	return session, nil
}

// IdentityFromSession re-reads the identity behind an established session,
// for surrounding code that projects per-user state into the UI layer.
func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	var lastErr error = ErrIdentityNotFound

	for _, provider := range s.providers {
		finder, ok := provider.(IdentityFinder)
		if !ok {
			continue
		}

		identity, err := finder.FindIdentityByIdentifier(ctx, session.GetUserID())
		if err != nil {
			lastErr = err
			continue
		}

		return identity, nil
	}

	s.logger.Error("IdentityFromSession lookup failed", "error", lastErr)
	return nil, lastErr
}

func (s *Auther) generateToken(ctx context.Context, identity Identity) (string, error) {
	claims := s.newClaims(identity)

	if err := normalizePipeline(s.pipeline).issueClaims(ctx, identity, claims); err != nil {
		s.logger.Error("issuance pipeline failed", "error", err)
		return "", err
	}

	return s.tokenService.SignClaims(claims)
}

func (s *Auther) newClaims(identity Identity) *JWTClaims {
	now := time.Now()

	var aud jwt.ClaimStrings
	if len(s.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(s.audience))
		copy(aud, s.audience)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   identity.ID(),
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenExpiration) * time.Hour)),
		},
		UID: identity.ID(),
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

var _ Authenticator = (*Auther)(nil)
