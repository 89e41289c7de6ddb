package authkit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Session holds the request-scoped, verified view of an authenticated user.
// Sessions are derived from validated token claims and never cached beyond
// the request.
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetAudience() []string
	GetIssuer() string
	GetIssuedAt() *time.Time
	GetExpiration() *time.Time
	GetData() map[string]any
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	SessionFromToken(token string) (Session, error)
	IdentityFromSession(ctx context.Context, session Session) (Identity, error)
}

// Identity holds the attributes of a verified identity
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// Credentials is the raw, untrusted login input. It is never persisted and
// is discarded after verification.
type Credentials struct {
	Identifier string
	Secret     string
}

// IdentityProvider is the provider extension boundary: given raw
// credentials, return the verified identity or an error. All providers are
// treated uniformly by the orchestrator.
type IdentityProvider interface {
	Authorize(ctx context.Context, creds Credentials) (Identity, error)
}

// IdentityFinder is an optional interface providers can implement to support
// re-reading an identity for an already established session.
type IdentityFinder interface {
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// IdentityStore is the narrow adapter contract the core depends on. The
// host storage system owns the user schema; the core only reads it.
type IdentityStore interface {
	FindUserByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// TokenService signs and validates session tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(token string) (Claims, error)
}

// TokenValidator validates raw tokens into claims. TokenService satisfies
// it; hosts can swap in a custom validator.
type TokenValidator interface {
	Validate(token string) (Claims, error)
}

type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
	GetExtendedSession() bool
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int
	GetExtendedTokenDuration() int
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetRejectedRouteKey() string
	GetRejectedRouteDefault() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
