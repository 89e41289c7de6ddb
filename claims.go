package authkit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// Claims is the read view of a session token payload: subject identity,
// timestamps, and the open extensions mapping filled by issuance hooks.
type Claims interface {
	Subject() string
	UserID() string
	Expires() time.Time
	IssuedAt() time.Time
	Extension(key string) (any, bool)
	ExtensionMap() map[string]any
}

// JWTClaims is the concrete implementation of Claims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID        string         `json:"uid,omitempty"`
	Extensions map[string]any `json:"ext,omitempty"` // open enrichment payload
}

// Verify interface compliance
var _ Claims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Extension returns a single extension value
func (c *JWTClaims) Extension(key string) (any, bool) {
	if c.Extensions == nil {
		return nil, false
	}
	val, ok := c.Extensions[key]
	return val, ok
}

// ExtensionMap exposes the extension payload for session projection
func (c *JWTClaims) ExtensionMap() map[string]any {
	return c.Extensions
}

// SetExtension records an extension value. This is the only claim surface
// issuance hooks are allowed to touch.
func (c *JWTClaims) SetExtension(key string, val any) *JWTClaims {
	if c.Extensions == nil {
		c.Extensions = map[string]any{}
	}
	c.Extensions[key] = val
	return c
}

// validateTimes enforces expiresAt > issuedAt before signing.
func (c *JWTClaims) validateTimes() error {
	if c.RegisteredClaims.ExpiresAt == nil {
		return errors.New("claims missing expiration", errors.CategoryBadInput)
	}

	if c.RegisteredClaims.IssuedAt != nil &&
		!c.RegisteredClaims.ExpiresAt.Time.After(c.RegisteredClaims.IssuedAt.Time) {
		return errors.New("claims expiration must be after issuance", errors.CategoryBadInput)
	}

	return nil
}
