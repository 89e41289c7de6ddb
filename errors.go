package authkit

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced on structured errors for telemetry and client mapping.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeBadSignature       = "TOKEN_SIGNATURE_INVALID"
	TextCodeStoreUnavailable   = "STORE_UNAVAILABLE"
	TextCodeSessionNotFound    = "SESSION_NOT_FOUND"
	TextCodeSessionDecodeError = "SESSION_DECODE_ERROR"
	TextCodeDataParseError     = "DATA_PARSE_ERROR"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeImmutableClaim     = "IMMUTABLE_CLAIM_MUTATION"
)

// ErrIdentityNotFound is returned by stores when no user matches a lookup.
// It never leaves the login boundary; there it collapses into
// ErrInvalidCredentials.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound)

// ErrInvalidCredentials is the single externally observable login failure.
// Unknown identifier and wrong secret are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrTokenExpired means the token signature was valid but the token is past
// its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrBadSignature means the token was signed with a different key.
var ErrBadSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature)

// ErrTokenMalformed means the token is structurally invalid.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryBadInput).
	WithTextCode(TextCodeTokenMalformed)

// ErrStoreUnavailable wraps identity store I/O failures. The core never
// retries; retries belong to the store implementation.
var ErrStoreUnavailable = errors.New("identity store unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable)

// ErrUnableToFindSession is the error when a request carries no token
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound)

// ErrUnableToDecodeSession is the error when claims cannot be projected
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionDecodeError)

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput).
	WithTextCode(TextCodeDataParseError)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrImmutableClaimMutation flags issuance hooks that touched registered
// identity claims.
var ErrImmutableClaimMutation = errors.New("issuance hook mutated immutable claim", errors.CategoryInternal).
	WithTextCode(TextCodeImmutableClaim)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsBadSignatureError will check for signature mismatches
func IsBadSignatureError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBadSignature) {
		return true
	}
	return strings.Contains(err.Error(), "signature is invalid")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsInvalidCredentialsError reports whether err collapses to the generic
// login failure.
func IsInvalidCredentialsError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return true
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeInvalidCreds
	}
	return false
}
