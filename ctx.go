package authkit

import (
	"context"
)

var sessionCtxKey = &contextKey{"session"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithSessionContext sets the Session in the given context
func WithSessionContext(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, session)
}

// SessionFromContext finds the session from the context.
func SessionFromContext(ctx context.Context) (Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(Session)
	return raw, ok
}

// WithClaimsContext sets the Claims in the given context
func WithClaimsContext(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// GetClaims extracts the Claims from the standard context
func GetClaims(ctx context.Context) (Claims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(Claims)
	return raw, ok
}

// UserIDFromContext is a convenience accessor for the authenticated user ID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if session, ok := SessionFromContext(ctx); ok {
		return session.GetUserID(), true
	}
	if claims, ok := GetClaims(ctx); ok {
		return claims.UserID(), true
	}
	return "", false
}
