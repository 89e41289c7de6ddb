package authkit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

// SessionUser is the verified user view inside a session: the immutable
// user ID plus whatever the projection hooks copied out of the claim
// extensions.
type SessionUser struct {
	ID   string         `json:"id,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// SessionObject is the request-scoped session produced from valid claims.
// It is derived fresh on every authenticated request and never cached.
type SessionObject struct {
	User           SessionUser `json:"user"`
	Audience       []string    `json:"audience,omitempty"`
	Issuer         string      `json:"issuer,omitempty"`
	IssuedAt       *time.Time  `json:"issued_at,omitempty"`
	ExpirationDate *time.Time  `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.User.ID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.User.ID)
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetExpiration() *time.Time {
	return s.ExpirationDate
}

func (s *SessionObject) GetData() map[string]any {
	return s.User.Data
}

// SetData records a value on the session user, for projection hooks.
func (s *SessionObject) SetData(key string, val any) *SessionObject {
	if s.User.Data == nil {
		s.User.Data = map[string]any{}
	}
	s.User.Data[key] = val
	return s
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s aud=%v iss=%s iat=%s data=%v",
		s.User.ID,
		s.Audience,
		s.Issuer,
		issuedAt,
		s.User.Data,
	)
}

// sessionFromClaims builds the default session projection: claim subject
// becomes the session user ID, extensions become the user data map.
func sessionFromClaims(claims Claims) *SessionObject {
	var data map[string]any
	if exts := claims.ExtensionMap(); len(exts) > 0 {
		data = make(map[string]any, len(exts))
		for k, v := range exts {
			data[k] = v
		}
	}

	var audience []string
	if jwtClaims, ok := claims.(*JWTClaims); ok {
		audience = append(audience, jwtClaims.RegisteredClaims.Audience...)
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	session := &SessionObject{
		User: SessionUser{
			ID:   claims.UserID(),
			Data: data,
		},
		Audience: audience,
		Issuer:   issuerFromClaims(claims),
	}

	if !issuedAt.IsZero() {
		session.IssuedAt = &issuedAt
	}
	if !expiresAt.IsZero() {
		session.ExpirationDate = &expiresAt
	}

	return session
}

func issuerFromClaims(claims Claims) string {
	if jwtClaims, ok := claims.(*JWTClaims); ok {
		return jwtClaims.RegisteredClaims.Issuer
	}
	return ""
}

// SessionFromRawClaims rebuilds a session from already parsed claim data,
// e.g. when an upstream middleware hands over jwt.MapClaims.
func SessionFromRawClaims(claims jwt.MapClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToParseData
	}

	session := &SessionObject{}

	if sub, ok := claims["sub"].(string); ok {
		session.User.ID = sub
	}
	if uid, ok := claims["uid"].(string); ok && uid != "" {
		session.User.ID = uid
	}
	if session.User.ID == "" {
		return nil, ErrUnableToParseData
	}

	if iss, ok := claims["iss"].(string); ok {
		session.Issuer = iss
	}

	switch aud := claims["aud"].(type) {
	case string:
		session.Audience = []string{aud}
	case []any:
		for _, a := range aud {
			if s, ok := a.(string); ok {
				session.Audience = append(session.Audience, s)
			}
		}
	}

	if iat, ok := claims["iat"].(float64); ok {
		t := time.Unix(int64(iat), 0)
		session.IssuedAt = &t
	}
	if exp, ok := claims["exp"].(float64); ok {
		t := time.Unix(int64(exp), 0)
		session.ExpirationDate = &t
	}

	if ext, ok := claims["ext"].(map[string]any); ok && len(ext) > 0 {
		session.User.Data = ext
	}

	return session, nil
}
