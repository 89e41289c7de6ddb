package authkit_test

import (
	"testing"
	"time"

	"github.com/aldasoro/authkit"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionObject_Getters(t *testing.T) {
	issuedAt := time.Now().Add(-time.Minute)
	expiresAt := time.Now().Add(time.Hour)

	session := &authkit.SessionObject{
		User: authkit.SessionUser{
			ID:   "u1",
			Data: map[string]any{"plan": "pro"},
		},
		Audience:       []string{"web", "api"},
		Issuer:         "authkit",
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}

	assert.Equal(t, "u1", session.GetUserID())
	assert.Equal(t, []string{"web", "api"}, session.GetAudience())
	assert.Equal(t, "authkit", session.GetIssuer())
	assert.Equal(t, &issuedAt, session.GetIssuedAt())
	assert.Equal(t, &expiresAt, session.GetExpiration())
	assert.Equal(t, "pro", session.GetData()["plan"])
}

func TestSessionObject_GetUserUUID(t *testing.T) {
	id := uuid.New()

	session := &authkit.SessionObject{
		User: authkit.SessionUser{ID: id.String()},
	}

	got, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	session.User.ID = "not-a-uuid"
	_, err = session.GetUserUUID()
	assert.Error(t, err)

	assert.True(t, authkit.HasUserUUID(&authkit.SessionObject{
		User: authkit.SessionUser{ID: id.String()},
	}))
	assert.False(t, authkit.HasUserUUID(session))
}

func TestSessionObject_SetData(t *testing.T) {
	session := &authkit.SessionObject{}
	session.SetData("one", 1).SetData("two", "2")

	assert.Equal(t, 1, session.GetData()["one"])
	assert.Equal(t, "2", session.GetData()["two"])
}

func TestSessionObject_String(t *testing.T) {
	session := &authkit.SessionObject{
		User:   authkit.SessionUser{ID: "u1"},
		Issuer: "authkit",
	}

	out := session.String()
	assert.Contains(t, out, "user=u1")
	assert.Contains(t, out, "iss=authkit")
	assert.Contains(t, out, "iat=<nil>")
}

func TestSessionFromRawClaims(t *testing.T) {
	t.Run("full claim set", func(t *testing.T) {
		now := time.Now().Truncate(time.Second)
		exp := now.Add(time.Hour)

		session, err := authkit.SessionFromRawClaims(jwt.MapClaims{
			"sub": "u1",
			"iss": "authkit",
			"aud": []any{"web"},
			"iat": float64(now.Unix()),
			"exp": float64(exp.Unix()),
			"ext": map[string]any{"plan": "pro"},
		})
		require.NoError(t, err)

		assert.Equal(t, "u1", session.GetUserID())
		assert.Equal(t, "authkit", session.GetIssuer())
		assert.Equal(t, []string{"web"}, session.GetAudience())
		assert.Equal(t, now.Unix(), session.GetIssuedAt().Unix())
		assert.Equal(t, exp.Unix(), session.GetExpiration().Unix())
		assert.Equal(t, "pro", session.GetData()["plan"])
	})

	t.Run("uid overrides sub", func(t *testing.T) {
		session, err := authkit.SessionFromRawClaims(jwt.MapClaims{
			"sub": "legacy-subject",
			"uid": "u1",
		})
		require.NoError(t, err)
		assert.Equal(t, "u1", session.GetUserID())
	})

	t.Run("string audience", func(t *testing.T) {
		session, err := authkit.SessionFromRawClaims(jwt.MapClaims{
			"sub": "u1",
			"aud": "web",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"web"}, session.GetAudience())
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := authkit.SessionFromRawClaims(jwt.MapClaims{"iss": "authkit"})
		assert.Equal(t, authkit.ErrUnableToParseData, err)
	})

	t.Run("nil claims", func(t *testing.T) {
		_, err := authkit.SessionFromRawClaims(nil)
		assert.Equal(t, authkit.ErrUnableToParseData, err)
	})
}
