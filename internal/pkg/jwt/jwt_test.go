package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
)

func decodePrincipal(t *testing.T, svc Service, token string) user.Principal {
	t.Helper()

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims["type"])

	p, err := user.PrincipalFromClaims(claims)
	require.NoError(t, err)
	return p
}

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	principals := []user.Principal{
		user.SuperAdmin{ID: "root"},
		user.Admin{ID: "a-1", StoreIDs: []string{"s-1", "s-2"}},
		user.Admin{ID: "a-2", StoreIDs: []string{}},
		user.Staff{ID: "st-1", StoreID: "s-1"},
	}
	for _, p := range principals {
		token, expiresAt, err := svc.GenerateAccessToken(p)
		require.NoError(t, err)
		assert.Greater(t, expiresAt, time.Now().Unix())
		assert.Equal(t, p, decodePrincipal(t, svc, token))
	}
}

func TestGenerateAccessTokenRejectsNil(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	_, _, err := svc.GenerateAccessToken(nil)
	assert.ErrorIs(t, err, user.ErrUnauthenticated)
}

func TestExpiredTokenFailsVerification(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Hour)
	token, _, err := svc.GenerateAccessToken(user.Staff{ID: "st-1", StoreID: "s-1"})
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(svc.JWTAuth(), token)
	assert.Error(t, err)
}

func TestWrongSecretFailsVerification(t *testing.T) {
	token, _, err := NewJWTService("one", time.Hour).GenerateAccessToken(user.SuperAdmin{ID: "root"})
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(NewJWTService("two", time.Hour).JWTAuth(), token)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}
