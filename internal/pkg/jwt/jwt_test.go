package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("test-secret", "15m", "24h", nil, false)
	require.NoError(t, err)
	return svc
}

func TestAccessToken_Claims(t *testing.T) {
	svc := newTestService(t)

	token, exp, err := svc.GenerateAccessToken(AccessClaims{
		UserID:       "u-1",
		Email:        "ana@dayflow.test",
		EmployeeCode: "EMP001",
		Role:         user.RoleHR,
	})
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(15*time.Minute).Unix(), exp, 2)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	assert.NotEmpty(t, decoded.JwtID())

	claims := decoded.PrivateClaims()
	assert.Equal(t, "u-1", claims["user_id"])
	assert.Equal(t, "hr", claims["role"])
	assert.Equal(t, "EMP001", claims["employee_code"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestParseRefreshToken(t *testing.T) {
	svc := newTestService(t)

	refresh, _, err := svc.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	claims, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	access, _, err := svc.GenerateAccessToken(AccessClaims{UserID: "u-1", Role: user.RoleEmployee})
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseRefreshToken_RejectsForeignSignature(t *testing.T) {
	other, err := NewJWTService("other-secret", "15m", "24h", nil, false)
	require.NoError(t, err)
	refresh, _, err := other.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	_, err = newTestService(t).ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestParseRefreshToken_RejectsExpired(t *testing.T) {
	svc, err := NewJWTService("test-secret", "15m", "-1h", nil, false)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	revoked, err := svc.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = svc.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Tokens without an id cannot be tracked.
	require.NoError(t, svc.RevokeToken(ctx, "", time.Now().Add(time.Hour)))
	revoked, err = svc.IsTokenRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := newTestService(t)
	cookie := svc.RefreshTokenCookie("abc", 1700000000)
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
}
