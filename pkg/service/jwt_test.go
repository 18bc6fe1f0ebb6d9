package service

import (
	"testing"
	"time"

	apperrors "maintenance-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour)

	access, refresh, err := svc.GenerateTokens(42)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.False(t, claims.IsRefreshToken)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, claims.IsRefreshToken)
}

func TestJWT_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour).(*jwtService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	access, _, err := svc.GenerateTokens(1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWT_WrongSecret(t *testing.T) {
	access, _, err := NewJWTService("one", time.Minute, time.Hour).GenerateTokens(1)
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Minute, time.Hour).ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
