package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shineselorm/learnlab-api/auth"
	"github.com/Shineselorm/learnlab-api/config"
)

func TestMain(m *testing.M) {
	config.Cfg.SecretKey = "test-secret-key"
	m.Run()
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, auth.CheckPassword(hash, "password123"))
	assert.False(t, auth.CheckPassword(hash, "wrongpassword"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, jti, err := auth.CreateToken(42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, jti, claims.JTI)
}

func TestTokenUniqueJTI(t *testing.T) {
	_, first, err := auth.CreateToken(1, time.Hour)
	require.NoError(t, err)
	_, second, err := auth.CreateToken(1, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, _, err := auth.CreateToken(7, -time.Minute)
	require.NoError(t, err)

	_, err = auth.VerifyToken(token)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	token, _, err := auth.CreateToken(7, time.Hour)
	require.NoError(t, err)

	_, err = auth.VerifyToken(token + "x")
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	token, _, err := auth.CreateToken(7, time.Hour)
	require.NoError(t, err)

	config.Cfg.SecretKey = "another-secret"
	defer func() { config.Cfg.SecretKey = "test-secret-key" }()

	_, err = auth.VerifyToken(token)
	assert.Error(t, err)
}
