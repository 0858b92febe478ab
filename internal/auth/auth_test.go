package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAndParseToken(t *testing.T) {
	theAuth := New("test_auth", []byte("test-signing-key"), 5*time.Minute)

	token, err := theAuth.BuildToken("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := theAuth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	theAuth := New("test_auth", []byte("test-signing-key"), -time.Minute)

	token, err := theAuth.BuildToken("user-42")
	require.NoError(t, err)

	_, err = theAuth.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	issuer := New("test_auth", []byte("one-signing-key"), 5*time.Minute)
	verifier := New("test_auth", []byte("another-signing-key"), 5*time.Minute)

	token, err := issuer.BuildToken("user-42")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	theAuth := New("test_auth", []byte("test-signing-key"), 5*time.Minute)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := theAuth.ParseToken(tokenString)
		assert.Error(t, err, "token %q must be rejected", tokenString)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPassword(hash, "s3cret-password"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
	assert.False(t, CheckPassword("", "s3cret-password"))
}
