package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "s3cret-pass", hash)

	again, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, hash, again, "bcrypt salts every digest")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	require.True(t, VerifyPassword("correct horse", hash))
	require.False(t, VerifyPassword("wrong horse", hash))
	require.False(t, VerifyPassword("", hash))
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	require.False(t, VerifyPassword("anything", "not-a-bcrypt-digest"))
	require.False(t, VerifyPassword("anything", ""))
}
