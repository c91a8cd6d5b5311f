package user

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatchEmpty(t *testing.T) {
	require.True(t, Patch{}.Empty())

	verified := false
	require.False(t, Patch{IsVerified: &verified}.Empty())

	hash := ""
	require.False(t, Patch{PasswordHash: &hash}.Empty())
}
