package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordIsSaltedPerCall(t *testing.T) {
	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
	require.True(t, VerifyPassword(h1, "secret123"))
	require.True(t, VerifyPassword(h2, "secret123"))
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	h, err := HashPassword("secret123")
	require.NoError(t, err)
	require.False(t, VerifyPassword(h, "wrongpass"))
	require.False(t, VerifyPassword(h, ""))
}

func TestVerifyPasswordNeverPanicsOnGarbage(t *testing.T) {
	for _, hash := range []string{
		"",
		"plainly not a hash",
		"$argon2id$",
		"$argon2id$v=19$m=65536,t=1,p=4$!!notbase64!!$AAAA",
		"$argon2id$v=19$m=65536,t=1,p=4$c29tZXNhbHQ$!!notbase64!!",
		"$argon2i$v=19$m=65536,t=1,p=4$c29tZXNhbHQ$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=18$m=65536,t=1,p=4$c29tZXNhbHQ$AAAA",
	} {
		require.False(t, VerifyPassword(hash, "secret123"), "hash %q should not verify", hash)
	}
}
