package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecretFromEnvScrubsTheVariable(t *testing.T) {
	env := map[string]string{"JWT_SECRET": "super-secret"}
	getfn := func(k string) string { return env[k] }
	setfn := func(k, v string) error { env[k] = v; return nil }

	secret, fallback := SecretFromEnv("JWT_SECRET", getfn, setfn)
	require.Equal(t, []byte("super-secret"), secret)
	require.False(t, fallback)
	require.Empty(t, env["JWT_SECRET"], "reading the secret should remove it from the environment")
}

func TestSecretFromEnvFallsBackForDevelopment(t *testing.T) {
	env := map[string]string{}
	secret, fallback := SecretFromEnv("JWT_SECRET",
		func(k string) string { return env[k] },
		func(k, v string) error { env[k] = v; return nil })
	require.NotEmpty(t, secret)
	require.True(t, fallback)
}
