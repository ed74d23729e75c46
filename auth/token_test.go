package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueToken(42, "user", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, secret)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.AccountID())
	require.Equal(t, "user", claims.Role)
	require.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken(42, "user", []byte("right-secret"), time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(token, []byte("wrong-secret"))
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueToken(42, "user", secret, -time.Second)
	require.NoError(t, err)
	_, err = ValidateToken(token, secret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenAcceptsJustBeforeExpiry(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueToken(42, "user", secret, time.Second)
	require.NoError(t, err)
	_, err = ValidateToken(token, secret)
	require.NoError(t, err)
}

func TestValidateTokenRejectsMalformed(t *testing.T) {
	_, err := ValidateToken("not.a.token", []byte("test-secret"))
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = ValidateToken("", []byte("test-secret"))
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRequiresExpiry(t *testing.T) {
	secret := []byte("test-secret")
	// correctly signed but carries no exp claim: accepting it would hand out
	// an unbounded session
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.Itoa(7),
		},
		Role: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = ValidateToken(token, secret)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenPinsTheAlgorithm(t *testing.T) {
	secret := []byte("test-secret")
	// same secret, different HMAC flavour: the verifier must not honor the
	// algorithm a token claims for itself
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(42),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = ValidateToken(token, secret)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
