package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenLifetime bounds how long an issued session stays valid, and
// with it the staleness window of the role snapshot it carries.
const DefaultTokenLifetime = 12 * time.Hour

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type (
	// Claims is the payload embedded in a session token: the account id as
	// subject plus a snapshot of the role at issuance time.
	Claims struct {
		jwt.RegisteredClaims
		Role string `json:"role"`
	}
)

// AccountID returns the subject claim as an account id, zero when the
// subject is not numeric.
func (c Claims) AccountID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

// IssueToken signs a fresh session token for the given account with
// expiry = now + lifetime.
func IssueToken(accountID int64, role string, secret []byte, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
		Role: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("unable to sign token, cause %w", err)
	}
	return token, nil
}

// ValidateToken verifies signature and expiry. The signature algorithm is
// pinned to HS256, a token claiming any other algorithm is rejected no
// matter what it says about itself. A token without an expiry claim is
// invalid, every session must be time-bounded.
func ValidateToken(token string, secret []byte) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, fmt.Errorf("%w, cause %v", ErrTokenInvalid, err)
	case !parsed.Valid:
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
