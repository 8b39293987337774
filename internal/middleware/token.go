package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs an HS256 token that AuthMiddleware accepts for the given subject and role.
func IssueToken(subject string, role Role, secret string, expiry time.Duration, issuer string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	if secret == "" {
		return "", errors.New("token secret is required")
	}
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
