// Package jwttest mints storefront-shaped bearer tokens for tests.
package jwttest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	storejwt "storefront-agent/internal/pkg/jwt"
)

var testSecret = []byte("storefront-test-secret-storefront-test-secret")

// Token signs an HS256 token for subject/role expiring after ttl. A negative
// ttl yields an already expired token.
func Token(t testing.TB, subject, role string, ttl time.Duration) string {
	t.Helper()
	return TokenWithImage(t, subject, role, "", ttl)
}

func TokenWithImage(t testing.TB, subject, role, imageURL string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := &storejwt.Claims{
		Role:     role,
		ImageURL: imageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}
