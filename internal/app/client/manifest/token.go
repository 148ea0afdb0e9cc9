package manifest

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired decodes the JWT exp claim without verifying the signature.
// Tokens that are not JWTs are never considered expired here; the backend decides.
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
