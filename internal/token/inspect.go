package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields of interest from the backend's access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect decodes the claims of a bearer token without verifying its
// signature. The client holds no verification key; the backend is the
// authority on validity, and these claims are used only for logging
// and for showing the session expiry to the user.
func Inspect(tokenString string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims := Claims{}

	if sub, err := parsed.Claims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

// Expired reports whether the token carries an expiry in the past. A
// token without an exp claim is never considered expired here.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
