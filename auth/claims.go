package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrTokenExpired = errors.New("bearer token has expired")

// Claims is what this service reads from a bearer token. Signatures are checked
// by the remote API, not here.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect decodes the token without verifying its signature.
func Inspect(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("malformed bearer token: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("malformed bearer token: unexpected claims type")
	}

	var claims Claims
	if sub, ok := mc["sub"].(string); ok {
		claims.Subject = sub
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}

// Expired reports whether the token carries an expiry that lies before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
