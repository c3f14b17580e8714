// Package token decodes provider-issued access tokens. The auth provider
// signs them with its own key, so this package never verifies signatures —
// it only reads claims the dashboard needs locally: who the token belongs to
// and when it stops being worth proxying.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when the access token cannot be decoded at all.
var ErrMalformed = errors.New("malformed access token")

// Claims is the subset of provider token claims the dashboard reads.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

type providerClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Parse decodes raw without signature verification and returns its claims.
// Expiry is NOT enforced here; callers decide what an expired token means for
// them (see [Claims.Expired]).
func Parse(raw string) (*Claims, error) {
	var claims providerClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := &Claims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Expired reports whether the token expiry has passed at now. Tokens without
// an exp claim never report expired.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}
