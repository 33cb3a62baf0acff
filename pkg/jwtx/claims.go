package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session-token claims shared across the service. The token
// asserts identity and role only; downstream authorization checks consume the
// role claim.
//
// Note there is deliberately no expiry claim: sessions are stateless and
// live until the signing key changes. See the design notes before adding one.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the authenticated user ("customer", "admin").
	Role string `json:"role,omitempty"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(subject, role, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Role: role,
	}
}
