package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyBytes is the smallest symmetric key accepted for HS256 signing.
// RFC 7518 requires keys at least as large as the hash output.
const MinKeyBytes = 32

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrKeyTooWeak = errors.New("jwtx: signing key too short")
)

// Signer mints signed session tokens.
type Signer interface {
	Issue(subject, role string, now time.Time) (string, error)
}

// Verifier validates a session token and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies session tokens with a single server-held
// symmetric key. It implements both Signer and Verifier.
type HS256 struct {
	key    []byte
	issuer string
}

// NewHS256 creates a symmetric signer/verifier pair over one key.
func NewHS256(key []byte, issuer string) (*HS256, error) {
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("%w: got %d bytes, want at least %d", ErrKeyTooWeak, len(key), MinKeyBytes)
	}
	return &HS256{key: key, issuer: issuer}, nil
}

// Issue signs a compact token carrying {sub, role}.
func (h *HS256) Issue(subject, role string, now time.Time) (string, error) {
	claims := NewSessionClaims(subject, role, h.issuer, now)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.key)
}

// Verify checks signature integrity and the issuer claim. There is no expiry
// claim to enforce.
func (h *HS256) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return h.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return Claims{}, ErrIssuer
		default:
			return Claims{}, fmt.Errorf("jwtx: verify: %w", err)
		}
	}
	return claims, nil
}
