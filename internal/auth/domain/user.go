package domain

import "time"

// Role is the coarse authorization level carried into session claims.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

type User struct {
	ID           string
	Name         string
	Email        string  // stored lowercased, unique
	PasswordHash string  // argon2id encoded, never the clear text
	Role         Role
	SecretKey    *string // TOTP secret (nullable, base32 encoded)
	MFAEnabled   bool    // invariant: true implies SecretKey != nil
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasSecret reports whether a TOTP secret exists, enabled or mid-setup.
func (u User) HasSecret() bool {
	return u.SecretKey != nil && *u.SecretKey != ""
}

// MFAActive reports whether sign-in must go through the OTP challenge.
func (u User) MFAActive() bool {
	return u.MFAEnabled && u.HasSecret()
}
