package store

import (
	"context"

	"errors"

	"github.com/hayroo/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. The user record is the only shared mutable resource in the
// system; every write below is an atomic per-record statement and concurrent
// writers race with last-write-wins semantics. That trade-off is deliberate,
// so no transaction surface is exposed here.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by email, case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// RotateMFASecret overwrites any existing TOTP secret and forces
	// mfa_enabled back to false until the new secret is re-verified.
	RotateMFASecret(ctx context.Context, userID string, secret string) error

	// EnableMFA marks MFA as enabled. Fails with ErrNotFound if the user
	// does not exist.
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA clears the secret and the enabled flag. Safe to call on a
	// user that never enrolled.
	DisableMFA(ctx context.Context, userID string) error
}
