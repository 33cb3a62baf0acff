package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hayroo/auth/internal/auth/domain"
	"github.com/hayroo/auth/internal/auth/store"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, name, email, password_hash, role, mfa_secret, mfa_enabled, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = LOWER(?)`, strings.TrimSpace(email))
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, mfa_secret, mfa_enabled, created_at, updated_at)
		 VALUES (?, ?, LOWER(?), ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		mapOptionalString(u.SecretKey),
		u.MFAEnabled,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapConflict(err)
}

// RotateMFASecret is a single unconditional UPDATE: concurrent rotations race
// with last-write-wins and only the most recent secret stays valid.
func (r *usersRepo) RotateMFASecret(ctx context.Context, userID string, secret string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET mfa_secret = ?, mfa_enabled = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		secret, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET mfa_enabled = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET mfa_secret = NULL, mfa_enabled = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u      domain.User
		role   string
		secret sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&secret,
		&u.MFAEnabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Role = domain.Role(role)
	u.SecretKey = mapNullStringPtr(secret)
	return u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
