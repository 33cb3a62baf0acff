package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hayroo/auth/internal/auth/domain"
	"github.com/hayroo/auth/internal/auth/store"
	"github.com/hayroo/auth/internal/auth/store/drivers/sqlite"
	"github.com/hayroo/auth/pkg/cryptox"
	"github.com/hayroo/auth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Password hashing needs a pepper; keep it out of the repo tree.
	pepperPath := filepath.Join(os.TempDir(), "hayroo-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func createTestUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword("Str0ng!pass")
	require.NoError(t, err)

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Alice Example",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestGenerateSecretRotates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := createTestUser(t, st, "alice@example.com")

	svc := &MFAService{Store: st, Issuer: "Hayroo"}

	first, err := svc.GenerateSecret(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.Secret)
	require.True(t, strings.HasPrefix(first.ProvisioningURI, "otpauth://totp/"))
	require.Contains(t, first.ProvisioningURI, "alice%40example.com")
	require.True(t, strings.HasPrefix(first.QRImage, "data:image/png;base64,"))

	second, err := svc.GenerateSecret(ctx, user.ID)
	require.NoError(t, err)

	// Never idempotent: every call mints a fresh secret.
	require.NotEqual(t, first.Secret, second.Secret)

	// Only the most recent secret is valid for Enable.
	now := time.Now()
	staleCode, err := GenerateTOTPCode(first.Secret, now)
	require.NoError(t, err)
	require.ErrorIs(t, svc.Enable(ctx, user.ID, staleCode), ErrInvalidTOTPCode)

	freshCode, err := GenerateTOTPCode(second.Secret, now)
	require.NoError(t, err)
	require.NoError(t, svc.Enable(ctx, user.ID, freshCode))
}

func TestGenerateSecretAfterEnableForcesReverification(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := createTestUser(t, st, "alice@example.com")

	svc := &MFAService{Store: st, Issuer: "Hayroo"}

	secret, err := svc.GenerateSecret(ctx, user.ID)
	require.NoError(t, err)
	code, err := GenerateTOTPCode(secret.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Enable(ctx, user.ID, code))

	// Rotation drops the account back to setup-in-progress.
	_, err = svc.GenerateSecret(ctx, user.ID)
	require.NoError(t, err)

	status, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, status.Enabled)
	require.True(t, status.HasSecret)
}

func TestEnable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := createTestUser(t, st, "alice@example.com")

	base := time.Date(2024, 6, 1, 10, 0, 15, 0, time.UTC)
	clock := base
	svc := &MFAService{
		Store:  st,
		Issuer: "Hayroo",
		Now:    func() time.Time { return clock },
	}

	t.Run("without a secret", func(t *testing.T) {
		require.ErrorIs(t, svc.Enable(ctx, user.ID, "123456"), ErrMFANotEnrolled)
	})

	secret, err := svc.GenerateSecret(ctx, user.ID)
	require.NoError(t, err)
	code, err := GenerateTOTPCode(secret.Secret, base)
	require.NoError(t, err)

	t.Run("rejects malformed codes without touching state", func(t *testing.T) {
		require.ErrorIs(t, svc.Enable(ctx, user.ID, "12345"), ErrInvalidTOTPCode)
		require.ErrorIs(t, svc.Enable(ctx, user.ID, "abcdef"), ErrInvalidTOTPCode)

		status, err := svc.Status(ctx, user.ID)
		require.NoError(t, err)
		require.False(t, status.Enabled)
	})

	t.Run("rejects codes outside the setup window", func(t *testing.T) {
		clock = base.Add(time.Duration(DefaultSetupSkew)*totpPeriod*time.Second + 31*time.Second)
		require.ErrorIs(t, svc.Enable(ctx, user.ID, code), ErrInvalidTOTPCode)
	})

	t.Run("accepts the current code and flips the flag", func(t *testing.T) {
		clock = base
		require.NoError(t, svc.Enable(ctx, user.ID, code))

		status, err := svc.Status(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, status.Enabled)
		require.True(t, status.HasSecret)
	})

	t.Run("unknown user", func(t *testing.T) {
		require.ErrorIs(t, svc.Enable(ctx, idx.New().String(), code), ErrUserNotFound)
	})
}

func TestDisableIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := createTestUser(t, st, "alice@example.com")

	svc := &MFAService{Store: st, Issuer: "Hayroo"}

	secret, err := svc.GenerateSecret(ctx, user.ID)
	require.NoError(t, err)
	code, err := GenerateTOTPCode(secret.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Enable(ctx, user.ID, code))

	require.NoError(t, svc.Disable(ctx, user.ID))
	require.NoError(t, svc.Disable(ctx, user.ID)) // second call still succeeds

	status, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, status.Enabled)
	require.False(t, status.HasSecret)
}

func TestStatusUnknownUser(t *testing.T) {
	st := newTestStore(t)
	svc := &MFAService{Store: st, Issuer: "Hayroo"}

	_, err := svc.Status(context.Background(), idx.New().String())
	require.ErrorIs(t, err, ErrUserNotFound)
}
