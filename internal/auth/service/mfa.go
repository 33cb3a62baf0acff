package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/hayroo/auth/internal/auth/domain"
	"github.com/hayroo/auth/internal/auth/store"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const qrImageSize = 256 // px, square

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidTOTPCode = errors.New("invalid TOTP code")
	ErrMFANotEnrolled  = errors.New("MFA not enrolled for this user")
	ErrMFANotEnabled   = errors.New("MFA not enabled for this user")
)

// MFAService owns the TOTP secret lifecycle: generation (always a rotation),
// enable after verification, disable, and status reads. It holds no state of
// its own; the user record is the only thing mutated.
type MFAService struct {
	Store  store.Store
	Issuer string // Issuer label for authenticator apps (e.g. "Hayroo")

	// SetupSkew is the verification tolerance used by Enable. Wider than the
	// login tolerance to absorb clock skew during onboarding.
	SetupSkew uint

	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *MFAService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GenerateSecret creates a fresh TOTP secret for the user, labeled with their
// email, and persists it. Any existing secret is overwritten and MFA drops
// back to disabled until the new secret is verified through Enable. Every
// call rotates; this is deliberately not idempotent.
func (s *MFAService) GenerateSecret(ctx context.Context, userID string) (domain.MFASecret, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.MFASecret{}, ErrUserNotFound
		}
		return domain.MFASecret{}, fmt.Errorf("load user: %w", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      totpPeriod,
		SecretSize:  totpSecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFASecret{}, fmt.Errorf("generate TOTP key: %w", err)
	}

	if err := s.Store.Users().RotateMFASecret(ctx, userID, key.Secret()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.MFASecret{}, ErrUserNotFound
		}
		return domain.MFASecret{}, fmt.Errorf("store MFA secret: %w", err)
	}

	qr, err := renderQRDataURL(key)
	if err != nil {
		return domain.MFASecret{}, fmt.Errorf("render QR image: %w", err)
	}

	return domain.MFASecret{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		QRImage:         qr,
	}, nil
}

// Enable verifies a code against the pending secret and, on success, turns
// the sign-in challenge on. On failure the user record is left untouched and
// the caller learns only that the code was invalid.
func (s *MFAService) Enable(ctx context.Context, userID string, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	if !user.HasSecret() {
		return ErrMFANotEnrolled
	}

	if !VerifyTOTPCode(*user.SecretKey, code, s.setupSkew(), s.now()) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().EnableMFA(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("enable MFA: %w", err)
	}
	return nil
}

// Disable clears the secret and the enabled flag. Calling it twice is
// harmless and both calls report success.
func (s *MFAService) Disable(ctx context.Context, userID string) error {
	if err := s.Store.Users().DisableMFA(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("disable MFA: %w", err)
	}
	return nil
}

// Status is a pure read of the user's MFA state.
func (s *MFAService) Status(ctx context.Context, userID string) (domain.MFAStatus, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.MFAStatus{}, ErrUserNotFound
		}
		return domain.MFAStatus{}, fmt.Errorf("load user: %w", err)
	}

	return domain.MFAStatus{
		Enabled:   user.MFAActive(),
		HasSecret: user.HasSecret(),
	}, nil
}

func (s *MFAService) setupSkew() uint {
	if s.SetupSkew == 0 {
		return DefaultSetupSkew
	}
	return s.SetupSkew
}

// renderQRDataURL encodes the key's provisioning URI as a PNG data URL the
// frontend can drop straight into an <img> tag.
func renderQRDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
