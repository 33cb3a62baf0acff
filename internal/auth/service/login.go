package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hayroo/auth/internal/auth/domain"
	"github.com/hayroo/auth/internal/auth/store"
	"github.com/hayroo/auth/pkg/cryptox"
	"github.com/hayroo/auth/pkg/jwtx"
	"github.com/hayroo/auth/pkg/slogx"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// response never reveals which field was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// LoginService drives the two-phase sign-in flow:
//
//	credentials -> token                      (no MFA on the account)
//	credentials -> challenge -> otp -> token  (MFA enabled)
//
// The challenge is nothing but the user id handed back to the client; the
// second round trip presents it again together with the current OTP.
type LoginService struct {
	Store  store.Store
	Signer jwtx.Signer

	// LoginSkew is the OTP tolerance applied when completing sign-in.
	LoginSkew uint

	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *LoginService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SignIn checks the password and either issues a session token or, when the
// account has MFA enabled, returns the challenge branch instead.
func (s *LoginService) SignIn(ctx context.Context, email, password string) (domain.LoginResult, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LoginResult{}, ErrInvalidCredentials
		}
		return domain.LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("password check failed", slog.String("user_id", user.ID))
		return domain.LoginResult{}, ErrInvalidCredentials
	}

	if user.MFAActive() {
		// Password is good but the account requires the OTP round trip.
		return domain.LoginResult{RequiresMFA: true, UserID: user.ID}, nil
	}

	return s.issueSession(user)
}

// CompleteMFA finishes a challenged sign-in. The caller presents the user id
// from the challenge and the current authenticator code.
func (s *LoginService) CompleteMFA(ctx context.Context, userID, code string) (domain.LoginResult, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LoginResult{}, ErrMFANotEnabled
		}
		return domain.LoginResult{}, fmt.Errorf("load user: %w", err)
	}
	if !user.MFAActive() {
		return domain.LoginResult{}, ErrMFANotEnabled
	}

	if !VerifyTOTPCode(*user.SecretKey, code, s.loginSkew(), s.now()) {
		return domain.LoginResult{}, ErrInvalidTOTPCode
	}

	return s.issueSession(user)
}

func (s *LoginService) issueSession(user domain.User) (domain.LoginResult, error) {
	token, err := s.Signer.Issue(user.ID, string(user.Role), s.now())
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("sign session token: %w", err)
	}

	return domain.LoginResult{
		Token: token,
		User:  domain.SessionUser{ID: user.ID, Role: user.Role},
	}, nil
}

func (s *LoginService) loginSkew() uint {
	if s.LoginSkew == 0 {
		return DefaultLoginSkew
	}
	return s.LoginSkew
}
