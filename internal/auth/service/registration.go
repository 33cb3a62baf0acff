package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hayroo/auth/internal/auth/domain"
	"github.com/hayroo/auth/internal/auth/store"
	"github.com/hayroo/auth/pkg/cryptox"
	"github.com/hayroo/auth/pkg/idx"
)

const (
	minNameLength = 3
	maxNameLength = 25
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// FieldErrors maps input field names to a human-readable problem. It is the
// validation branch of signup: every offending field is reported at once.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SignUpParams are the raw signup inputs before validation.
type SignUpParams struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegistrationService creates accounts. New signups always get the customer
// role; admins are promoted out of band.
type RegistrationService struct {
	Store store.Store
}

// SignUp validates the inputs, hashes the password and inserts the user.
// Validation failures come back as FieldErrors so the form can annotate each
// field; anything else is an internal error.
func (s *RegistrationService) SignUp(ctx context.Context, p SignUpParams) (domain.User, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)

	if fieldErrs := validateSignUp(p); len(fieldErrs) > 0 {
		return domain.User{}, fieldErrs
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         titleCase(p.Name),
		Email:        strings.ToLower(p.Email),
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, FieldErrors{"email": "Email already exists"}
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func validateSignUp(p SignUpParams) FieldErrors {
	errs := FieldErrors{}

	switch {
	case p.Name == "":
		errs["name"] = "Name must not be empty"
	case len(p.Name) < minNameLength || len(p.Name) > maxNameLength:
		errs["name"] = "Name must be 3-25 characters"
	}

	switch {
	case p.Email == "":
		errs["email"] = "Email must not be empty"
	case !emailPattern.MatchString(p.Email):
		errs["email"] = "Email is not valid"
	}

	if p.Password == "" {
		errs["password"] = "Password must not be empty"
	} else if violations := cryptox.ValidatePasswordStrength(p.Password); len(violations) > 0 {
		errs["password"] = strings.Join(violations, ". ")
	}

	if p.ConfirmPassword == "" {
		errs["cPassword"] = "Confirm password must not be empty"
	} else if p.Password != p.ConfirmPassword {
		errs["cPassword"] = "Passwords do not match"
	}

	return errs
}

// titleCase uppercases the first letter of each word, matching how account
// names were normalized in the storefront.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
