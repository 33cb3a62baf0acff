package cryptox

import "unicode"

// Password policy applied at registration. Every violated rule is reported,
// not just the first one.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 255
)

// ValidatePasswordStrength checks a candidate password against the account
// policy and returns a human-readable message for each violated rule. An
// empty slice means the password is acceptable.
func ValidatePasswordStrength(password string) []string {
	var violations []string

	if len(password) < MinPasswordLength {
		violations = append(violations, "Password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		violations = append(violations, "Password must be less than 255 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		violations = append(violations, "Password must contain an uppercase letter (A-Z)")
	}
	if !hasLower {
		violations = append(violations, "Password must contain a lowercase letter (a-z)")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain a digit (0-9)")
	}
	if !hasSpecial {
		violations = append(violations, "Password must contain a special character (!@#$%^&*)")
	}

	return violations
}
