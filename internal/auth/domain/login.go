package domain

// SessionUser is the identity snapshot echoed alongside a fresh token.
type SessionUser struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// LoginResult is the outcome of a successful credential check. Exactly one
// branch is populated: either a session token was issued, or the account has
// MFA enabled and the caller must complete the OTP challenge in a second
// round trip carrying UserID.
type LoginResult struct {
	Token string
	User  SessionUser

	// RequiresMFA marks the challenge branch. It is a legitimate outcome,
	// not a failure.
	RequiresMFA bool
	UserID      string
}
