package service

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP parameters shared between enrollment and verification. Standard
// RFC 6238: 30 second steps, HMAC-SHA1, six digits over a base32 secret.
const (
	totpPeriod     = 30
	totpSecretSize = 20 // 160-bit secret

	// DefaultLoginSkew is the tolerance applied when completing sign-in:
	// codes from one adjacent step on either side are accepted.
	DefaultLoginSkew uint = 1

	// DefaultSetupSkew is the wider tolerance applied when verifying the
	// very first code after enrollment, to absorb phone/server clock skew
	// during onboarding.
	DefaultSetupSkew uint = 2
)

func totpOpts(skew uint) totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// GenerateTOTPCode derives the six-digit code for the time step containing at.
func GenerateTOTPCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totpOpts(0))
}

// VerifyTOTPCode reports whether code matches any step in {current-skew ...
// current+skew} relative to at. Anything that is not exactly six ASCII digits
// is rejected before the secret is consulted.
//
// A matching code is accepted every time it is presented within the window;
// there is intentionally no replay marker (see design notes).
func VerifyTOTPCode(secret, code string, skew uint, at time.Time) bool {
	if !isSixDigits(code) {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, at, totpOpts(skew))
	return err == nil && ok
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
