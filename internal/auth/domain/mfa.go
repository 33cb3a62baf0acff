package domain

// MFASecret is returned from secret generation. The raw secret doubles as the
// manual entry key for authenticator apps that cannot scan the QR image.
type MFASecret struct {
	Secret          string // base32 encoded secret
	ProvisioningURI string // otpauth:// URL the QR image encodes
	QRImage         string // PNG data URL, scannable
}

// MFAStatus is the read-only view of a user's MFA state.
type MFAStatus struct {
	Enabled   bool // OTP challenge required at sign-in
	HasSecret bool // a secret exists, enabled or mid-setup
}
