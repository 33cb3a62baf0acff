package captcha

import "context"

// Stub accepts any non-empty token. Used in dev environments and tests where
// no captcha provider is configured.
type Stub struct{}

func (Stub) Verify(_ context.Context, token, _ string) (bool, error) {
	return token != "", nil
}
