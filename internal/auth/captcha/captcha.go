package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier checks a captcha token before the sign-in path touches any
// credentials. A false result short-circuits login entirely.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// DefaultEndpoint is Google's reCAPTCHA verification API.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// Recaptcha verifies tokens against the reCAPTCHA siteverify endpoint.
type Recaptcha struct {
	Secret   string
	Endpoint string       // defaults to DefaultEndpoint
	Client   *http.Client // defaults to a client with a short timeout
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to siteverify and returns the provider's verdict.
// Transport failures are errors; a rejected token is (false, nil).
func (r *Recaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", r.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("captcha: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client().Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha: siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha: siteverify returned %d", resp.StatusCode)
	}

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("captcha: decode siteverify response: %w", err)
	}

	return body.Success, nil
}

func (r *Recaptcha) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}
