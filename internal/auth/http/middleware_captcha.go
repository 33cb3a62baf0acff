package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/hayroo/auth/internal/auth/captcha"
	"github.com/hayroo/auth/pkg/httpx"
	"github.com/hayroo/auth/pkg/slogx"
)

const maxCaptchaBody = 1 << 20

type captchaEnvelope struct {
	CaptchaToken string `json:"captchaToken"`
}

// CaptchaMiddleware rejects requests whose captcha token does not verify.
// The request body is buffered and restored so the wrapped handler can
// decode it again.
func CaptchaMiddleware(verifier captcha.Verifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxCaptchaBody))
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var env captchaEnvelope
			if err := json.Unmarshal(body, &env); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			ok, err := verifier.Verify(r.Context(), env.CaptchaToken, remoteIP(r))
			if err != nil {
				slogx.FromContext(r.Context()).Error("captcha verification error", slog.Any("error", err))
				httpx.WriteError(w, http.StatusServiceUnavailable, "Captcha service unavailable")
				return
			}
			if !ok {
				httpx.WriteError(w, http.StatusBadRequest, "Captcha verification failed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
