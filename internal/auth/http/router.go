package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hayroo/auth/internal/auth/captcha"
	"github.com/hayroo/auth/internal/auth/service"
	"github.com/hayroo/auth/internal/auth/store"
	"github.com/hayroo/auth/pkg/httpx"
	"github.com/hayroo/auth/pkg/jwtx"
	"github.com/hayroo/auth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	RegistrationService *service.RegistrationService
	LoginService        *service.LoginService
	MFAService          *service.MFAService
	Captcha             captcha.Verifier
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMFA()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Registration: r.RegistrationService,
		Login:        r.LoginService,
	}

	r.Mux.Handle("POST /v1/auth/signup", http.HandlerFunc(h.HandleSignup))

	// Captcha runs before any password work; a bad token never reaches the
	// credential check.
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(http.HandlerFunc(h.HandleSignin),
			CaptchaMiddleware(r.Captcha),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{
		MFAService:   r.MFAService,
		LoginService: r.LoginService,
	}

	authed := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next, httpx.AuthnMiddleware(r.verifier))
	}

	r.Mux.Handle("POST /v1/mfa/generate-secret", authed(h.HandleGenerateSecret))
	r.Mux.Handle("POST /v1/mfa/enable", authed(h.HandleEnable))
	r.Mux.Handle("POST /v1/mfa/disable", authed(h.HandleDisable))
	r.Mux.Handle("GET /v1/mfa/status", authed(h.HandleStatus))

	// Completes a challenged sign-in; the caller has no session yet.
	r.Mux.Handle("POST /v1/mfa/verify-token", http.HandlerFunc(h.HandleVerifyToken))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
