package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hayroo/auth/internal/auth/service"
	"github.com/hayroo/auth/pkg/httpx"
	"github.com/hayroo/auth/pkg/slogx"
)

// AuthHandler serves account registration and the first phase of login.
type AuthHandler struct {
	Registration *service.RegistrationService
	Login        *service.LoginService
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"cPassword"`
}

type signupResponse struct {
	Success string `json:"success"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse carries an issued token back to the client.
type sessionResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// challengeResponse is returned when the account requires a second factor.
// No token is issued until the code is verified.
type challengeResponse struct {
	RequiresMFA bool   `json:"requiresMFA"`
	UserID      string `json:"userId"`
	Message     string `json:"message"`
}

func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.Registration.SignUp(r.Context(), service.SignUpParams{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		var fields service.FieldErrors
		if errors.As(err, &fields) {
			httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{"error": fields})
			return
		}
		slogx.FromContext(r.Context()).Error("signup failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, signupResponse{Success: "Account created successfully. Please login"})
}

func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Login.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		slogx.FromContext(r.Context()).Error("signin failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if result.RequiresMFA {
		httpx.WriteJSON(w, http.StatusOK, challengeResponse{
			RequiresMFA: true,
			UserID:      result.UserID,
			Message:     "MFA verification required",
		})
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Token: result.Token, User: result.User})
}
