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

// MFAHandler serves TOTP enrollment and the second phase of login.
type MFAHandler struct {
	MFAService   *service.MFAService
	LoginService *service.LoginService
}

type generateSecretResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"`
	URI    string `json:"uri"`
}

type enableRequest struct {
	OTP string `json:"otp"`
}

type verifyTokenRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

type statusResponse struct {
	MFAEnabled bool `json:"mfaEnabled"`
	HasSecret  bool `json:"hasSecret"`
}

func (h *MFAHandler) HandleGenerateSecret(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	secret, err := h.MFAService.GenerateSecret(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		slogx.FromContext(r.Context()).Error("generate secret failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// The secret and QR code are sensitive until enrollment completes.
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, generateSecretResponse{
		Secret: secret.Secret,
		QRCode: secret.QRImage,
		URI:    secret.ProvisioningURI,
	})
}

func (h *MFAHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req enableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.MFAService.Enable(r.Context(), userID, req.OTP); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrMFANotEnrolled):
			httpx.WriteError(w, http.StatusBadRequest, "No MFA secret generated")
		case errors.Is(err, service.ErrInvalidTOTPCode):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid OTP")
		default:
			slogx.FromContext(r.Context()).Error("enable mfa failed", slog.Any("error", err))
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"success": "MFA enabled successfully"})
}

func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.MFAService.Disable(r.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		slogx.FromContext(r.Context()).Error("disable mfa failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"success": "MFA disabled successfully"})
}

func (h *MFAHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status, err := h.MFAService.Status(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		slogx.FromContext(r.Context()).Error("mfa status failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusResponse{
		MFAEnabled: status.Enabled,
		HasSecret:  status.HasSecret,
	})
}

// HandleVerifyToken finishes a challenged sign-in. It is unauthenticated;
// possession of the user id and a valid code is the proof.
func (h *MFAHandler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Missing userId")
		return
	}

	result, err := h.LoginService.CompleteMFA(r.Context(), req.UserID, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMFANotEnabled):
			httpx.WriteError(w, http.StatusNotFound, "MFA not enabled for this user")
		case errors.Is(err, service.ErrInvalidTOTPCode):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid OTP")
		default:
			slogx.FromContext(r.Context()).Error("verify token failed", slog.Any("error", err))
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Token: result.Token, User: result.User})
}
