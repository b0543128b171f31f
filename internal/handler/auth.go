package handler

import (
	"net/http"

	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/service"
)

// AuthHandler serves the OTP sign-in flow.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type otpRequest struct {
	Phone string `json:"phone"`
}

type verifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type verifyResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RequestOTP handles POST /api/v1/auth/otp.
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.RequestOTP(r.Context(), req.Phone); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "code sent"})
}

// Verify handles POST /api/v1/auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, user, err := h.auth.Verify(r.Context(), req.Phone, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Token: token, User: user})
}
