package handler

import (
	"encoding/json"
	"net/http"

	"github.com/passwordless-api/internal/application/auth"
	"github.com/passwordless-api/internal/domain"
	"github.com/passwordless-api/internal/transport/http/middleware"
)

// AuthHandler exposes the passwordless protocol operations.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) SendNonce(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contact         string `json:"contact"`
		IsAddingContact bool   `json:"is_adding_contact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Contact == "" {
		writeError(w, http.StatusBadRequest, "contact required")
		return
	}
	if err := h.svc.SendNonce(r.Context(), req.Contact, req.IsAddingContact); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "nonce sent"})
}

func (h *AuthHandler) NonceToRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nonce   string                 `json:"nonce"`
		Profile *domain.NewUserProfile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nonce == "" {
		writeError(w, http.StatusBadRequest, "nonce required")
		return
	}
	rt, err := h.svc.NonceToRefreshToken(r.Context(), req.Nonce, req.Profile)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshTokenEnvelope{RefreshToken: rt.Token})
}

func (h *AuthHandler) NonceToAddContact(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Nonce string `json:"nonce"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nonce == "" {
		writeError(w, http.StatusBadRequest, "nonce required")
		return
	}
	if err := h.svc.NonceToAddContact(r.Context(), req.Nonce, claims.UserID()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "contact added"})
}

func (h *AuthHandler) RefreshTokenToAccessToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token required")
		return
	}
	accessToken, err := h.svc.RefreshTokenToAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AccessTokenEnvelope{AccessToken: accessToken})
}

func (h *AuthHandler) RevokeRefreshToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.RevokeRefreshToken(r.Context(), claims.UserID()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "refresh tokens revoked"})
}

// ValidateToken echoes the verified access-token claims as a flat key/value
// mapping. Reaching this handler at all means the bearer token passed
// signature and expiry checks in the auth middleware.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, claimMap(claims))
}
