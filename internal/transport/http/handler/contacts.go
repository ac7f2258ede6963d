package handler

import (
	"encoding/json"
	"net/http"

	"github.com/passwordless-api/internal/application/auth"
	"github.com/passwordless-api/internal/transport/http/middleware"
)

// ContactHandler handles contact listing and removal for the authenticated user.
type ContactHandler struct {
	svc auth.Service
}

func NewContactHandler(svc auth.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	contacts, err := h.svc.ListContacts(r.Context(), claims.UserID())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ContactsEnvelope{Contacts: contacts})
}

func (h *ContactHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Contact string `json:"contact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Contact == "" {
		writeError(w, http.StatusBadRequest, "contact required")
		return
	}
	if err := h.svc.RemoveContact(r.Context(), claims.UserID(), req.Contact); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "contact removed"})
}
