package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/passwordless-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RefreshTokenEnvelope wraps nonce-redemption responses.
type RefreshTokenEnvelope struct {
	RefreshToken string `json:"refresh_token"`
}

// AccessTokenEnvelope wraps token-exchange responses.
type AccessTokenEnvelope struct {
	AccessToken string `json:"access_token"`
}

// ContactsEnvelope wraps contact list responses.
type ContactsEnvelope struct {
	Contacts []domain.UserContact `json:"contacts"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps a domain error to its HTTP status. Applied once
// here so services stay transport-agnostic.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNonceNotFound),
		errors.Is(err, domain.ErrContactNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNonceExpired),
		errors.Is(err, domain.ErrProfileInvalid),
		errors.Is(err, domain.ErrContactAlreadyBound),
		errors.Is(err, domain.ErrLastContactForbidden):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRefreshTokenInvalid),
		errors.Is(err, domain.ErrRefreshTokenRevoked),
		errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrDeliveryFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
