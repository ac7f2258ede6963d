package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
// They are semantic rejections, never transient faults — callers must not retry them.
var (
	ErrNonceNotFound        = errors.New("nonce not found")
	ErrNonceExpired         = errors.New("nonce expired")
	ErrContactNotFound      = errors.New("contact not found")
	ErrContactAlreadyBound  = errors.New("contact already bound to another user")
	ErrProfileInvalid       = errors.New("profile invalid")
	ErrLastContactForbidden = errors.New("cannot remove last contact")
	ErrRefreshTokenInvalid  = errors.New("refresh token invalid")
	ErrRefreshTokenRevoked  = errors.New("refresh token revoked")
	ErrDeliveryFailed       = errors.New("delivery failed")
	ErrUnauthorized         = errors.New("unauthorized")
)
