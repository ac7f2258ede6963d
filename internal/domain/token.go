package domain

import "time"

// RefreshToken is a long-lived opaque credential bound to a user. Several
// may be live per user (multi-device); revocation is user-scoped and flips
// Revoked on all of them.
type RefreshToken struct {
	Token    string    `json:"token" dynamodbav:"token"`
	UserID   string    `json:"user_id" dynamodbav:"user_id"`
	IssuedAt time.Time `json:"issued_at" dynamodbav:"issued_at"`
	Revoked  bool      `json:"revoked" dynamodbav:"revoked"`
}
