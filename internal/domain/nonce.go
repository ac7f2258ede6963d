package domain

import "time"

// OnboardingState classifies what redeeming a nonce does. The value doubles
// as the delivery template tag, so the message a user receives matches the
// flow the nonce was issued for.
type OnboardingState string

const (
	StateNewUser       OnboardingState = "NewUser"
	StateReturningUser OnboardingState = "ReturningUser"
	StateAddingContact OnboardingState = "AddingContact"
)

// Nonce is a single-use, time-boxed random token proving control of a
// contact address. At most one nonce is outstanding per contact: the table
// is keyed by contact, so issuing a new one replaces any prior nonce.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type Nonce struct {
	Contact   string          `json:"contact" dynamodbav:"contact"`
	Value     string          `json:"-" dynamodbav:"nonce_value"`
	State     OnboardingState `json:"state" dynamodbav:"state"`
	IssuedAt  time.Time       `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64           `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// Expired reports whether the nonce is past its expiry at the given instant.
func (n *Nonce) Expired(now time.Time) bool {
	return n.ExpiresAt < now.Unix()
}
