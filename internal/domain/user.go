package domain

import (
	"strings"
	"time"
)

type User struct {
	UserID    string    `json:"id" dynamodbav:"user_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Locale    string    `json:"locale,omitempty" dynamodbav:"locale"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// NewUserProfile is the allow-list of fields a caller may supply when a
// NewUser nonce is redeemed. The user id is always system-generated and is
// deliberately absent here.
type NewUserProfile struct {
	Name   string `json:"name" validate:"required"`
	Locale string `json:"locale" validate:"omitempty,bcp47_language_tag"`
}

// reservedUserIDs are identifiers that must never be assigned to a user.
var reservedUserIDs = []string{"admin"}

// IsReservedUserID reports whether id collides with a reserved identifier.
func IsReservedUserID(id string) bool {
	for _, r := range reservedUserIDs {
		if strings.EqualFold(id, r) {
			return true
		}
	}
	return false
}
