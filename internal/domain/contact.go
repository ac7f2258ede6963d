package domain

import "time"

// UserContact binds a verified contact address (email or phone) to a user.
// Contacts are globally unique: at most one user per contact value. Every
// user keeps at least one contact at all times.
type UserContact struct {
	Contact   string    `json:"contact" dynamodbav:"contact"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
