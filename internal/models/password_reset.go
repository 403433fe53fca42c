package models

import "time"

// PasswordReset is a single-use token for the forgot-password flow.
// A token is consumed by deleting its row.
type PasswordReset struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
