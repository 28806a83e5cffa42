package domain

import "time"

// User is created once an email address has been proven through a code.
type User struct {
	UserID        string    `json:"id" dynamodbav:"user_id"`
	Email         string    `json:"email" dynamodbav:"email"`
	VerifiedEmail bool      `json:"verified_email" dynamodbav:"verified_email"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
}

// UserVerified is published after a verification has been promoted to a user.
type UserVerified struct {
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	VerificationID string    `json:"verification_id"`
	VerifiedAt     time.Time `json:"verified_at"`
}
