package domain

import "time"

// CodeValidity is how long an issued code may be consumed after creation.
const CodeValidity = 10 * time.Minute

// Verification is a pending one-time code for an email address.
// PK: verification_id. ExpiresAt is a Unix timestamp used only as DynamoDB TTL;
// expiry decisions are always made from CreatedAt.
type Verification struct {
	VerificationID string    `json:"verification_id" dynamodbav:"verification_id"`
	Email          string    `json:"email" dynamodbav:"email"`
	Code           string    `json:"-" dynamodbav:"code"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt      int64     `json:"-" dynamodbav:"expires_at"`
}

// Expired reports whether the code validity window has passed at now.
func (v *Verification) Expired(now time.Time) bool {
	return now.After(v.CreatedAt.Add(CodeValidity))
}
