package dynamo

// DynamoDB attribute names shared by keys, conditions and table definitions.
const (
	fieldVerificationID = "verification_id"
	fieldUserID         = "user_id"
	fieldEmail          = "email"
	fieldExpiresAt      = "expires_at"
)
