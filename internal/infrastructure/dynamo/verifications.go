package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-otp-nosql/internal/domain"
	"github.com/go-otp-nosql/internal/pkg/id"
)

// ttlGrace keeps a record past its validity window so a late Verify still
// observes it as expired rather than unknown before DynamoDB purges it.
const ttlGrace = time.Hour

// VerificationRepo stores pending one-time codes.
// PK: verification_id. TTL attribute: expires_at.
type VerificationRepo struct {
	client    API
	tableName string
	now       Clock
}

func NewVerificationRepo(client API, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName, now: utcNow}
}

// WithClock replaces the clock used to stamp created_at.
func (r *VerificationRepo) WithClock(now Clock) *VerificationRepo {
	r.now = now
	return r
}

// Create writes a new verification for email and returns its identifier.
// created_at is taken from the repository clock.
func (r *VerificationRepo) Create(ctx context.Context, email, code string) (string, error) {
	now := r.now()
	v := &domain.Verification{
		VerificationID: id.NewAt(now),
		Email:          email,
		Code:           code,
		CreatedAt:      now,
		ExpiresAt:      now.Add(domain.CodeValidity + ttlGrace).Unix(),
	}
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return "", fmt.Errorf("marshal verification: %w", err)
	}
	if _, err := r.client.PutItem(ctx, putIfAbsent(r.tableName, fieldVerificationID, item)); err != nil {
		return "", fmt.Errorf("put verification: %w", err)
	}
	return v.VerificationID, nil
}

func (r *VerificationRepo) Get(ctx context.Context, verificationID string) (*domain.Verification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldVerificationID, verificationID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get verification: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.Verification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, fmt.Errorf("unmarshal verification: %w", err)
	}
	return &v, nil
}

// Delete removes the verification. Deleting a missing item is not an error.
func (r *VerificationRepo) Delete(ctx context.Context, verificationID string) error {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          strKey(fieldVerificationID, verificationID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("delete verification: %w", err)
	}
	if len(out.Attributes) == 0 {
		slog.Debug("verification already absent", "verification_id", verificationID)
	}
	return nil
}
