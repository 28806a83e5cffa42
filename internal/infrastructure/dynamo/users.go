package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/go-otp-nosql/internal/domain"
	"github.com/go-otp-nosql/internal/pkg/id"
)

// UserRepo writes users promoted from a verified email. Records are never
// updated or deleted here.
type UserRepo struct {
	client    API
	tableName string
	now       Clock
}

func NewUserRepo(client API, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName, now: utcNow}
}

// WithClock replaces the clock used to stamp created_at.
func (r *UserRepo) WithClock(now Clock) *UserRepo {
	r.now = now
	return r
}

// Create stores a user with a verified email and returns the new user id.
func (r *UserRepo) Create(ctx context.Context, email string) (string, error) {
	now := r.now()
	u := &domain.User{
		UserID:        id.NewAt(now),
		Email:         email,
		VerifiedEmail: true,
		CreatedAt:     now,
	}
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return "", fmt.Errorf("marshal user: %w", err)
	}
	if _, err := r.client.PutItem(ctx, putIfAbsent(r.tableName, fieldUserID, item)); err != nil {
		return "", fmt.Errorf("put user: %w", err)
	}
	return u.UserID, nil
}
