package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-otp-nosql/internal/domain"
	"github.com/go-otp-nosql/internal/pkg/otpcode"
	"github.com/go-otp-nosql/internal/pkg/redact"
)

// CodeSubject is the subject line of the email carrying a code.
const CodeSubject = "Your Authentication Code"

const codeBodyFormat = "<strong>Your authentication code is: %s</strong>"

// VerificationStore persists pending codes. Create must assign created_at
// itself; Delete must succeed when the record is already gone.
type VerificationStore interface {
	Create(ctx context.Context, email, code string) (string, error)
	Get(ctx context.Context, verificationID string) (*domain.Verification, error)
	Delete(ctx context.Context, verificationID string) error
}

// UserStore persists users promoted from a verified email.
type UserStore interface {
	Create(ctx context.Context, email string) (string, error)
}

// Notifier delivers an HTML email.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// EventPublisher announces successful verifications.
type EventPublisher interface {
	PublishUserVerified(ctx context.Context, evt domain.UserVerified) error
}

type IssueResult struct {
	VerificationID string `json:"verification_id"`
}

type VerifyResult struct {
	UserID string `json:"user_id"`
}

// Service drives the code lifecycle. A verification is Pending while its
// record exists; Verify and Delete move it to a terminal state by removing it.
type Service interface {
	Issue(ctx context.Context, email string, notifier Notifier) (*IssueResult, error)
	Verify(ctx context.Context, verificationID, code string) (*VerifyResult, error)
	Delete(ctx context.Context, verificationID string) error
}

// ServiceDeps wires a Service. Events, GenerateCode and Now are optional.
type ServiceDeps struct {
	VerificationRepo VerificationStore
	UserRepo         UserStore
	Events           EventPublisher
	GenerateCode     func() (string, error)
	Now              func() time.Time
}

type service struct {
	verificationRepo VerificationStore
	userRepo         UserStore
	events           EventPublisher
	generateCode     func() (string, error)
	now              func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		verificationRepo: deps.VerificationRepo,
		userRepo:         deps.UserRepo,
		events:           deps.Events,
		generateCode:     deps.GenerateCode,
		now:              deps.Now,
	}
	if s.generateCode == nil {
		s.generateCode = otpcode.Generate
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Issue(ctx context.Context, email string, notifier Notifier) (*IssueResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "email cannot be empty", nil)
	}
	if notifier == nil {
		return nil, domain.NewError(domain.KindInvalidInput, "no email notifier selected", nil)
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, domain.NewError(domain.KindServiceError, "generate code", err)
	}

	verificationID, err := s.verificationRepo.Create(ctx, email, code)
	if err != nil {
		slog.Error("failed to save verification code", "email", redact.Email(email), "err", err)
		return nil, domain.NewError(domain.KindServiceError, "save code for "+redact.Email(email), err)
	}

	// The record stays behind if delivery fails; it expires unused.
	if err := notifier.SendEmail(ctx, email, CodeSubject, fmt.Sprintf(codeBodyFormat, code)); err != nil {
		slog.Error("failed to send verification code", "email", redact.Email(email), "verification_id", verificationID, "err", err)
		return nil, domain.NewError(domain.KindServiceError, "send email to "+redact.Email(email), err)
	}

	slog.Info("verification code issued", "email", redact.Email(email), "verification_id", verificationID)
	return &IssueResult{VerificationID: verificationID}, nil
}

func (s *service) Verify(ctx context.Context, verificationID, code string) (*VerifyResult, error) {
	if verificationID == "" || code == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "verification id and code are required", nil)
	}

	v, err := s.verificationRepo.Get(ctx, verificationID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("verification failed: no record", "verification_id", verificationID)
		return nil, domain.NewError(domain.KindInvalidOrExpired, "invalid or expired verification id", err)
	}
	if err != nil {
		return nil, domain.NewError(domain.KindServiceError, "load verification", err)
	}

	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(code)) != 1 {
		slog.Info("verification failed: code mismatch", "verification_id", verificationID)
		return nil, domain.NewError(domain.KindCodeMismatch, "incorrect verification code", nil)
	}

	if v.Expired(s.now()) {
		slog.Info("verification failed: code expired", "verification_id", verificationID)
		if err := s.verificationRepo.Delete(ctx, verificationID); err != nil {
			slog.Warn("failed to delete expired verification", "verification_id", verificationID, "err", err)
		}
		return nil, domain.NewError(domain.KindExpired, "verification code has expired", nil)
	}

	if v.Email == "" {
		slog.Error("verification record has no email", "verification_id", verificationID)
		return nil, domain.NewError(domain.KindInternal, "user email not found", nil)
	}

	// The user is written before the code is consumed: a failure in between
	// leaves a pending record that expires, never a lost verification.
	userID, err := s.userRepo.Create(ctx, v.Email)
	if err != nil {
		return nil, domain.NewError(domain.KindServiceError, "create user", err)
	}
	slog.Info("user record created", "user_id", userID, "email", redact.Email(v.Email))

	if err := s.verificationRepo.Delete(ctx, verificationID); err != nil {
		slog.Warn("failed to delete consumed verification", "verification_id", verificationID, "err", err)
	}

	s.publish(ctx, domain.UserVerified{
		UserID:         userID,
		Email:          v.Email,
		VerificationID: verificationID,
		VerifiedAt:     s.now().UTC(),
	})
	return &VerifyResult{UserID: userID}, nil
}

func (s *service) Delete(ctx context.Context, verificationID string) error {
	if verificationID == "" {
		return domain.NewError(domain.KindInvalidInput, "verification id is required", nil)
	}
	if err := s.verificationRepo.Delete(ctx, verificationID); err != nil {
		return domain.NewError(domain.KindServiceError, "delete verification", err)
	}
	slog.Info("verification deleted", "verification_id", verificationID)
	return nil
}

func (s *service) publish(ctx context.Context, evt domain.UserVerified) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishUserVerified(ctx, evt); err != nil {
		slog.Warn("failed to publish user verified event", "user_id", evt.UserID, "err", err)
	}
}
