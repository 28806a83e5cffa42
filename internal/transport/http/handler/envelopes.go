package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-otp-nosql/internal/domain"
)

// Caller-facing error codes.
const (
	CodeInvalidArgument = "invalid-argument"
	CodeUnauthenticated = "unauthenticated"
	CodeInternal        = "internal"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// IssueEnvelope wraps a successful code issue.
type IssueEnvelope struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	VerificationID string `json:"verification_id"`
}

// VerifyEnvelope wraps a successful verification.
type VerifyEnvelope struct {
	Status  string `json:"status"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: code})
}

// httpError maps service errors to responses. Verification failures share one
// message so callers cannot tell unknown identifiers from expired ones.
func httpError(w http.ResponseWriter, err error) {
	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, publicMessage(err))
	case domain.KindInvalidOrExpired, domain.KindExpired, domain.KindCodeMismatch:
		writeError(w, http.StatusUnauthorized, CodeUnauthenticated, "invalid or expired verification code")
	default:
		writeError(w, http.StatusInternalServerError, CodeInternal, "an unexpected error occurred")
	}
}

func publicMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "invalid request"
}
