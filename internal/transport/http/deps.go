package http

import (
	"github.com/go-otp-nosql/internal/application/auth"
)

// Deps holds the infrastructure the router wires into the auth service.
type Deps struct {
	VerificationRepo auth.VerificationStore
	UserRepo         auth.UserStore
	// Events is optional; nil disables UserVerified publication.
	Events auth.EventPublisher
	// Notifiers are keyed by the names accepted in the issue request.
	Notifiers       map[string]auth.Notifier
	DefaultNotifier string
}
