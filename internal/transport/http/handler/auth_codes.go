package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-otp-nosql/internal/application/auth"
	"github.com/go-otp-nosql/internal/pkg/validate"
)

type IssueCodeRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Service string `json:"service"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required,numeric,len=6"`
}

// AuthCodeHandler exposes the one-time code lifecycle.
type AuthCodeHandler struct {
	svc             auth.Service
	notifiers       map[string]auth.Notifier
	defaultNotifier string
}

// NewAuthCodeHandler takes the notifiers selectable through the request's
// service field; defaultNotifier names the one used when it is omitted.
func NewAuthCodeHandler(svc auth.Service, notifiers map[string]auth.Notifier, defaultNotifier string) *AuthCodeHandler {
	return &AuthCodeHandler{svc: svc, notifiers: notifiers, defaultNotifier: defaultNotifier}
}

func (h *AuthCodeHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	name := req.Service
	if name == "" {
		name = h.defaultNotifier
	}
	notifier, ok := h.notifiers[name]
	if !ok {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "invalid service specified")
		return
	}
	res, err := h.svc.Issue(r.Context(), req.Email, notifier)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IssueEnvelope{
		Status:         "success",
		Message:        "Verification code sent successfully.",
		VerificationID: res.VerificationID,
	})
}

func (h *AuthCodeHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	res, err := h.svc.Verify(r.Context(), chi.URLParam(r, "id"), req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{
		Status:  "success",
		UserID:  res.UserID,
		Message: "Code verified successfully.",
	})
}

func (h *AuthCodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Authentication code successfully deleted."})
}
