package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-otp-nosql/internal/application/auth"
	"github.com/go-otp-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Issue(ctx context.Context, email string, notifier auth.Notifier) (*auth.IssueResult, error) {
	args := m.Called(ctx, email, notifier)
	if res, _ := args.Get(0).(*auth.IssueResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Verify(ctx context.Context, verificationID, code string) (*auth.VerifyResult, error) {
	args := m.Called(ctx, verificationID, code)
	if res, _ := args.Get(0).(*auth.VerifyResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Delete(ctx context.Context, verificationID string) error {
	return m.Called(ctx, verificationID).Error(0)
}

type namedNotifier struct{ name string }

func (n *namedNotifier) SendEmail(context.Context, string, string, string) error { return nil }

// --- helpers ---

var (
	smtpNotifier = &namedNotifier{name: "smtp"}
	logNotifier  = &namedNotifier{name: "log"}
)

func newCodeHandler(svc auth.Service) *AuthCodeHandler {
	return NewAuthCodeHandler(svc, map[string]auth.Notifier{
		"smtp": smtpNotifier,
		"log":  logNotifier,
	}, "log")
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) MessageEnvelope {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// --- Issue ---

func TestIssue_InvalidBody(t *testing.T) {
	h := newCodeHandler(&mockAuthSvc{})
	rr := httptest.NewRecorder()
	h.Issue(rr, httptest.NewRequest(http.MethodPost, "/v1/auth-codes", bytes.NewBufferString("not-json")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, CodeInvalidArgument, decodeError(t, rr).ErrorCode)
}

func TestIssue_InvalidEmail(t *testing.T) {
	svc := &mockAuthSvc{}
	h := newCodeHandler(svc)
	rr := httptest.NewRecorder()
	h.Issue(rr, httptest.NewRequest(http.MethodPost, "/v1/auth-codes", jsonBody(t, IssueCodeRequest{Email: "not-an-email"})))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestIssue_UnknownService(t *testing.T) {
	h := newCodeHandler(&mockAuthSvc{})
	rr := httptest.NewRecorder()
	h.Issue(rr, httptest.NewRequest(http.MethodPost, "/v1/auth-codes", jsonBody(t, IssueCodeRequest{Email: "a@x.com", Service: "fax"})))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid service specified", decodeError(t, rr).Error)
}

func TestIssue_DefaultNotifier(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Issue", mock.Anything, "a@x.com", logNotifier).Return(&auth.IssueResult{VerificationID: "V1"}, nil)
	h := newCodeHandler(svc)

	rr := httptest.NewRecorder()
	h.Issue(rr, httptest.NewRequest(http.MethodPost, "/v1/auth-codes", jsonBody(t, IssueCodeRequest{Email: "a@x.com"})))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp IssueEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "V1", resp.VerificationID)
	assert.Equal(t, "success", resp.Status)
	svc.AssertExpectations(t)
}

func TestIssue_SelectedNotifier(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Issue", mock.Anything, "a@x.com", smtpNotifier).Return(&auth.IssueResult{VerificationID: "V2"}, nil)
	h := newCodeHandler(svc)

	rr := httptest.NewRecorder()
	h.Issue(rr, httptest.NewRequest(http.MethodPost, "/v1/auth-codes", jsonBody(t, IssueCodeRequest{Email: "a@x.com", Service: "smtp"})))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestIssue_ServiceFailure_HidesDetails(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Issue", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewError(domain.KindServiceError, "send email", assert.AnError))
	h := newCodeHandler(svc)

	rr := httptest.NewRecorder()
	h.Issue(rr, httptest.NewRequest(http.MethodPost, "/v1/auth-codes", jsonBody(t, IssueCodeRequest{Email: "a@x.com"})))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeError(t, rr)
	assert.Equal(t, CodeInternal, env.ErrorCode)
	assert.NotContains(t, env.Error, assert.AnError.Error())
}

// --- Verify ---

func TestVerify_BadCodeFormat(t *testing.T) {
	svc := &mockAuthSvc{}
	h := newCodeHandler(svc)
	rr := httptest.NewRecorder()
	r := withChiID(httptest.NewRequest(http.MethodPost, "/v1/auth-codes/V1/verify", jsonBody(t, VerifyCodeRequest{Code: "12ab"})), "V1")
	h.Verify(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Verify", mock.Anything, "V1", "482913").Return(&auth.VerifyResult{UserID: "U1"}, nil)
	h := newCodeHandler(svc)

	rr := httptest.NewRecorder()
	r := withChiID(httptest.NewRequest(http.MethodPost, "/v1/auth-codes/V1/verify", jsonBody(t, VerifyCodeRequest{Code: "482913"})), "V1")
	h.Verify(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp VerifyEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "U1", resp.UserID)
	assert.Equal(t, "Code verified successfully.", resp.Message)
}

// Unknown, expired and mismatched codes must be indistinguishable to callers.
func TestVerify_FailuresShareOneResponse(t *testing.T) {
	kinds := []domain.Kind{domain.KindInvalidOrExpired, domain.KindExpired, domain.KindCodeMismatch}
	var bodies []string
	for _, k := range kinds {
		svc := &mockAuthSvc{}
		svc.On("Verify", mock.Anything, "V1", "482913").Return(nil, domain.NewError(k, k.String(), nil))
		h := newCodeHandler(svc)

		rr := httptest.NewRecorder()
		r := withChiID(httptest.NewRequest(http.MethodPost, "/v1/auth-codes/V1/verify", jsonBody(t, VerifyCodeRequest{Code: "482913"})), "V1")
		h.Verify(rr, r)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, k.String())
		bodies = append(bodies, rr.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[0], bodies[2])
}

func TestVerify_InternalError(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Verify", mock.Anything, "V1", "482913").Return(nil, domain.NewError(domain.KindInternal, "user email not found", nil))
	h := newCodeHandler(svc)

	rr := httptest.NewRecorder()
	r := withChiID(httptest.NewRequest(http.MethodPost, "/v1/auth-codes/V1/verify", jsonBody(t, VerifyCodeRequest{Code: "482913"})), "V1")
	h.Verify(rr, r)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// --- Delete ---

func TestDelete_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Delete", mock.Anything, "V1").Return(nil)
	h := newCodeHandler(svc)

	rr := httptest.NewRecorder()
	h.Delete(rr, withChiID(httptest.NewRequest(http.MethodDelete, "/v1/auth-codes/V1", nil), "V1"))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestDelete_InvalidInput(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Delete", mock.Anything, "").Return(domain.NewError(domain.KindInvalidInput, "verification id is required", nil))
	h := newCodeHandler(svc)

	rr := httptest.NewRecorder()
	h.Delete(rr, withChiID(httptest.NewRequest(http.MethodDelete, "/v1/auth-codes/", nil), ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "verification id is required", decodeError(t, rr).Error)
}
