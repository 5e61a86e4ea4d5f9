package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/genepreston69/uplift-frame/internal/middleware"
	"github.com/genepreston69/uplift-frame/internal/services"
	"github.com/genepreston69/uplift-frame/internal/session"
	"github.com/genepreston69/uplift-frame/internal/whitelist"
)

type fakeStore struct{}

func (s *fakeStore) CreateSession(ctx context.Context) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *fakeStore) FinalizeSession(ctx context.Context, p session.FinalizeParams) error {
	return nil
}

func testRegistry() *session.Registry {
	timings := session.Timings{
		SessionDuration: 30 * time.Minute,
		IdleTimeout:     10 * time.Minute,
		TickInterval:    time.Second,
	}
	return session.NewRegistry(func() *session.Manager {
		return session.NewManager(&fakeStore{}, session.NewClock(), nil, zerolog.Nop(), timings)
	})
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSessionStartEndFlow(t *testing.T) {
	h := NewSessionHandler(testRegistry())

	rec := doJSON(t, h.Start, http.MethodPost, "/api/v1/session/start", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var started struct {
		SessionID            string `json:"session_id"`
		IsActive             bool   `json:"is_active"`
		TimeRemainingSeconds int    `json:"time_remaining_seconds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	assert.True(t, started.IsActive)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, 1800, started.TimeRemainingSeconds)

	// A second start on the same kiosk must not reset the running session.
	rec = doJSON(t, h.Start, http.MethodPost, "/api/v1/session/start", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_ACTIVE")

	rec = doJSON(t, h.Get, http.MethodGet, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_active":true`)

	rec = doJSON(t, h.End, http.MethodPost, "/api/v1/session/end", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.Get, http.MethodGet, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_active":false`)
}

func TestSessionEndWhenInactiveIsNoOp(t *testing.T) {
	h := NewSessionHandler(testRegistry())

	rec := doJSON(t, h.End, http.MethodPost, "/api/v1/session/end", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestKiosksGetIndependentSessions(t *testing.T) {
	h := NewSessionHandler(testRegistry())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/start", nil)
	req.Header.Set("X-Kiosk-ID", "kiosk-a")
	rec := httptest.NewRecorder()
	h.Start(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same call from a different kiosk succeeds instead of conflicting.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/session/start", nil)
	req.Header.Set("X-Kiosk-ID", "kiosk-b")
	rec = httptest.NewRecorder()
	h.Start(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestActivityValidation(t *testing.T) {
	h := NewSessionHandler(testRegistry())

	rec := doJSON(t, h.Activity, http.MethodPost, "/api/v1/session/activity", `{"details":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.Activity, http.MethodPost, "/api/v1/session/activity", `{"activity":"navigation","details":{"page":"resources"}}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSubmissionRequiresActiveSession(t *testing.T) {
	h := NewSubmissionHandler(testRegistry(), nil, zerolog.Nop())

	rec := doJSON(t, h.Create, http.MethodPost, "/api/v1/submissions",
		`{"type":"grievance","content":{"description":"broken shower"}}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_REQUIRED")
}

func TestSubmissionRejectsUnknownType(t *testing.T) {
	h := NewSubmissionHandler(testRegistry(), nil, zerolog.Nop())

	rec := doJSON(t, h.Create, http.MethodPost, "/api/v1/submissions",
		`{"type":"complaint","content":{"description":"x"}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "type")
}

func TestSurveyQuestionsCatalog(t *testing.T) {
	h := NewSurveyHandler(testRegistry(), nil, zerolog.Nop())

	rec := doJSON(t, h.Questions, http.MethodGet, "/api/v1/survey/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Questions    []map[string]string `json:"questions"`
		RatingLabels map[string]string   `json:"rating_labels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Questions, 27)
	assert.Equal(t, "Strongly Agree", resp.RatingLabels["5"])
}

func TestSurveySubmitRequiresTenure(t *testing.T) {
	h := NewSurveyHandler(testRegistry(), nil, zerolog.Nop())

	rec := doJSON(t, h.Submit, http.MethodPost, "/api/v1/survey", `{"responses":{}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tenure")
}

func TestSurveyBypass(t *testing.T) {
	h := NewSurveyHandler(testRegistry(), nil, zerolog.Nop())

	rec := doJSON(t, h.Bypass, http.MethodPost, "/api/v1/survey/bypass", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIntakeRequiresActiveSession(t *testing.T) {
	h := NewIntakeHandler(testRegistry(), nil, zerolog.Nop())

	rec := doJSON(t, h.Submit, http.MethodPost, "/api/v1/intake", `{"first_name":"Sam"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_REQUIRED")
}

func TestLinkCheckClassifiesAndLogs(t *testing.T) {
	registry := testRegistry()
	h := NewExternalLinkHandler(registry, nil, whitelist.NewChecker(nil), zerolog.Nop())

	cases := []struct {
		url    string
		status string
	}{
		{"https://www.ssa.gov/benefits", "verified"},
		{"https://example.com/jobs", "warning"},
		{"javascript:alert(1)", "blocked"},
	}
	for _, tc := range cases {
		rec := doJSON(t, h.Check, http.MethodPost, "/api/v1/links/check", `{"url":"`+tc.url+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, tc.url)

		var resp struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tc.status, resp.Status, tc.url)
	}
}

func TestLinkCheckRequiresURL(t *testing.T) {
	h := NewExternalLinkHandler(testRegistry(), nil, whitelist.NewChecker(nil), zerolog.Nop())

	rec := doJSON(t, h.Check, http.MethodPost, "/api/v1/links/check", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func newTestAdminHandler(t *testing.T, passphrase string) *AdminHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.MinCost)
	require.NoError(t, err)

	jwtAuth := middleware.NewJWTAuth("test-secret", time.Hour)
	admin := services.NewAdminService(string(hash), jwtAuth)
	return NewAdminHandler(admin, nil, nil, whitelist.NewChecker(nil), nil, nil, nil, nil, zerolog.Nop())
}

func TestAdminLogin(t *testing.T) {
	h := newTestAdminHandler(t, "staff-passphrase")

	rec := doJSON(t, h.Login, http.MethodPost, "/api/v1/admin/login", `{"password":"staff-passphrase"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	h := newTestAdminHandler(t, "staff-passphrase")

	rec := doJSON(t, h.Login, http.MethodPost, "/api/v1/admin/login", `{"password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestAdminLoginEmptyPassword(t *testing.T) {
	h := newTestAdminHandler(t, "staff-passphrase")

	rec := doJSON(t, h.Login, http.MethodPost, "/api/v1/admin/login", `{"password":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	jwtAuth := middleware.NewJWTAuth("test-secret", time.Hour)
	protected := jwtAuth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareAcceptsIssuedToken(t *testing.T) {
	jwtAuth := middleware.NewJWTAuth("test-secret", time.Hour)
	token, err := jwtAuth.GenerateAdminToken()
	require.NoError(t, err)

	protected := jwtAuth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
