package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"byggekrav/internal/auth"
	"byggekrav/internal/claims/models"
	"byggekrav/internal/claims/service"
	jwttoken "byggekrav/internal/jwt_token"
	id "byggekrav/pkg/domain"
)

type stubClaims struct{}

func (stubClaims) Submit(context.Context, service.SubmitInput) (*models.Claim, error) {
	return &models.Claim{ID: id.NewClaimID(), Status: models.StatusOpen, Version: 1}, nil
}

func (stubClaims) Get(_ context.Context, claimID id.ClaimID) (*models.ClaimView, error) {
	return &models.ClaimView{Claim: models.Claim{ID: claimID, Status: models.StatusOpen, Version: 1}}, nil
}

func (stubClaims) RecordNotice(context.Context, id.ClaimID, service.NoticeInput) (*models.Notice, error) {
	return &models.Notice{}, nil
}

func (stubClaims) Alerts(context.Context, id.ClaimID) (*service.ClaimAlerts, error) {
	return &service.ClaimAlerts{}, nil
}

func (stubClaims) Respond(context.Context, id.ClaimID, service.RespondInput) (*models.Response, error) {
	return &models.Response{}, nil
}

func (stubClaims) ComposeDraft(context.Context, id.ClaimID, service.RespondInput) (*models.Response, error) {
	return &models.Response{}, nil
}

func (stubClaims) EvaluatePreclusion(context.Context, service.EvaluateInput) (*service.EvaluateResult, error) {
	return &service.EvaluateResult{}, nil
}

type failingCheck struct{}

func (failingCheck) Health(context.Context) error { return errors.New("connection refused") }

type okCheck struct{}

func (okCheck) Health(context.Context) error { return nil }

func newTestRouter(t *testing.T, checks map[string]HealthChecker) (http.Handler, *auth.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := jwttoken.NewJWTService("router-test-key", "byggekrav", "byggekrav-api")
	authService := auth.NewService(auth.NewMemoryStore(), tokens, logger)

	router := NewRouter(Deps{
		Logger:       logger,
		Claims:       stubClaims{},
		Auth:         auth.NewHandler(authService, logger),
		JWTValidator: jwttoken.NewJWTServiceAdapter(tokens),
		HealthChecks: checks,
	})
	return router, authService
}

func TestHealthz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		router, _ := newTestRouter(t, map[string]HealthChecker{"postgres": okCheck{}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "ok", body["postgres"])
	})

	t.Run("failing check degrades", func(t *testing.T) {
		router, _ := newTestRouter(t, map[string]HealthChecker{"redis": failingCheck{}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClaimsRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/claims/"+id.NewClaimID().String(), nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenFlow(t *testing.T) {
	router, authService := newTestRouter(t, nil)
	partyID := id.NewPartyID()
	apiKey, err := authService.Onboard(context.Background(), partyID, jwttoken.RoleByggherre)
	require.NoError(t, err)

	// Exchange the API key for a token.
	body := `{"party_id": "` + partyID.String() + `", "api_key": "` + apiKey + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var token auth.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	require.NotEmpty(t, token.AccessToken)

	// The token opens the claims endpoints.
	req = httptest.NewRequest(http.MethodGet, "/claims/"+id.NewClaimID().String(), nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
