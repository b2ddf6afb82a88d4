package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workshopsite/internal/adapters/auth"
	"workshopsite/internal/adapters/linkcheck"
	"workshopsite/internal/adapters/render"
	"workshopsite/internal/content"
	"workshopsite/internal/delivery/http/controllers"
	"workshopsite/internal/delivery/http/helpers"
	"workshopsite/internal/domain"
	"workshopsite/internal/services"
)

const (
	testSecret   = "test-secret"
	testEmail    = "chair@example.org"
	testPassword = "correct horse"
)

// okChecker reports every link as reachable.
type okChecker struct{}

func (okChecker) Check(ctx context.Context, links []domain.Link) ([]domain.LinkStatus, error) {
	out := make([]domain.LinkStatus, 0, len(links))
	for _, l := range links {
		out = append(out, domain.LinkStatus{URL: l.URL, Field: l.Field, StatusCode: 200, OK: true, CheckedAt: time.Now()})
	}
	return out, nil
}

func newTestRouter(t *testing.T, checks map[string]controllers.HealthCheck) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := content.NewFileRepository("testdata")
	renderer, err := render.NewPageRenderer()
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash(testPassword)
	require.NoError(t, err)

	site := services.NewSiteService(repo, renderer, nil, logger, 5*time.Second)
	links := services.NewLinkService(repo, okChecker{}, linkcheck.NewMemoryCache(), logger, 5*time.Second)
	authSvc := services.NewEditorAuthService(
		domain.Editor{Email: testEmail, PasswordHash: hash},
		hasher,
		auth.NewJWTIssuer(testSecret, "pn-workshop"),
		time.Hour,
	)

	return NewRouter(RouterDeps{
		Logger:   logger,
		Site:     controllers.NewSiteController(logger, site, "pn-workshop"),
		Links:    controllers.NewLinkController(logger, links, "pn-workshop"),
		Auth:     controllers.NewAuthController(logger, authSvc),
		Health:   controllers.NewHealthController(checks),
		Verifier: auth.NewJWTVerifier(testSecret, "pn-workshop"),
		Static:   render.Static(),
	})
}

func do(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) (T, *helpers.APIError) {
	t.Helper()
	var envelope struct {
		Data  T                 `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope.Data, envelope.Error
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/auth/token", "", controllers.TokenRequest{Email: testEmail, Password: testPassword})
	require.Equal(t, http.StatusOK, rr.Code)
	data, apiErr := decode[controllers.TokenResponse](t, rr)
	require.Nil(t, apiErr)
	assert.Equal(t, "Bearer", data.TokenType)
	return data.Token
}

func TestRouter_Page(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "Opening Remarks")
	assert.NotContains(t, body, "Industry Research Lab")

	rr = do(t, h, http.MethodGet, "/static/style.css", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_WorkshopJSON(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodGet, "/api/workshop", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "drafts")

	rr = do(t, h, http.MethodGet, "/api/workshop", "", nil)
	data, apiErr := decode[controllers.WorkshopResponse](t, rr)
	require.Nil(t, apiErr)
	assert.Equal(t, "pn-workshop", data.Slug)
	require.NotEmpty(t, data.Schedule)
	first := data.Schedule[0].Slots[0]
	assert.Equal(t, controllers.SlotResponse{Start: "09:00", End: "09:10", Label: "Opening Remarks"}, first)
	var resolved bool
	for _, s := range data.Schedule[0].Slots {
		if s.Label == "David Duvenaud" {
			resolved = s.Material == "https://example.org/pn-workshop/slides/DavidDuvenaud.pdf"
		}
	}
	assert.True(t, resolved)
}

func TestRouter_Validation(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodGet, "/api/validation", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	report, apiErr := decode[domain.ValidationReport](t, rr)
	require.Nil(t, apiErr)
	assert.Equal(t, "pn-workshop", report.Slug)
	assert.Empty(t, report.Issues)
}

func TestRouter_Drafts(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodGet, "/drafts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, http.MethodGet, "/drafts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, http.MethodGet, "/drafts", login(t, h), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Industry Research Lab")
}

func TestRouter_AuthToken(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/auth/token", "", controllers.TokenRequest{Email: testEmail, Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	_, apiErr := decode[any](t, rr)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeUnauthorized, apiErr.Code)

	rr = do(t, h, http.MethodPost, "/auth/token", "", map[string]string{"email": testEmail})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	_, apiErr = decode[any](t, rr)
	require.NotNil(t, apiErr)
	assert.Contains(t, apiErr.Message, "password is required")
}

func TestRouter_Links(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodGet, "/api/links?page_size=2", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	before, _ := decode[controllers.LinkReportResponse](t, rr)
	assert.Len(t, before.Statuses, 2)
	assert.Greater(t, before.Meta.Total, 2)
	assert.Equal(t, before.Meta.Total, before.Broken, "nothing checked yet")

	rr = do(t, h, http.MethodGet, "/api/links?page=9223372036854775807", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	past, _ := decode[controllers.LinkReportResponse](t, rr)
	assert.Empty(t, past.Statuses)

	rr = do(t, h, http.MethodPost, "/api/links/check", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/links/check", login(t, h), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	checked, _ := decode[controllers.LinkReportResponse](t, rr)
	assert.NotEmpty(t, checked.RunID)
	assert.Zero(t, checked.Broken)
}

func TestRouter_Healthz(t *testing.T) {
	h := newTestRouter(t, map[string]controllers.HealthCheck{
		"postgres": func(context.Context) error { return nil },
	})
	rr := do(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data, _ := decode[controllers.HealthResponse](t, rr)
	assert.Equal(t, "ok", data.Status)

	h = newTestRouter(t, map[string]controllers.HealthCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	rr = do(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	data, _ = decode[controllers.HealthResponse](t, rr)
	assert.Equal(t, "degraded", data.Status)
	assert.Equal(t, "connection refused", data.Checks["redis"])
}

func TestRouter_Swagger(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `"/api/workshop"`))
}
