package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshetlaw/keshet-cms/internal/config"
	"github.com/keshetlaw/keshet-cms/internal/model"
)

func bootstrapRequest(secret, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/bootstrap", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if secret != "" {
		req.Header.Set("x-bootstrap-secret", secret)
	}
	return req
}

const bootstrapBody = `{"name":"Admin","email":"admin@example.com","password":"hunter22"}`

func runBootstrap(t *testing.T, cfg config.Config, users *fakeUserStore, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	h := NewBootstrapHandler(cfg, users)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Bootstrap(c))
	return rec
}

func TestBootstrapCreatesFirstAdmin(t *testing.T) {
	users := newFakeUserStore()
	rec := runBootstrap(t, testConfig(), users, bootstrapRequest("bootstrap-secret", bootstrapBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)

	u, ok := users.byEmail["admin@example.com"]
	require.True(t, ok)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, model.StatusActive, u.Status)
}

func TestBootstrapSecretUnset(t *testing.T) {
	cfg := testConfig()
	cfg.BootstrapSecret = ""
	users := newFakeUserStore()
	rec := runBootstrap(t, cfg, users, bootstrapRequest("anything", bootstrapBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, users.bootstrapCalls)
}

func TestBootstrapWrongSecret(t *testing.T) {
	users := newFakeUserStore()
	rec := runBootstrap(t, testConfig(), users, bootstrapRequest("wrong", bootstrapBody))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, users.bootstrapCalls)

	rec = runBootstrap(t, testConfig(), users, bootstrapRequest("", bootstrapBody))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBootstrapRefusedOnceAdminExists(t *testing.T) {
	users := newFakeUserStore()
	users.add(model.User{Name: "Existing", Email: "first@example.com", Role: model.RoleAdmin, Status: model.StatusActive})

	rec := runBootstrap(t, testConfig(), users, bootstrapRequest("bootstrap-secret", bootstrapBody))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, users.bootstrapCalls)
}

// Simulates losing the race: HasAdmin sees no admin, but the insert finds
// the lock row already claimed.
func TestBootstrapRaceLoserGets403(t *testing.T) {
	users := newFakeUserStore()
	users.bootstrapped = true

	rec := runBootstrap(t, testConfig(), users, bootstrapRequest("bootstrap-secret", bootstrapBody))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 1, users.bootstrapCalls)
}

func TestBootstrapExactlyOnce(t *testing.T) {
	users := newFakeUserStore()

	rec := runBootstrap(t, testConfig(), users, bootstrapRequest("bootstrap-secret", bootstrapBody))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runBootstrap(t, testConfig(), users, bootstrapRequest("bootstrap-secret",
		`{"name":"Admin2","email":"admin2@example.com","password":"hunter22"}`))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, users.byEmail, 1)
}

func TestBootstrapValidation(t *testing.T) {
	for _, body := range []string{
		`{"name":"A","email":"admin@example.com","password":"hunter22"}`,
		`{"name":"Admin","email":"nope","password":"hunter22"}`,
		`{"name":"Admin","email":"admin@example.com","password":"short"}`,
	} {
		users := newFakeUserStore()
		rec := runBootstrap(t, testConfig(), users, bootstrapRequest("bootstrap-secret", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.Zero(t, users.bootstrapCalls)
	}
}
