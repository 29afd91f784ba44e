package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshetlaw/keshet-cms/internal/middleware"
	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/utils"
)

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func seedUser(t *testing.T, users *fakeUserStore, email, password string, role model.Role, status model.Status) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	return users.add(model.User{
		Name: "Test User", Email: email, PasswordHash: hash, Role: role, Status: status,
	})
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	seedUser(t, users, "dana@example.com", "hunter22", model.RoleEditor, model.StatusActive)
	h := NewAuthHandler(testConfig(), users, sessions)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"Dana@Example.com","password":"hunter22"}`), rec)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User model.SessionUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dana@example.com", body.User.Email)
	assert.Equal(t, model.RoleEditor, body.User.Role)

	ck := sessionCookie(rec, "keshet_session")
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, 14*24*60*60, ck.MaxAge)
	assert.False(t, ck.Secure) // dev config

	// the stored hash must correspond to the cookie's raw token
	hash := utils.HashSessionToken("test-session-secret", ck.Value)
	_, ok := sessions.byHash[hash]
	assert.True(t, ok)
	// and the raw token itself is never a storage key
	_, ok = sessions.byHash[ck.Value]
	assert.False(t, ok)
}

func TestLoginUnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	seedUser(t, users, "dana@example.com", "hunter22", model.RoleUser, model.StatusActive)
	h := NewAuthHandler(testConfig(), users, sessions)
	e := echo.New()

	recUnknown := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"nobody@example.com","password":"hunter22"}`), recUnknown)
	require.NoError(t, h.Login(c))

	recWrongPass := httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"dana@example.com","password":"wrong"}`), recWrongPass)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrongPass.Code)
	assert.JSONEq(t, recUnknown.Body.String(), recWrongPass.Body.String())
	assert.Empty(t, sessions.byHash)
}

func TestLoginBlockedAccount(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	seedUser(t, users, "dana@example.com", "hunter22", model.RoleUser, model.StatusBlocked)
	h := NewAuthHandler(testConfig(), users, sessions)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"dana@example.com","password":"hunter22"}`), rec)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, sessions.byHash)
	assert.Nil(t, sessionCookie(rec, "keshet_session"))
}

func TestLoginValidation(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore(), newFakeSessionStore())
	e := echo.New()

	for _, body := range []string{
		`{"email":"","password":"x"}`,
		`{"email":"not-an-email","password":"x"}`,
		`{"email":"a@b.co","password":""}`,
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/login", body), rec)
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestLogoutRevokesSessionAndClearsCookie(t *testing.T) {
	sessions := newFakeSessionStore()
	cfg := testConfig()
	raw := "raw-token-value"
	hash := utils.HashSessionToken(cfg.SessionSecret, raw)
	sessions.byHash[hash] = 7
	h := NewAuthHandler(cfg, newFakeUserStore(), sessions)

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/auth/logout", "")
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: raw})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sessions.byHash)

	ck := sessionCookie(rec, cfg.CookieName)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge)
}

func TestLogoutWithoutCookieIsIdempotent(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore(), newFakeSessionStore())

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/logout", ""), rec)

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMe(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore(), newFakeSessionStore())
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil), rec)
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil), rec)
	middleware.SetCurrentUser(c, model.SessionUser{ID: 9, Name: "Dana", Email: "dana@example.com", Role: model.RoleAdmin, Status: model.StatusActive})
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dana@example.com"`)
}

func TestRegister(t *testing.T) {
	users := newFakeUserStore()
	h := NewAuthHandler(testConfig(), users, newFakeSessionStore())
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/register",
		`{"name":"Dana","email":"Dana@Example.com","password":"hunter22"}`), rec)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	u, ok := users.byEmail["dana@example.com"]
	require.True(t, ok)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Equal(t, model.StatusActive, u.Status)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "hunter22"))

	// duplicate email
	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/register",
		`{"name":"Other","email":"dana@example.com","password":"hunter22"}`), rec)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already in use")
}

func TestRegisterValidation(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore(), newFakeSessionStore())
	e := echo.New()

	for _, body := range []string{
		`{"name":"D","email":"a@b.co","password":"hunter22"}`,
		`{"name":"Dana","email":"bad email","password":"hunter22"}`,
		`{"name":"Dana","email":"a@b.co","password":"short"}`,
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/v1/auth/register", body), rec)
		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}
