package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/utils"
)

type fakeResolver struct {
	byHash map[string]model.SessionUser
	expiry map[string]time.Time
	calls  int
}

// Resolve mirrors the store contract: unknown hash and expired session are
// the same sql.ErrNoRows. Sessions without an expiry entry never expire.
func (f *fakeResolver) Resolve(_ context.Context, tokenHash string) (model.SessionUser, error) {
	f.calls++
	u, ok := f.byHash[tokenHash]
	if !ok {
		return model.SessionUser{}, sql.ErrNoRows
	}
	if exp, bounded := f.expiry[tokenHash]; bounded && !time.Now().UTC().Before(exp) {
		return model.SessionUser{}, sql.ErrNoRows
	}
	return u, nil
}

const (
	testCookie = "keshet_session"
	testSecret = "test-session-secret"
)

func invoke(t *testing.T, mw echo.MiddlewareFunc, cookie string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, rec, err
}

func TestSessionAuthNoCookieSkipsStore(t *testing.T) {
	f := &fakeResolver{}
	mw := SessionAuth(testCookie, testSecret, f)

	c, rec, err := invoke(t, mw, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, f.calls)

	_, ok := CurrentUser(c)
	assert.False(t, ok)
}

func TestSessionAuthResolvesIdentity(t *testing.T) {
	raw := "raw-session-token"
	want := model.SessionUser{ID: 7, Name: "Dana", Email: "dana@example.com", Role: model.RoleEditor, Status: model.StatusActive}
	f := &fakeResolver{byHash: map[string]model.SessionUser{
		utils.HashSessionToken(testSecret, raw): want,
	}}
	mw := SessionAuth(testCookie, testSecret, f)

	c, rec, err := invoke(t, mw, raw)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	got, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestSessionAuthUnknownTokenIsAnonymous(t *testing.T) {
	f := &fakeResolver{}
	mw := SessionAuth(testCookie, testSecret, f)

	c, rec, err := invoke(t, mw, "forged-or-expired")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.calls)

	_, ok := CurrentUser(c)
	assert.False(t, ok)
}

// A session resolves right up to its expiry instant and not at or after
// it, and the expired case is indistinguishable from an unknown token.
func TestSessionAuthExpiryBoundary(t *testing.T) {
	raw := "raw-session-token"
	hash := utils.HashSessionToken(testSecret, raw)
	user := model.SessionUser{ID: 7, Role: model.RoleUser, Status: model.StatusActive}

	f := &fakeResolver{
		byHash: map[string]model.SessionUser{hash: user},
		expiry: map[string]time.Time{hash: time.Now().UTC().Add(time.Hour)},
	}
	mw := SessionAuth(testCookie, testSecret, f)

	c, rec, err := invoke(t, mw, raw)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok := CurrentUser(c)
	assert.True(t, ok, "session before expiry must resolve")

	f.expiry[hash] = time.Now().UTC().Add(-time.Nanosecond)
	c, rec, err = invoke(t, mw, raw)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok = CurrentUser(c)
	assert.False(t, ok, "session at or past expiry must be anonymous")
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, RequireAuth()(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	SetCurrentUser(c, model.SessionUser{ID: 1, Role: model.RoleUser, Status: model.StatusActive})
	require.NoError(t, RequireAuth()(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
