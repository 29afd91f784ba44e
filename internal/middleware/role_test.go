package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

func runRoleCheck(t *testing.T, mw echo.MiddlewareFunc, user *model.SessionUser) int {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if user != nil {
		SetCurrentUser(c, *user)
	}
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	require.NoError(t, err)
	return rec.Code
}

func TestRequireRoleAnonymousGets401(t *testing.T) {
	mw := RequireRole(model.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, runRoleCheck(t, mw, nil))
}

func TestRequireRoleAdminOnly(t *testing.T) {
	mw := RequireRole(model.RoleAdmin)

	admin := model.SessionUser{ID: 1, Role: model.RoleAdmin}
	editor := model.SessionUser{ID: 2, Role: model.RoleEditor}
	user := model.SessionUser{ID: 3, Role: model.RoleUser}

	assert.Equal(t, http.StatusOK, runRoleCheck(t, mw, &admin))
	assert.Equal(t, http.StatusForbidden, runRoleCheck(t, mw, &editor))
	assert.Equal(t, http.StatusForbidden, runRoleCheck(t, mw, &user))
}

func TestRequireRoleStaffSurface(t *testing.T) {
	mw := RequireRole(model.RoleAdmin, model.RoleEditor)

	admin := model.SessionUser{ID: 1, Role: model.RoleAdmin}
	editor := model.SessionUser{ID: 2, Role: model.RoleEditor}
	user := model.SessionUser{ID: 3, Role: model.RoleUser}

	assert.Equal(t, http.StatusOK, runRoleCheck(t, mw, &admin))
	assert.Equal(t, http.StatusOK, runRoleCheck(t, mw, &editor))
	assert.Equal(t, http.StatusForbidden, runRoleCheck(t, mw, &user))
}

// Admin does not imply editor: a role outside the allow-list is rejected
// no matter how privileged it is elsewhere.
func TestRequireRoleNoHierarchy(t *testing.T) {
	mw := RequireRole(model.RoleEditor)
	admin := model.SessionUser{ID: 1, Role: model.RoleAdmin}
	assert.Equal(t, http.StatusForbidden, runRoleCheck(t, mw, &admin))
}
