package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// RequireRole returns middleware that enforces that the authenticated
// caller holds one of the given roles. Membership is a flat set check:
// there is no hierarchy, so admin does not imply editor and every endpoint
// lists exactly the roles it admits. An anonymous request is rejected with
// 401 before any role comparison; a resolved caller outside the allow-list
// gets 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			if !allowed[u.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			return next(c)
		}
	}
}
