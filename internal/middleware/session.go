package middleware // middleware provides reusable HTTP middleware for the API

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/utils"
)

// userKey is the echo.Context key under which the resolved identity
// snapshot is stored.
const userKey = "user"

// SessionResolver looks up the owner of a session by token hash. The
// session repository satisfies this; tests substitute fakes.
type SessionResolver interface {
	Resolve(ctx context.Context, tokenHash string) (model.SessionUser, error)
}

// SessionAuth returns middleware that resolves the caller's identity from
// the session cookie. A request without the cookie passes through as
// anonymous without touching the session store. A cookie that fails to
// resolve (unknown token, expired session, blocked owner) also passes
// through as anonymous: the caller cannot distinguish the cases, only the
// server log records which occurred. This middleware never rejects a
// request; gating is RequireAuth's job.
func SessionAuth(cookieName, secret string, sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			hash := utils.HashSessionToken(secret, cookie.Value)
			user, err := sessions.Resolve(ctx, hash)
			if err != nil {
				if err != sql.ErrNoRows {
					log.Printf("session: resolve failed: %v", err)
				}
				return next(c)
			}
			c.Set(userKey, user)
			return next(c)
		}
	}
}

// RequireAuth returns middleware that rejects anonymous requests with a
// generic 401. It must run after SessionAuth.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			return next(c)
		}
	}
}

// CurrentUser extracts the resolved identity snapshot from the context.
// The boolean is false for anonymous requests.
func CurrentUser(c echo.Context) (model.SessionUser, bool) {
	u, ok := c.Get(userKey).(model.SessionUser)
	return u, ok
}

// SetCurrentUser injects an identity snapshot into the context. Exposed
// for handler tests.
func SetCurrentUser(c echo.Context, u model.SessionUser) { c.Set(userKey, u) }
