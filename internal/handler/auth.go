package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/config"
	"github.com/keshetlaw/keshet-cms/internal/middleware"
	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/repository"
	"github.com/keshetlaw/keshet-cms/internal/utils"
)

// UserStore is the slice of the user repository the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string, role model.Role) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// SessionStore is the slice of the session repository the auth endpoints
// need.
type SessionStore interface {
	Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time, meta model.SessionMeta) error
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

// AuthHandler bundles dependencies for session auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
}

func NewAuthHandler(cfg config.Config, u UserStore, s SessionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials, issues a session, and sets the session
// cookie. Unknown email and wrong password produce the same 401 so the
// endpoint cannot be used to enumerate accounts; a blocked account with a
// correct password gets 403 and no session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = normalizeEmail(req.Email)
	if !validEmail(req.Email) || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.Status != model.StatusActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account is blocked"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	meta := model.SessionMeta{UserAgent: c.Request().UserAgent(), IP: c.RealIP()}
	if err := h.Sessions.Create(ctx, u.ID, utils.HashSessionToken(h.Cfg.SessionSecret, tok.Raw), tok.Exp, meta); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
	}

	h.setSessionCookie(c, tok.Raw)
	log.Printf("auth: user logged in: %s", u.Email)
	return c.JSON(http.StatusOK, echo.Map{"user": u.Snapshot()})
}

// Logout revokes the session named by the cookie, if any, and clears the
// cookie. It is idempotent: a missing, unknown, or expired session still
// yields 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.Cfg.CookieName); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		hash := utils.HashSessionToken(h.Cfg.SessionSecret, cookie.Value)
		if err := h.Sessions.DeleteByHash(ctx, hash); err != nil {
			// the cookie is still cleared; the session will age out via TTL
			log.Printf("auth: logout delete failed: %v", err)
		}
	}
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated caller's identity snapshot. The route is
// wrapped by RequireAuth, so the snapshot is always present here.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// Register creates a regular account (role user). Registration does not
// log the account in; the client follows up with Login.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = normalizeEmail(req.Email)
	switch {
	case !validName(req.Name):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be 2-100 characters"})
	case !validEmail(req.Email):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	case !validPassword(req.Password):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, hash, model.RoleUser)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"userId": uid})
}

// setSessionCookie hands the raw token to the client. HttpOnly keeps it
// away from scripts; SameSite=Lax blocks cross-site POSTs from carrying
// it; Secure is set outside dev so the token never crosses plain HTTP in
// production.
func (h *AuthHandler) setSessionCookie(c echo.Context, raw string) {
	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    raw,
		Path:     "/",
		MaxAge:   h.Cfg.SessionTTLDays * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
}
