package handler

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/config"
	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/repository"
	"github.com/keshetlaw/keshet-cms/internal/utils"
)

// BootstrapStore is the slice of the user repository the bootstrap
// endpoint needs.
type BootstrapStore interface {
	HasAdmin(ctx context.Context) (bool, error)
	CreateFirstAdmin(ctx context.Context, name, email, passwordHash string) (uint64, error)
}

// BootstrapHandler implements the one-time, secret-gated creation of the
// first administrator. The endpoint needs no session, so it stays safe on
// a public network only through its secret header and its exactly-once
// constraint.
type BootstrapHandler struct {
	Cfg   config.Config
	Users BootstrapStore
}

func NewBootstrapHandler(cfg config.Config, u BootstrapStore) *BootstrapHandler {
	return &BootstrapHandler{Cfg: cfg, Users: u}
}

type bootstrapReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Bootstrap validates the x-bootstrap-secret header and creates the first
// admin. Failure modes are deliberately distinguishable so an operator can
// diagnose a deployment: 500 secret unset, 401 wrong secret, 403 admin
// already exists, 400 validation or duplicate email.
func (h *BootstrapHandler) Bootstrap(c echo.Context) error {
	if h.Cfg.BootstrapSecret == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bootstrap secret not configured"})
	}
	secret := c.Request().Header.Get("x-bootstrap-secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.Cfg.BootstrapSecret)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid bootstrap secret"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Users.HasAdmin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if exists {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin already exists, bootstrap is disabled"})
	}

	var req bootstrapReq
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

	uid, err := h.Users.CreateFirstAdmin(ctx, req.Name, req.Email, hash)
	switch err {
	case nil:
	case repository.ErrAlreadyBootstrapped:
		// lost the race between the HasAdmin check and the insert
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin already exists, bootstrap is disabled"})
	case repository.ErrEmailExists:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create admin failed"})
	}

	log.Printf("bootstrap: first admin created: %s", req.Email)
	return c.JSON(http.StatusOK, echo.Map{"user": model.SessionUser{
		ID: uid, Name: req.Name, Email: req.Email, Role: model.RoleAdmin, Status: model.StatusActive,
	}})
}
