package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/middleware"
	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/repository"
)

// AdminUserStore is the slice of the user repository the admin user
// management endpoints need.
type AdminUserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateRole(ctx context.Context, id uint64, role model.Role) error
	UpdateStatus(ctx context.Context, id uint64, status model.Status) error
}

// AdminUserHandler implements the admin-only user management endpoints.
type AdminUserHandler struct {
	Users    AdminUserStore
	Sessions SessionStore
}

func NewAdminUserHandler(u AdminUserStore, s SessionStore) *AdminUserHandler {
	return &AdminUserHandler{Users: u, Sessions: s}
}

// List returns every account, without password hashes.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]model.SessionUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Snapshot())
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type roleUpdateReq struct {
	Role string `json:"role"`
}

// UpdateRole changes an account's role. Admins cannot change their own
// role, which keeps the system from losing its last administrator by
// accident.
func (h *AdminUserHandler) UpdateRole(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if me, ok := middleware.CurrentUser(c); ok && me.ID == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change own role"})
	}
	var req roleUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin, editor or user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateRole(ctx, id, role); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role updated"})
}

type statusUpdateReq struct {
	Status string `json:"status"`
}

// UpdateStatus activates or blocks an account. Blocking revokes every
// session the user holds, as an explicit call rather than a database
// cascade, so the sign-out-everywhere is visible in this code path and in
// the logs.
func (h *AdminUserHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if me, ok := middleware.CurrentUser(c); ok && me.ID == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change own status"})
	}
	var req statusUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, ok := model.ParseStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or blocked"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateStatus(ctx, id, status); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if status == model.StatusBlocked {
		if err := h.Sessions.DeleteAllForUser(ctx, id); err != nil {
			log.Printf("admin: revoke sessions for blocked user %d failed: %v", id, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated"})
}

// RevokeSessions signs a user out everywhere without touching the account.
func (h *AdminUserHandler) RevokeSessions(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Sessions.DeleteAllForUser(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "sessions revoked"})
}
