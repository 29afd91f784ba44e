package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/repository"
	"github.com/keshetlaw/keshet-cms/internal/utils"
)

// LawyerHandler manages the public lawyer profiles.
type LawyerHandler struct {
	Lawyers *repository.LawyerRepo
}

func NewLawyerHandler(r *repository.LawyerRepo) *LawyerHandler {
	return &LawyerHandler{Lawyers: r}
}

type lawyerReq struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photoUrl"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	IsActive *bool  `json:"isActive"`
}

func (req *lawyerReq) toModel() (model.Lawyer, string) {
	name := strings.TrimSpace(req.Name)
	if !validName(name) {
		return model.Lawyer{}, "name must be 2-100 characters"
	}
	if req.Email != "" && !validEmail(normalizeEmail(req.Email)) {
		return model.Lawyer{}, "invalid email"
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return model.Lawyer{
		Name:     name,
		Slug:     slug,
		Title:    strings.TrimSpace(req.Title),
		Bio:      req.Bio,
		PhotoURL: strings.TrimSpace(req.PhotoURL),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    normalizeEmail(req.Email),
		LinkedIn: strings.TrimSpace(req.LinkedIn),
		IsActive: active,
	}, ""
}

func (h *LawyerHandler) Create(c echo.Context) error {
	var req lawyerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	l, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Lawyers.Create(ctx, &l)
	if err != nil {
		if err == repository.ErrSlugExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"lawyerId": id})
}

func (h *LawyerHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req lawyerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	l, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lawyers.Update(ctx, &l); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lawyer not found"})
		case repository.ErrSlugExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "lawyer updated"})
}

// Delete removes a profile; posts it authored stay up without an author
// profile.
func (h *LawyerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lawyers.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lawyer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "lawyer deleted"})
}

// ListPublic returns active profiles for the public team page.
func (h *LawyerHandler) ListPublic(c echo.Context) error {
	return h.list(c, true)
}

// ListAll includes inactive profiles for the admin screens.
func (h *LawyerHandler) ListAll(c echo.Context) error {
	return h.list(c, false)
}

func (h *LawyerHandler) list(c echo.Context, activeOnly bool) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lawyers, err := h.Lawyers.List(ctx, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lawyers": lawyers})
}

// GetBySlug is the public profile page. Inactive profiles 404.
func (h *LawyerHandler) GetBySlug(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Lawyers.GetActiveBySlug(ctx, c.Param("slug"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lawyer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lawyer": l})
}
