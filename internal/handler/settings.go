package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/repository"
)

// SettingsHandler reads and writes the single site-settings row.
type SettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(r *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{Settings: r}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": s})
}

type settingsReq struct {
	VideoURL  string `json:"videoUrl"`
	VideoURL2 string `json:"videoUrl2"`
}

func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Settings.Upsert(ctx, strings.TrimSpace(req.VideoURL), strings.TrimSpace(req.VideoURL2)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "settings updated"})
}
