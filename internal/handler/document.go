package handler

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/config"
	"github.com/keshetlaw/keshet-cms/internal/middleware"
	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/repository"
	"github.com/keshetlaw/keshet-cms/internal/utils"
)

// maxUploadBytes caps document uploads at 20 MiB, matching the blob
// column size.
const maxUploadBytes = 20 << 20

// DocumentHandler stores uploaded files and hands out short-lived signed
// download links so the file bytes are never behind a session cookie
// alone.
type DocumentHandler struct {
	Cfg       config.Config
	Documents *repository.DocumentRepo
}

func NewDocumentHandler(cfg config.Config, r *repository.DocumentRepo) *DocumentHandler {
	return &DocumentHandler{Cfg: cfg, Documents: r}
}

// Upload accepts a multipart form with a "file" part plus title,
// categoryId and isPublic fields.
func (h *DocumentHandler) Upload(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 20MB limit"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read file"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read file"})
	}
	if len(data) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 20MB limit"})
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = fh.Filename
	}
	var categoryID *uint64
	if v := c.FormValue("categoryId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid categoryId"})
		}
		categoryID = &id
	}
	isPublic := c.FormValue("isPublic") == "true"

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	d := model.Document{
		Title:            title,
		CategoryID:       categoryID,
		OriginalFilename: fh.Filename,
		MimeType:         mime,
		FileSize:         int64(len(data)),
		FileData:         data,
		UploadedBy:       me.ID,
		IsPublic:         isPublic,
	}
	id, err := h.Documents.Create(ctx, &d)
	if err != nil {
		log.Printf("document upload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"documentId": id})
}

type documentUpdateReq struct {
	Title      string  `json:"title"`
	CategoryID *uint64 `json:"categoryId"`
	IsPublic   bool    `json:"isPublic"`
}

func (h *DocumentHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req documentUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Documents.UpdateMeta(ctx, id, title, req.CategoryID, req.IsPublic); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "document updated"})
}

func (h *DocumentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Documents.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "document deleted"})
}

// ListPublic returns metadata for public documents only.
func (h *DocumentHandler) ListPublic(c echo.Context) error {
	return h.list(c, true)
}

// ListAll includes private documents for the admin screens.
func (h *DocumentHandler) ListAll(c echo.Context) error {
	return h.list(c, false)
}

func (h *DocumentHandler) list(c echo.Context, publicOnly bool) error {
	limit, offset := paging(c, 50, 200)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	docs, err := h.Documents.List(ctx, publicOnly, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": docs})
}

// Link mints a short-lived signed URL for a document. The route guard
// restricts minting to staff; the link itself then works for anyone who
// holds it until it expires.
func (h *DocumentHandler) Link(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Documents.GetMeta(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	token, err := utils.NewDownloadToken(h.Cfg.DownloadSecret, id, h.Cfg.DownloadTokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "link failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"url":       fmt.Sprintf("/v1/documents/%d/download?token=%s", id, token),
		"expiresIn": h.Cfg.DownloadTokenTTL * 60,
	})
}

// Download streams the file bytes when the signed token checks out. This
// is the only endpoint that loads the blob column.
func (h *DocumentHandler) Download(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing download token"})
	}
	if err := utils.VerifyDownloadToken(h.Cfg.DownloadSecret, token, id); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired download token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	d, err := h.Documents.GetWithData(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, d.OriginalFilename))
	return c.Blob(http.StatusOK, d.MimeType, d.FileData)
}
