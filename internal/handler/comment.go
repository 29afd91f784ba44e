package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/middleware"
	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/repository"
)

// CommentHandler covers public comment submission and staff moderation.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Posts    *repository.PostRepo
}

func NewCommentHandler(com *repository.CommentRepo, p *repository.PostRepo) *CommentHandler {
	return &CommentHandler{Comments: com, Posts: p}
}

type commentReq struct {
	PostID  uint64 `json:"postId"`
	Content string `json:"content"`
}

// Create accepts a comment on a published post. Anonymous visitors may
// comment; signed-in users get their account attached. All comments enter
// moderation as pending.
func (h *CommentHandler) Create(c echo.Context) error {
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	postID := req.PostID
	if postID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "postId is required"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" || len(content) > 2000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment must be 1-2000 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if post.Status != model.PostPublished {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	if post.CommentsLocked {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "comments are closed for this post"})
	}

	var userID *uint64
	if me, ok := middleware.CurrentUser(c); ok {
		userID = &me.ID
	}
	id, err := h.Comments.Create(ctx, postID, userID, content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"commentId": id, "message": "comment awaiting moderation"})
}

// ListByStatus is the moderation queue, pending by default.
func (h *CommentHandler) ListByStatus(c echo.Context) error {
	status := model.CommentPending
	if s := c.QueryParam("status"); s != "" {
		parsed, ok := model.ParseCommentStatus(s)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending, approved or rejected"})
		}
		status = parsed
	}
	limit, offset := paging(c, 50, 200)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": toCommentResps(comments)})
}

type moderateReq struct {
	Status        string `json:"status"`
	IsLawyerReply bool   `json:"isLawyerReply"`
}

// Moderate approves or rejects a comment, optionally marking it as an
// official lawyer reply.
func (h *CommentHandler) Moderate(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req moderateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, ok := model.ParseCommentStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending, approved or rejected"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Comments.Moderate(ctx, id, status, req.IsLawyerReply); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "comment updated"})
}

func (h *CommentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Comments.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "comment deleted"})
}

func toCommentResps(comments []model.Comment) []model.Comment {
	if comments == nil {
		return []model.Comment{}
	}
	return comments
}
