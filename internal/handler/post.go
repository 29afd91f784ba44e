package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/middleware"
	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/repository"
	"github.com/keshetlaw/keshet-cms/internal/utils"
)

// PostHandler serves both the public article pages and the editorial CRUD.
type PostHandler struct {
	Posts      *repository.PostRepo
	Categories *repository.CategoryRepo
	Comments   *repository.CommentRepo
}

func NewPostHandler(p *repository.PostRepo, cat *repository.CategoryRepo, com *repository.CommentRepo) *PostHandler {
	return &PostHandler{Posts: p, Categories: cat, Comments: com}
}

type postReq struct {
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Summary        string   `json:"summary"`
	Content        string   `json:"content"`
	WhatWeLearned  string   `json:"whatWeLearned"`
	AuthorLawyerID *uint64  `json:"authorLawyerId"`
	Status         string   `json:"status"`
	CommentsLocked bool     `json:"commentsLocked"`
	CategoryIDs    []uint64 `json:"categoryIds"`
}

type postResp struct {
	ID             uint64           `json:"id"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	Summary        string           `json:"summary"`
	Content        string           `json:"content,omitempty"`
	WhatWeLearned  string           `json:"whatWeLearned,omitempty"`
	AuthorUserID   uint64           `json:"authorUserId"`
	AuthorLawyerID *uint64          `json:"authorLawyerId,omitempty"`
	Status         model.PostStatus `json:"status"`
	CommentsLocked bool             `json:"commentsLocked"`
	Views          uint64           `json:"views"`
	CategoryIDs    []uint64         `json:"categoryIds"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func toPostResp(p model.Post, withBody bool) postResp {
	out := postResp{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Summary:        p.Summary,
		AuthorUserID:   p.AuthorUserID,
		AuthorLawyerID: p.AuthorLawyerID,
		Status:         p.Status,
		CommentsLocked: p.CommentsLocked,
		Views:          p.Views,
		CategoryIDs:    p.CategoryIDs,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if withBody {
		out.Content = p.Content
		out.WhatWeLearned = p.WhatWeLearned
	}
	if out.CategoryIDs == nil {
		out.CategoryIDs = []uint64{}
	}
	return out
}

func (req *postReq) validate() (model.PostStatus, string) {
	if strings.TrimSpace(req.Title) == "" {
		return "", "title is required"
	}
	if strings.TrimSpace(req.Content) == "" {
		return "", "content is required"
	}
	if req.Status == "" {
		return model.PostDraft, ""
	}
	status, ok := model.ParsePostStatus(req.Status)
	if !ok {
		return "", "status must be draft, pendingApproval or published"
	}
	return status, ""
}

// Create adds a post. Editors may only save drafts or submit for approval;
// publishing directly requires the admin role.
func (h *PostHandler) Create(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if status == model.PostPublished && me.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can publish"})
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := model.Post{
		Title:          strings.TrimSpace(req.Title),
		Slug:           slug,
		Summary:        strings.TrimSpace(req.Summary),
		Content:        req.Content,
		WhatWeLearned:  req.WhatWeLearned,
		AuthorUserID:   me.ID,
		AuthorLawyerID: req.AuthorLawyerID,
		Status:         status,
		CommentsLocked: req.CommentsLocked,
		CategoryIDs:    req.CategoryIDs,
	}
	id, err := h.Posts.Create(ctx, &p)
	if err != nil {
		if err == repository.ErrSlugExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug already in use"})
		}
		log.Printf("post create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"postId": id})
}

// Update rewrites a post. Editors can edit any non-published post but may
// not change its status to published.
func (h *PostHandler) Update(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if me.Role != model.RoleAdmin && status == model.PostPublished && existing.Status != model.PostPublished {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can publish"})
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = existing.Slug
	}

	p := model.Post{
		ID:             id,
		Title:          strings.TrimSpace(req.Title),
		Slug:           slug,
		Summary:        strings.TrimSpace(req.Summary),
		Content:        req.Content,
		WhatWeLearned:  req.WhatWeLearned,
		AuthorLawyerID: req.AuthorLawyerID,
		Status:         status,
		CommentsLocked: req.CommentsLocked,
		CategoryIDs:    req.CategoryIDs,
	}
	if err := h.Posts.Update(ctx, &p); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		case repository.ErrSlugExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug already in use"})
		}
		log.Printf("post update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post updated"})
}

// Delete removes a post together with its comments and category links.
func (h *PostHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}

// Get returns a single post for the editorial screens, any status.
func (h *PostHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"post": toPostResp(p, true)})
}

// ListAll returns posts of every status for the editorial screens.
func (h *PostHandler) ListAll(c echo.Context) error {
	limit, offset := paging(c, 20, 100)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.ListAll(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": summarize(posts)})
}

// ListPublished is the public article feed, optionally filtered by the
// slug of a category.
func (h *PostHandler) ListPublished(c echo.Context) error {
	limit, offset := paging(c, 20, 100)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var categoryID uint64
	if slug := c.QueryParam("category"); slug != "" {
		cat, err := h.Categories.GetBySlug(ctx, slug)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		categoryID = cat.ID
	}

	posts, err := h.Posts.ListPublished(ctx, categoryID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": summarize(posts)})
}

// GetBySlug is the public article page. It bumps the view counter in the
// background so a slow write never delays the response.
func (h *PostHandler) GetBySlug(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	go func(id uint64) {
		bg, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := h.Posts.IncrementViews(bg, id); err != nil {
			log.Printf("view counter for post %d: %v", id, err)
		}
	}(p.ID)

	comments, err := h.Comments.ListApprovedForPost(ctx, p.ID)
	if err != nil {
		log.Printf("comments for post %d: %v", p.ID, err)
		comments = nil
	}
	return c.JSON(http.StatusOK, echo.Map{
		"post":     toPostResp(p, true),
		"comments": toCommentResps(comments),
	})
}

// ListByCategorySlug returns published posts under a category, addressed
// by category slug.
func (h *PostHandler) ListByCategorySlug(c echo.Context) error {
	limit, offset := paging(c, 20, 100)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	posts, err := h.Posts.ListPublished(ctx, cat.ID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"category": cat, "posts": summarize(posts)})
}

// Search looks up published posts whose title or content matches the term.
func (h *PostHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	if len(term) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query must be at least 2 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.Search(ctx, term, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": summarize(posts)})
}

func summarize(posts []model.Post) []postResp {
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResp(p, false))
	}
	return out
}
