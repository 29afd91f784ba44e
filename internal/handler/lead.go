package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/queue"
	"github.com/keshetlaw/keshet-cms/internal/repository"
	queuepublisher "github.com/keshetlaw/keshet-cms/internal/service"
)

// LeadHandler receives contact-form submissions and lets admins work the
// resulting pipeline.
type LeadHandler struct {
	Leads *repository.LeadRepo
}

func NewLeadHandler(r *repository.LeadRepo) *LeadHandler {
	return &LeadHandler{Leads: r}
}

type leadReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Topic   string `json:"topic"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Create is the public contact endpoint. The saved lead is also published
// to the message queue so the intake worker can notify the office; a queue
// failure never fails the request.
func (h *LeadHandler) Create(c echo.Context) error {
	var req leadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if !validName(name) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be 2-100 characters"})
	}
	email := normalizeEmail(req.Email)
	if !validEmail(email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	message := strings.TrimSpace(req.Message)
	if message == "" || len(message) > 5000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message must be 1-5000 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l := model.Lead{
		Name:    name,
		Email:   email,
		Phone:   strings.TrimSpace(req.Phone),
		Topic:   strings.TrimSpace(req.Topic),
		Message: message,
		Source:  strings.TrimSpace(req.Source),
	}
	id, err := h.Leads.Create(ctx, &l)
	if err != nil {
		log.Printf("lead create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queuepublisher.PublishLeadCreated(bg, newLeadEvent(id, l)); err != nil {
			log.Printf("lead %d: queue publish failed: %v", id, err)
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{"leadId": id, "message": "we will get back to you shortly"})
}

// newLeadEvent builds the queue payload for a stored lead. The timestamp
// travels as RFC3339 text so consumers in any language can parse it.
func newLeadEvent(id uint64, l model.Lead) queue.LeadCreatedEvent {
	return queue.LeadCreatedEvent{
		LeadID:    id,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Topic:     l.Topic,
		Source:    l.Source,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *LeadHandler) List(c echo.Context) error {
	var status model.LeadStatus
	if s := c.QueryParam("status"); s != "" {
		parsed, ok := model.ParseLeadStatus(s)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be new, contacted, converted or closed"})
		}
		status = parsed
	}
	limit, offset := paging(c, 50, 200)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	leads, err := h.Leads.List(ctx, status, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	return c.JSON(http.StatusOK, echo.Map{"leads": leads})
}

func (h *LeadHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Leads.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lead": l})
}

type leadUpdateReq struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *LeadHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req leadUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, ok := model.ParseLeadStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be new, contacted, converted or closed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Leads.Update(ctx, id, status, req.Notes); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "lead updated"})
}

func (h *LeadHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Leads.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "lead deleted"})
}
