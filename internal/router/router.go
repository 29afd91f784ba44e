// Package router wires handlers, guards and caching onto the Echo
// instance. Route groups follow the access model: public reads, session
// endpoints, editor surfaces and admin-only management.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/keshetlaw/keshet-cms/internal/config"
	"github.com/keshetlaw/keshet-cms/internal/handler"
	"github.com/keshetlaw/keshet-cms/internal/middleware"
	"github.com/keshetlaw/keshet-cms/internal/model"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Bootstrap  *handler.BootstrapHandler
	AdminUsers *handler.AdminUserHandler
	Posts      *handler.PostHandler
	Categories *handler.CategoryHandler
	Lawyers    *handler.LawyerHandler
	Comments   *handler.CommentHandler
	Leads      *handler.LeadHandler
	Documents  *handler.DocumentHandler
	Settings   *handler.SettingsHandler
}

// Register mounts all routes. Session resolution runs globally so any
// handler can ask who is calling; enforcement happens per group.
func Register(e *echo.Echo, cfg config.Config, h Handlers, sessions middleware.SessionResolver, rdb *redis.Client) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.SessionAuth(cfg.CookieName, cfg.SessionSecret, sessions))

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/healthz", h.Health.Health)

	// session endpoints
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register, rateLimit)
	auth.POST("/login", h.Auth.Login, rateLimit)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)

	// secret-gated and deliberately outside the admin group: there is no
	// session to present before the first admin exists
	e.POST("/v1/admin/bootstrap", h.Bootstrap.Bootstrap, rateLimit)

	// public site
	pub := e.Group("/v1")
	pub.GET("/posts", h.Posts.ListPublished, cache)
	pub.GET("/posts/:slug", h.Posts.GetBySlug, cache)
	pub.GET("/categories", h.Categories.List, cache)
	pub.GET("/categories/:slug/posts", h.Posts.ListByCategorySlug, cache)
	pub.GET("/lawyers", h.Lawyers.ListPublic, cache)
	pub.GET("/lawyers/:slug", h.Lawyers.GetBySlug, cache)
	pub.GET("/documents/public", h.Documents.ListPublic, cache)
	pub.GET("/documents/:id/download", h.Documents.Download)
	pub.POST("/leads", h.Leads.Create, rateLimit)
	pub.POST("/comments", h.Comments.Create, rateLimit)
	pub.GET("/search", h.Posts.Search, rateLimit)
	pub.GET("/settings", h.Settings.Get, cache)

	// editorial surface: editors and admins
	staff := e.Group("/v1/admin", middleware.RequireAuth(),
		middleware.RequireRole(model.RoleAdmin, model.RoleEditor))
	staff.GET("/posts", h.Posts.ListAll)
	staff.GET("/posts/:id", h.Posts.Get)
	staff.POST("/posts", h.Posts.Create)
	staff.PUT("/posts/:id", h.Posts.Update)
	staff.DELETE("/posts/:id", h.Posts.Delete)
	staff.POST("/categories", h.Categories.Create)
	staff.GET("/categories/:id", h.Categories.Get)
	staff.PUT("/categories/:id", h.Categories.Update)
	staff.DELETE("/categories/:id", h.Categories.Delete)
	staff.POST("/lawyers", h.Lawyers.Create)
	staff.GET("/lawyers", h.Lawyers.ListAll)
	staff.PUT("/lawyers/:id", h.Lawyers.Update)
	staff.DELETE("/lawyers/:id", h.Lawyers.Delete)
	staff.GET("/comments", h.Comments.ListByStatus)
	staff.PUT("/comments/:id", h.Comments.Moderate)
	staff.DELETE("/comments/:id", h.Comments.Delete)
	staff.POST("/documents", h.Documents.Upload)
	staff.GET("/documents", h.Documents.ListAll)
	staff.GET("/documents/:id/link", h.Documents.Link)
	staff.PUT("/documents/:id", h.Documents.Update)
	staff.DELETE("/documents/:id", h.Documents.Delete)

	// admin only
	admin := e.Group("/v1/admin", middleware.RequireAuth(),
		middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.AdminUsers.List)
	admin.PUT("/users/:id/role", h.AdminUsers.UpdateRole)
	admin.PUT("/users/:id/status", h.AdminUsers.UpdateStatus)
	admin.DELETE("/users/:id/sessions", h.AdminUsers.RevokeSessions)
	admin.GET("/leads", h.Leads.List)
	admin.GET("/leads/:id", h.Leads.Get)
	admin.PUT("/leads/:id", h.Leads.Update)
	admin.DELETE("/leads/:id", h.Leads.Delete)
	admin.PUT("/settings", h.Settings.Update)
}
