package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/keshetlaw/keshet-cms/internal/config"
	"github.com/keshetlaw/keshet-cms/internal/database"
	"github.com/keshetlaw/keshet-cms/internal/handler"
	"github.com/keshetlaw/keshet-cms/internal/queue"
	"github.com/keshetlaw/keshet-cms/internal/repository"
	"github.com/keshetlaw/keshet-cms/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	posts := repository.NewPostRepo(db)
	categories := repository.NewCategoryRepo(db)
	lawyers := repository.NewLawyerRepo(db)
	comments := repository.NewCommentRepo(db)
	leads := repository.NewLeadRepo(db)
	documents := repository.NewDocumentRepo(db)
	settings := repository.NewSettingsRepo(db)

	h := router.Handlers{
		Health:     handler.NewHealthHandler(db),
		Auth:       handler.NewAuthHandler(cfg, users, sessions),
		Bootstrap:  handler.NewBootstrapHandler(cfg, users),
		AdminUsers: handler.NewAdminUserHandler(users, sessions),
		Posts:      handler.NewPostHandler(posts, categories, comments),
		Categories: handler.NewCategoryHandler(categories),
		Lawyers:    handler.NewLawyerHandler(lawyers),
		Comments:   handler.NewCommentHandler(comments, posts),
		Leads:      handler.NewLeadHandler(leads),
		Documents:  handler.NewDocumentHandler(cfg, documents),
		Settings:   handler.NewSettingsHandler(settings),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, h, sessions, rdb)

	go func() {
		if err := queue.StartLeadConsumer(); err != nil {
			log.Printf("lead consumer: %v", err)
		}
	}()
	go sweepSessions(sessions)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// sweepSessions deletes expired session rows periodically. Expired rows
// are already unusable; the sweep only keeps the table from growing.
func sweepSessions(sessions *repository.SessionRepo) {
	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := sessions.DeleteExpired(ctx)
		cancel()
		if err != nil {
			log.Printf("session sweep: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("session sweep: removed %d expired sessions", n)
		}
	}
}
