package router

import (
	"faucetdrop-bot/internal/handler"
	"faucetdrop-bot/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler        *handler.Handler
	WebhookHandler *handler.WebhookHandler
	StatsHandler   *handler.StatsHandler
	ExportHandler  *handler.ExportHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if cfg.Handler != nil {
		r.Get("/", cfg.Handler.Info)
		r.Get("/health", cfg.Handler.Health)
	}

	// Webhook ingress
	if cfg.WebhookHandler != nil {
		r.Post("/", cfg.WebhookHandler.Receive)
	}

	if cfg.StatsHandler != nil {
		r.Get("/stats", cfg.StatsHandler.GetStats)
	}

	// Admin endpoints (shared-secret gated inside the handler)
	if cfg.ExportHandler != nil {
		r.Get("/emails", cfg.ExportHandler.DownloadCSV)
		r.Delete("/emails", cfg.ExportHandler.ClearHistory)
	}

	return r
}
