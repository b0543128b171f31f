package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scootcare/support-platform/internal/config"
	"github.com/scootcare/support-platform/internal/middleware"
	"github.com/scootcare/support-platform/pkg/logger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Knowledge *KnowledgeHandler
	Sessions  *SessionHandler
	Tickets   *TicketHandler
	Orders    *OrderHandler
	Uploads   *UploadHandler
	Stream    *StreamHandler
	Health    *HealthHandler
}

// NewRouter assembles the API router.
func NewRouter(cfg *config.Config, log *logger.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Probes and metrics sit outside auth and rate limiting.
	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Uploaded attachments.
	fileServer := http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/files/*", fileServer.ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/auth/otp", h.Auth.RequestOTP)
		r.Post("/auth/verify", h.Auth.Verify)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Get("/knowledge", h.Knowledge.List)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/knowledge", h.Knowledge.Add)
				r.Get("/knowledge/{id}", h.Knowledge.Get)
				r.Patch("/knowledge/{id}", h.Knowledge.Update)
				r.Delete("/knowledge/{id}", h.Knowledge.Remove)
			})

			r.Post("/sessions", h.Sessions.Create)
			r.Get("/sessions/{id}", h.Sessions.Get)
			r.Post("/sessions/{id}/messages", h.Sessions.SendMessage)
			r.Post("/sessions/{id}/escalate", h.Sessions.Escalate)
			r.Post("/sessions/{id}/close", h.Sessions.Close)
			r.Get("/sessions/{id}/stream", h.Stream.Stream)

			r.Get("/tickets", h.Tickets.List)
			r.Get("/tickets/{id}", h.Tickets.Get)
			r.Post("/tickets/{id}/messages", h.Tickets.SendMessage)
			r.With(middleware.RequireAdmin).Patch("/tickets/{id}", h.Tickets.UpdateStatus)

			r.Get("/orders", h.Orders.List)

			r.Post("/uploads", h.Uploads.Upload)
		})
	})

	return r
}
