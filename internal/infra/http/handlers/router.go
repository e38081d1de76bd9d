package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xavierca1/ligue-prospect/internal/infra/http/middleware"
)

type RouterConfig struct {
	Resolver      middleware.IdentityResolver
	ImportLimiter *middleware.PrincipalLimiter
	CORSOrigins   []string

	Health  *HealthHandler
	Session *SessionHandler
	Leads   *LeadHandler
	Imports *ImportHandler
	Scripts *ScriptHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePrincipal(cfg.Resolver))

		r.Post("/session/migrate", cfg.Session.MigrateOrphans)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", cfg.Leads.List)
			r.Post("/", cfg.Leads.Create)
			r.Get("/territories", cfg.Leads.Territories)
			r.Get("/stats", cfg.Leads.Stats)
			r.Get("/export", cfg.Leads.Export)
			r.With(limit(cfg.ImportLimiter)).Post("/import", cfg.Imports.Handle)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.Leads.Get)
				r.Patch("/", cfg.Leads.Update)
				r.Delete("/", cfg.Leads.Delete)
				r.Put("/stage", cfg.Leads.ChangeStage)
				r.Post("/outreach", cfg.Leads.SendOutreach)
			})
		})

		r.Route("/scripts", func(r chi.Router) {
			r.Get("/", cfg.Scripts.List)
			r.Post("/", cfg.Scripts.Create)
			r.Post("/defaults", cfg.Scripts.SeedDefaults)
			r.Patch("/{id}", cfg.Scripts.Update)
			r.Delete("/{id}", cfg.Scripts.Delete)
			r.Get("/{id}/render", cfg.Scripts.Render)
		})
	})

	return r
}

func limit(l *middleware.PrincipalLimiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Handler
}
