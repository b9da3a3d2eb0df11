// Package http assembles the REST API: routing, middleware chain, and the
// server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/adsforge/adsforge/internal/interfaces/http/handlers"
	"github.com/adsforge/adsforge/internal/interfaces/http/middleware"
)

// RouterConfig collects everything the router mounts.  Optional entries may
// be nil and their routes or middleware are skipped.
type RouterConfig struct {
	Auth         *middleware.AuthMiddleware
	Logging      *middleware.LoggingMiddleware
	RateLimit    *middleware.RateLimitMiddleware
	CORS         middleware.CORSConfig
	CORSDisabled bool

	AuthHandler        *handlers.AuthHandler
	DocumentHandler    *handlers.DocumentHandler
	ApplicationHandler *handlers.ApplicationHandler
	ADSHandler         *handlers.ADSHandler
	JobHandler         *handlers.JobHandler
	DeadlineHandler    *handlers.DeadlineHandler
	HealthHandler      *handlers.HealthHandler

	MetricsHandler http.Handler
}

// NewRouter builds the chi router with the full middleware chain and all
// registered API routes.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if !cfg.CORSDisabled {
		r.Use(middleware.CORS(cfg.CORS))
	}
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Handler)
	}

	registerSystemRoutes(r, cfg)

	r.Route("/api/v1", func(api chi.Router) {
		registerAuthRoutes(api, cfg)

		// Everything below requires a valid access token.
		api.Group(func(authed chi.Router) {
			authed.Use(cfg.Auth.Handler)
			if cfg.RateLimit != nil {
				authed.Use(cfg.RateLimit.Handler)
			}
			if cfg.AuthHandler != nil {
				authed.Post("/auth/logout", cfg.AuthHandler.Logout)
			}
			registerDocumentRoutes(authed, cfg)
			registerApplicationRoutes(authed, cfg)
			registerJobRoutes(authed, cfg)
			registerDeadlineRoutes(authed, cfg)
		})
	})

	return r
}

func registerSystemRoutes(r chi.Router, cfg RouterConfig) {
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
}

func registerAuthRoutes(r chi.Router, cfg RouterConfig) {
	if cfg.AuthHandler == nil {
		return
	}
	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", cfg.AuthHandler.Register)
		auth.Post("/login", cfg.AuthHandler.Login)
		auth.Post("/refresh", cfg.AuthHandler.Refresh)
	})
}

func registerDocumentRoutes(r chi.Router, cfg RouterConfig) {
	if cfg.DocumentHandler == nil {
		return
	}
	r.Route("/documents", func(docs chi.Router) {
		docs.Post("/", cfg.DocumentHandler.Upload)
		docs.Get("/", cfg.DocumentHandler.List)
		docs.Route("/{documentID}", func(doc chi.Router) {
			doc.Get("/", cfg.DocumentHandler.Get)
			doc.Delete("/", cfg.DocumentHandler.Delete)
			doc.Get("/download", cfg.DocumentHandler.DownloadURL)
			if cfg.ApplicationHandler != nil {
				doc.Get("/application", cfg.ApplicationHandler.GetByDocument)
			}
		})
	})
}

func registerApplicationRoutes(r chi.Router, cfg RouterConfig) {
	if cfg.ApplicationHandler == nil {
		return
	}
	r.Route("/applications", func(apps chi.Router) {
		apps.Get("/", cfg.ApplicationHandler.List)
		apps.Route("/{applicationID}", func(app chi.Router) {
			app.Get("/", cfg.ApplicationHandler.Get)
			app.Put("/", cfg.ApplicationHandler.Update)
			app.Delete("/", cfg.ApplicationHandler.Delete)
			app.Get("/ads", cfg.ApplicationHandler.ADSDownload)
			app.Get("/report", cfg.ApplicationHandler.Report)
			if cfg.ADSHandler != nil {
				app.Post("/ads", cfg.ADSHandler.Generate)
			}
		})
	})
}

func registerJobRoutes(r chi.Router, cfg RouterConfig) {
	if cfg.JobHandler == nil {
		return
	}
	r.Route("/jobs", func(jobs chi.Router) {
		jobs.Get("/", cfg.JobHandler.List)
		jobs.Get("/{jobID}", cfg.JobHandler.Get)
	})
}

func registerDeadlineRoutes(r chi.Router, cfg RouterConfig) {
	if cfg.DeadlineHandler == nil {
		return
	}
	r.Get("/deadlines/calculate", cfg.DeadlineHandler.Calculate)
}
