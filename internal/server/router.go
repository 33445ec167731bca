package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health         HealthService
	API            *APIHandlers
	AllowedOrigins []string
}

// NewRouter wires the HTTP routes exposed by the API.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	api := deps.API

	r.Get("/", api.handleWelcome)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := http.StatusOK
		payload := map[string]any{"status": "ok"}
		if deps.Health != nil {
			if err := deps.Health.Probe(req.Context()); err != nil {
				logger.Error("health probe failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}
		respondJSON(w, status, payload)
	})

	r.Route("/entrepot", func(r chi.Router) {
		r.Get("/", api.list(api.entrepot))
		r.Get("/{nom}", api.get(api.entrepot))
		// The write side of /entrepot persists Produit nodes; deployed
		// clients depend on the produit response shape.
		r.Post("/", api.create(api.produit))
		r.Put("/{nom}", api.update(api.produit))
	})

	r.Route("/fournisseurs", func(r chi.Router) {
		r.Get("/", api.list(api.fournisseur))
		r.Get("/{nom}", api.get(api.fournisseur))
		r.Post("/", api.create(api.fournisseur))
		r.Put("/{nom}", api.update(api.fournisseur))
		r.Delete("/{nom}", api.remove(api.fournisseur))
		r.Get("/{nom}/relations", api.relations(api.fournisseur))
	})

	r.Route("/produits", func(r chi.Router) {
		r.Get("/", api.list(api.produit))
		r.Get("/{nom}", api.get(api.produit))
	})

	r.Get("/graph", api.handleGraph)

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
