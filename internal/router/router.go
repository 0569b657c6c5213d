package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hierarchy-api/internal/config"
	"hierarchy-api/internal/handler"
	"hierarchy-api/internal/middleware"
)

type Handlers struct {
	Hierarchy *handler.HierarchyHandler
	Template  *handler.TemplateHandler
	Schema    *handler.SchemaHandler
	Cache     *handler.CacheHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.QueryRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(authMiddleware.RequireAuth)

		api.Post("/hierarchy", h.Hierarchy.Build)
		api.Post("/hierarchy/assemble", h.Hierarchy.Assemble)
		api.Get("/metadata/{template}", h.Template.Get)
		api.Get("/types", h.Schema.Types)
		api.Get("/types/{type}/fields", h.Schema.Fields)
		api.With(authMiddleware.RequireRoles("admin")).Post("/cache/flush", h.Cache.Flush)
	})

	return r
}
