package handlers

import (
	"net/http"

	"moment-admin-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router groups the handlers served by the dashboard API
type Router struct {
	Users      *UserHandler
	Metrics    *MetricsHandler
	BetaGroups *BetaGroupHandler
	Admin      *AdminHandler
	Health     *HealthHandler

	// RequireToken guards the data routes with the admin token middleware
	RequireToken bool
	Tokens       middleware.TokenValidator
}

// Handler builds the chi router
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/verify", rt.Admin.Verify)

		r.Group(func(r chi.Router) {
			if rt.RequireToken {
				r.Use(middleware.AdminAuth(rt.Tokens))
			}
			r.Get("/users", rt.Users.ListUsers)
			r.Get("/users/{userId}", rt.Users.GetUserDetail)
			r.Get("/metrics", rt.Metrics.GetMetrics)
			r.Get("/beta-groups", rt.BetaGroups.ListGroups)
			r.Get("/beta-groups/{groupId}", rt.BetaGroups.GetGroup)
		})
	})

	if rt.Health != nil {
		r.Get("/healthz", rt.Health.Health)
	}

	return r
}
