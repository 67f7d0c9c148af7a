package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the full HTTP surface: global middleware, public auth
// routes, and the token-protected API.
func NewRouter(events *EventHandler, auth *AuthHandler) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)                  // structured access log
	r.Use(Metrics)                 // prometheus request metrics
	r.Use(CORS)

	// Health & metrics
	r.Get("/health", HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", events.ListEvents)
			r.Post("/", events.CreateEvent)
			r.Get("/pending", events.PendingEvents)
			r.Get("/{id}", events.GetEvent)
			r.Put("/{id}", events.UpdateEvent)
			r.Post("/{id}/approve", events.ApproveEvent)
			r.Post("/{id}/register", events.Register)
			r.Delete("/{id}/register", events.Unregister)
			r.Get("/{id}/registrations", events.ListRegistrations)
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/", events.Me)
			r.Patch("/", events.UpdateProfile)
			r.Get("/registrations", events.MyRegistrations)
			r.Get("/events", events.MyEvents)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", events.ListUsers)
			r.Delete("/{id}", events.DeleteUser)
		})
	})

	return r
}
