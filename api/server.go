/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers;
  all rules live in the promotion and timeline packages.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the admin frontend

ROUTE GROUPS:
  /api/faculty/*       Roster and appointment-history data
  /api/promotions/*    Candidate reports and statistics
  /api/timeline        Working-period ledger per person
  /api/exceptions/*    Manual exception records
  /api/special-cases/* Manual follow-up records

SECURITY NOTE:
  No authentication middleware. The service runs inside the personnel
  office network.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Roster and appointment history
		r.Route("/faculty", func(r chi.Router) {
			r.Get("/", h.ListFaculty)
			r.Post("/", h.ReplaceFaculty)
			r.Get("/appointments", h.GetAppointments)
			r.Post("/appointments", h.ReplaceAppointments)
		})

		// Promotion reports
		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", h.ListCandidates)
			r.Get("/statistics", h.GetStatistics)
			r.Get("/info", h.GetPromotionInfo)
		})

		// Working-period ledger
		r.Post("/timeline", h.BuildTimeline)

		// Exception records
		r.Route("/exceptions", func(r chi.Router) {
			r.Get("/", h.ListExceptions)
			r.Post("/", h.CreateException)
			r.Put("/{id}", h.UpdateException)
			r.Delete("/{id}", h.DeleteException)
		})

		// Manual follow-up records
		r.Route("/special-cases", func(r chi.Router) {
			r.Get("/", h.ListSpecialCases)
			r.Post("/", h.CreateSpecialCase)
			r.Delete("/{id}", h.DeleteSpecialCase)
		})
	})

	return r
}
