/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend (origins from config)

ROUTE GROUPS:
  /api/workers/*        Workers, settings, months, days, overrides
  /api/holidays/*       Official and custom holidays
  /api/scenarios/*      Demo scenarios (dev only, reset the database)
  /                     Index page listing the API

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/payroll/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultOrigins are used when no allowed origins are configured.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.ListWorkers)
			r.Post("/", h.CreateWorker)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetWorker)
				r.Get("/settings", h.GetSettings)
				r.Put("/settings", h.UpdateSettings)
				r.Get("/snapshots", h.ListSnapshots)

				// Month routes
				r.Route("/months/{month}", func(r chi.Router) {
					r.Get("/", h.GetMonth)
					r.Get("/payroll", h.GetPayroll)
					r.Get("/export", h.ExportMonth)
					r.Post("/close", h.CloseMonth)
				})

				// Day routes
				r.Put("/days/{date}", h.UpdateDay)
				r.Delete("/days/{date}", h.ClearDay)

				// Override routes
				r.Put("/overrides/{date}", h.SetOverride)
				r.Delete("/overrides/{date}", h.ResetOverrides)
				r.Delete("/overrides", h.ResetAllOverrides)
			})
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Shift Payroll</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Shift Payroll API</h1>
<ul>
<li><a href="/api/workers">/api/workers</a> - List workers</li>
<li><a href="/api/holidays">/api/holidays</a> - Holidays of the current year</li>
</ul>
</body>
</html>`))
	})

	return r
}
