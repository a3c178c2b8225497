package httpserver

import (
	"net/http"

	"chargesol/backend/services/registry-service/internal/http/handlers"
	"chargesol/backend/services/registry-service/internal/http/middleware"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Health        http.HandlerFunc
	Metrics       http.Handler
	Stations      http.HandlerFunc
	StationFeed   http.HandlerFunc
	Registrations *handlers.RegistrationHandler
	// Auth guards the registration endpoints.
	Auth func(http.Handler) http.Handler
}

// NewRouter wires all HTTP routes. Unmatched methods on known paths get 405
// from the mux.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}
	if routes.Metrics != nil {
		mux.Handle("GET /metrics", routes.Metrics)
	}
	if routes.Stations != nil {
		mux.Handle("GET /stations", routes.Stations)
	}
	if routes.StationFeed != nil {
		mux.Handle("GET /stations/feed", routes.StationFeed)
	}
	if reg := routes.Registrations; reg != nil {
		protect := func(h http.HandlerFunc) http.Handler {
			if routes.Auth == nil {
				return h
			}
			return middleware.Chain(h, routes.Auth)
		}
		mux.Handle("POST /registrations", protect(reg.HandleCreate))
		mux.Handle("GET /registrations/{id}", protect(reg.HandleGet))
		mux.Handle("PATCH /registrations/{id}", protect(reg.HandleUpdate))
		mux.Handle("DELETE /registrations/{id}", protect(reg.HandleDelete))
		mux.Handle("POST /registrations/{id}/advance", protect(reg.HandleAdvance))
		mux.Handle("POST /registrations/{id}/retreat", protect(reg.HandleRetreat))
		mux.Handle("GET /registrations/{id}/summary", protect(reg.HandleSummary))
		mux.Handle("POST /registrations/{id}/submit", protect(reg.HandleSubmit))
	}
	return mux
}
