package mockserver

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router builds the chi router for the mock server. The route shapes
// mirror the deployed API so the client can point at either.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/mock-ine", s.handleVerifyINE)
	r.Post("/collect", s.handleCollect)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Post("/auth/otp/request", s.handleOTPRequest)
		r.Post("/auth/otp/validate", s.handleOTPValidate)
		r.Get("/me", s.requireAuth(s.handleProfile))
		r.Get("/catalog", s.handleCatalog)

		r.Post("/cardholders/lookup", s.handleCardholderLookup)
		r.Post("/cardholders/{curp}/account", s.handleCreateAccount)
		r.Post("/cardholders", s.handleSubmitRegistration)
		r.Get("/cardholders", s.handleListRegistrations)
	})

	return r
}
