package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/soochol/wfcheck/internal/services"
)

type Server struct {
	validationSvc *services.ValidationService
	jwtSecret     []byte
}

func NewServer(validationSvc *services.ValidationService) *Server {
	return &Server{validationSvc: validationSvc}
}

// SetJWTSecret enables bearer token authentication on the API routes.
// Tokens must be HS256-signed with secret.
func (s *Server) SetJWTSecret(secret string) {
	s.jwtSecret = []byte(secret)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Get("/healthz", s.healthz)
	r.Route("/api", func(r chi.Router) {
		if len(s.jwtSecret) > 0 {
			r.Use(s.requireJWT)
		}
		r.Post("/validate", s.validateWorkflow)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.listReports)
			r.Get("/{id}", s.getReport)
		})
	})
	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
