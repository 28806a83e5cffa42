package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-otp-nosql/internal/application/auth"
	"github.com/go-otp-nosql/internal/config"
	"github.com/go-otp-nosql/internal/transport/http/handler"
	"github.com/go-otp-nosql/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(auth.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		UserRepo:         deps.UserRepo,
		Events:           deps.Events,
	})

	healthH := handler.NewHealthHandler()
	codeH := handler.NewAuthCodeHandler(authSvc, deps.Notifiers, deps.DefaultNotifier)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Route("/auth-codes", func(r chi.Router) {
			r.Use(middleware.LimitBody(middleware.MaxBodyBytes))
			r.Use(middleware.RequireJSON)
			r.Post("/", codeH.Issue)
			r.Post("/{id}/verify", codeH.Verify)
			r.Delete("/{id}", codeH.Delete)
		})
	})

	return r
}
