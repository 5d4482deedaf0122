package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/handlers"
	"github.com/etec-programacion-3/biblioteca-backend/internal/config"
	"github.com/etec-programacion-3/biblioteca-backend/internal/metrics"
	"github.com/etec-programacion-3/biblioteca-backend/internal/middleware"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	"github.com/etec-programacion-3/biblioteca-backend/internal/services"
)

func NewRouter(cfg config.Config, books *services.BookService, users *services.UserService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	bh := handlers.NewBookHandler(books)
	uh := handlers.NewUserHandler(users)
	ah := handlers.NewAuthHandler(users)
	authmw := middleware.NewAuthMiddleware(users)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.Route("/libros", func(r chi.Router) {
		r.Get("/", bh.List)
		r.Post("/", bh.Create)
		r.Get("/{id}", bh.Get)
		r.Put("/{id}", bh.Update)
		r.Delete("/{id}", bh.Delete)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", ah.Register)
		r.Post("/token", ah.Token)
	})

	r.Route("/usuarios", func(r chi.Router) {
		r.Use(authmw.Auth)
		r.Get("/me", uh.Me)
		r.Put("/me", uh.UpdateMe)
		r.With(adminOnly).Get("/", uh.List)
		r.Get("/{id}", uh.Get)
		r.With(adminOnly).Put("/{id}", uh.Update)
		r.With(adminOnly).Delete("/{id}", uh.Delete)
	})

	return r
}
