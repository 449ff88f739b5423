package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/accounthub-be/internal/api/handlers"
	"github.com/isdelr/accounthub-be/internal/auth"
	"github.com/isdelr/accounthub-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	sessionService services.SessionServiceProvider,
	eventService services.EventServiceProvider,
	frontendOrigin string,
	adminUsername string,
	sessionTTL time.Duration,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the SPA; cookies require credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, sessionService, eventService, adminUsername, sessionTTL)
	eventHandler := handlers.NewEventHandler(eventService, adminUsername)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)

		// Endpoints requiring an authenticated session
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(sessionService))

			r.Get("/me", userHandler.GetMe)
			r.Post("/logout", userHandler.Logout)
			r.Get("/events", eventHandler.GetRecent)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", userHandler.Update)
					r.Delete("/", userHandler.Delete)
				})
			})
		})
	})

	return r
}
