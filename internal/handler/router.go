package handler

import (
	"log/slog"
	"net/http"

	"github.com/BaGreal2/movieweb/internal/datamanager"
	"github.com/BaGreal2/movieweb/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every endpoint to dm. Routes that change a user's list
// need a token for that same user.
func NewRouter(dm datamanager.DataManager, jwtSecret string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithCORS)
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	secured := middleware.AuthMiddleware(jwtSecret)

	r.Get("/health", HealthHandler(dm, logger))
	r.Post("/register", RegisterHandler(dm, logger))
	r.Post("/login", LoginHandler(dm, jwtSecret, logger))
	r.With(secured).Get("/me", MeHandler(dm, logger))

	r.Get("/users", ListUsersHandler(dm, logger))
	r.Route("/users/{userID}/movies", func(r chi.Router) {
		r.Get("/", UserMoviesHandler(dm, logger))
		r.Get("/{movieID}", UserMovieHandler(dm, logger))

		r.Group(func(r chi.Router) {
			r.Use(secured, middleware.RequireOwner)
			r.Post("/", AddMovieHandler(dm, logger))
			r.Put("/{movieID}", UpdateMovieHandler(dm, logger))
			r.Delete("/{movieID}", DeleteMovieHandler(dm, logger))
			r.Post("/{movieID}/review", AddReviewHandler(dm, logger))
		})
	})

	r.Get("/movies", ListMoviesHandler(dm, logger))
	r.Get("/movies/{movieID}/reviews", MovieReviewsHandler(dm, logger))

	return r
}
