package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-vocab/internal/api"
	apiMiddleware "github.com/phrazzld/scry-vocab/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	wordHandler := api.NewWordHandler(app.cache, app.learningService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/words/to-learn", wordHandler.ToLearn)
		r.Get("/words/learned", wordHandler.Learned)
		r.Post("/words/{word}/learned", wordHandler.MarkLearned)
		r.Get("/progress", wordHandler.Progress)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
