// internal/app/features/exercises/routes.go
package exercises

import (
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeLibrary)
		pr.Post("/finder", h.HandleFinder)
	})
	return r
}
