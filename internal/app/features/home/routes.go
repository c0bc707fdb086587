package home

import (
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// RootRoutes serves "/".
func RootRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoot)
	return r
}

// Routes serves /home; every route requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeHome)
		pr.Post("/nudge", h.HandleNudge)
		pr.Post("/check", h.HandleCheck)
	})
	return r
}
