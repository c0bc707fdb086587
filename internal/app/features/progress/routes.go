// internal/app/features/progress/routes.go
package progress

import (
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeProgress)
		pr.Post("/", h.HandleLog)
		pr.Post("/analysis", h.HandleAnalysis)
	})
	return r
}
