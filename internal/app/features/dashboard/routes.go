// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
		pr.Post("/notifications/{id}/read", h.HandleDismiss)
		pr.Post("/analysis", h.HandleAnalysis)
	})
	return r
}
