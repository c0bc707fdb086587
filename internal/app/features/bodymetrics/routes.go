// internal/app/features/bodymetrics/routes.go
package bodymetrics

import (
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeMetrics)
		pr.Post("/", h.HandleSave)
		pr.Post("/insight", h.HandleInsight)
	})
	return r
}
