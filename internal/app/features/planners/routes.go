// internal/app/features/planners/routes.go
package planners

import (
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/diet", h.ServeDiet)
		pr.Post("/diet/meal-plan", h.dietAction("meal-plan"))
		pr.Post("/diet/recipe", h.dietAction("recipe"))
		pr.Post("/diet/swaps", h.dietAction("swaps"))

		pr.Get("/workout", h.ServeWorkout)
		pr.Post("/workout", h.HandleWorkout)
	})
	return r
}
