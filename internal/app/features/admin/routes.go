// internal/app/features/admin/routes.go
package admin

import (
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin panel. Every route requires the admin role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServePanel)
		pr.Post("/orgs", h.HandleCreateOrg)
		pr.Post("/orgs/{orgID}/rename", h.HandleRenameOrg)
		pr.Post("/orgs/{orgID}/teams", h.HandleAddTeam)
		pr.Post("/orgs/{orgID}/teams/{teamID}/rename", h.HandleRenameTeam)
		pr.Post("/orgs/{orgID}/teams/{teamID}/delete", h.HandleDeleteTeam)
		pr.Post("/scan", h.HandleScan)
	})
	return r
}
