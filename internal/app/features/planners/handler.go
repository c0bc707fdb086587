// internal/app/features/planners/handler.go
package planners

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the diet and workout planners. Both read the saved body
// metrics; neither writes anything.
type Handler struct {
	DB     *mongo.Database
	Coach  *coach.Coach
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	users *userstore.Store
}

func NewHandler(db *mongo.Database, c *coach.Coach, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Coach:  c,
		ErrLog: errLog,
		Log:    logger,
		users:  userstore.New(db),
	}
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request, back string) (models.User, bool) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return models.User{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.users.GetByID(ctx, orgID, uid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "planners: profile missing", err, "Could not load your user profile.", back)
			return models.User{}, false
		}
		h.ErrLog.LogServerError(w, r, "planners: load profile", err, "Could not load your user profile.", back)
		return models.User{}, false
	}
	return u, true
}

// pick keeps the submitted values that appear in allowed, in allowed order.
func pick(submitted []string, allowed []string) []string {
	set := make(map[string]bool, len(submitted))
	for _, s := range submitted {
		set[strings.TrimSpace(s)] = true
	}
	var out []string
	for _, a := range allowed {
		if set[a] {
			out = append(out, a)
		}
	}
	return out
}

// option is one <option> or checkbox in a planner form.
type option struct {
	Value    string
	Selected bool
}

func options(all []string, chosen ...string) []option {
	set := make(map[string]bool, len(chosen))
	for _, c := range chosen {
		set[c] = true
	}
	out := make([]option, len(all))
	for i, v := range all {
		out[i] = option{Value: v, Selected: set[v]}
	}
	return out
}
