// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	dailylogstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/dailylogs"
	notificationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/notifications"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/healthcalc"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/htmlsanitize"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	DB     *mongo.Database
	Coach  *coach.Coach
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	users *userstore.Store
	logs  *dailylogstore.Store
	notes *notificationstore.Store
	now   func() time.Time
}

func NewHandler(db *mongo.Database, c *coach.Coach, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Coach:  c,
		ErrLog: errLog,
		Log:    logger,
		users:  userstore.New(db),
		logs:   dailylogstore.New(db),
		notes:  notificationstore.New(db),
		now:    time.Now,
	}
}

type noteVM struct {
	ID      string
	Message template.HTML
	When    string
	FromRun bool
}

type dashboardData struct {
	viewdata.BaseVM
	Notes []noteVM

	DefaultProfile bool
	WeightKg       float64
	BMI            float64
	BMR            int

	Week    []DayActivity
	HasLogs bool

	Analysis template.HTML
}

// snapshot is everything the page reads, loaded concurrently.
type snapshot struct {
	user  models.User
	logs  []models.DailyLog
	notes []models.Notification
}

func (h *Handler) load(ctx context.Context, orgID, uid primitive.ObjectID) (snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	var s snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := h.users.GetByID(gctx, orgID, uid)
		s.user = u
		return err
	})
	g.Go(func() error {
		logs, err := h.logs.ListByUser(gctx, orgID, uid)
		s.logs = logs
		return err
	})
	g.Go(func() error {
		notes, err := h.notes.ListUnread(gctx, orgID, uid)
		s.notes = notes
		return err
	})
	return s, g.Wait()
}

func (h *Handler) build(r *http.Request, s snapshot) dashboardData {
	data := dashboardData{
		BaseVM:  viewdata.NewBaseVM(r, "Your Wellness Dashboard", "/home"),
		Week:    WeekSummary(s.logs, h.now()),
		HasLogs: len(s.logs) > 0,
	}
	for _, n := range s.notes {
		data.Notes = append(data.Notes, noteVM{
			ID:      n.ID.Hex(),
			Message: htmlsanitize.PrepareForDisplay(n.Message),
			When:    n.Timestamp.Format("Jan 2, 15:04 MST"),
			FromRun: n.Source == models.NotificationSourceScan,
		})
	}

	m := s.user.Metrics()
	data.DefaultProfile = s.user.BodyMetrics == nil || isDefault(m)
	if !data.DefaultProfile {
		data.WeightKg = m.WeightKg
		data.BMI = healthcalc.BMI(m.WeightKg, m.HeightCm)
		data.BMR = healthcalc.BMR(m.WeightKg, m.HeightCm, m.Age, m.Gender)
	}
	return data
}

// isDefault reports whether weight, height and age are still the defaults.
func isDefault(m models.BodyMetrics) bool {
	d := models.DefaultBodyMetrics()
	return m.WeightKg == d.WeightKg && m.HeightCm == d.HeightCm && m.Age == d.Age
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	s, err := h.load(r.Context(), orgID, uid)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	templates.Render(w, r, "dashboard", h.build(r, s))
}

func (h *Handler) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, userstore.ErrNotFound) {
		h.ErrLog.LogBadRequest(w, r, "dashboard: profile missing", err, "Could not load your user profile. Please try again.", "/home")
		return
	}
	h.ErrLog.LogServerError(w, r, "dashboard: load", err, "Could not load your dashboard.", "/home")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/notifications/{id}/read                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "dashboard: bad notification id", err, "Could not dismiss notification.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.notes.MarkRead(ctx, orgID, uid, id); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "dashboard: notification not found", err, "Could not dismiss notification.", "/dashboard")
			return
		}
		h.ErrLog.LogServerError(w, r, "dashboard: mark read", err, "Could not dismiss notification.", "/dashboard")
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/analysis                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	s, err := h.load(r.Context(), orgID, uid)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	data := h.build(r, s)
	if len(s.logs) == 0 {
		data.SetError("Not enough data to analyze. Log some progress first!")
		templates.Render(w, r, "dashboard", data)
		return
	}

	data.Analysis, err = h.Coach.HTML(r.Context(), uid.Hex(), prompts.WeeklyAnalysis(s.user.FitnessGoal(), oldestFirst(s.logs)))
	if err != nil {
		data.SetError(coach.RateLimitedText)
		data.Analysis = ""
	}
	templates.Render(w, r, "dashboard", data)
}
