package home

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/healthcalc"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/htmlsanitize"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/nudge"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EmptyFeelingText is shown when the nudge form is submitted blank.
const EmptyFeelingText = "Please tell me how you're feeling first."

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	DB      *mongo.Database
	Coach   *coach.Coach
	Scanner *nudge.Scanner
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	users *userstore.Store
	now   func() time.Time
}

func NewHandler(db *mongo.Database, c *coach.Coach, sc *nudge.Scanner, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Coach:   c,
		Scanner: sc,
		ErrLog:  errLog,
		Log:     logger,
		users:   userstore.New(db),
		now:     time.Now,
	}
}

type homeData struct {
	viewdata.BaseVM
	Tip         string
	FitnessGoal string

	Feeling string
	Nudge   template.HTML

	Checked      bool
	Inactive     bool
	CheckMessage template.HTML
}

func (h *Handler) base(r *http.Request) homeData {
	_, name, _, _ := authz.UserCtx(r)
	if name == "" {
		name = prompts.DefaultName
	}
	return homeData{
		BaseVM: viewdata.NewBaseVM(r, "Welcome back, "+name+"!", "/home"),
		Tip:    healthcalc.DailyTip(h.now()),
	}
}

// ServeRoot redirects / to the home page or the sign-in page.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /home                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	data := h.base(r)
	if orgID, uid, ok := authz.Scope(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if u, err := h.users.GetByID(ctx, orgID, uid); err == nil {
			data.FitnessGoal = u.Metrics().FitnessGoal
		}
	}
	templates.Render(w, r, "home", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /home/nudge – manual wellness nudge                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleNudge(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	data := h.base(r)
	data.Feeling = strings.TrimSpace(r.FormValue("feeling"))
	if data.Feeling == "" {
		data.SetError(EmptyFeelingText)
		templates.Render(w, r, "home", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	u, err := h.users.GetByID(ctx, orgID, uid)
	cancel()
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			data.SetError("Could not retrieve user profile.")
			templates.Render(w, r, "home", data)
			return
		}
		h.ErrLog.LogServerError(w, r, "home: load profile", err, "Could not retrieve user profile.", "/home")
		return
	}
	data.FitnessGoal = u.Metrics().FitnessGoal

	text, err := h.Coach.Text(r.Context(), uid.Hex(), prompts.ManualNudge(u.Name, u.FitnessGoal(), data.Feeling))
	if err != nil {
		data.SetError(text)
	} else {
		data.Nudge = htmlsanitize.PrepareForDisplay(prompts.CleanNudge(text))
	}
	templates.Render(w, r, "home", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /home/check – "Have I been inactive?"                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	data := h.base(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Scanner.CheckUser(ctx, orgID, uid)
	if err != nil {
		if errors.Is(err, nudge.ErrUserNotFound) {
			data.SetError("Could not retrieve user profile.")
			templates.Render(w, r, "home", data)
			return
		}
		h.ErrLog.LogServerError(w, r, "home: inactivity check", err, "Could not check your recent activity.", "/home")
		return
	}

	data.Checked = true
	data.Inactive = res.Inactive
	if res.Inactive {
		data.CheckMessage = htmlsanitize.PrepareForDisplay(res.Message)
		if !res.Saved {
			data.SetError("Your nudge could not be saved to the dashboard.")
		}
	}
	templates.Render(w, r, "home", data)
}
