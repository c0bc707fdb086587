// internal/app/features/progress/handler.go
package progress

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	dailylogstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/dailylogs"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/healthcalc"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/inputval"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Messages shown on the progress page.
const (
	WeightRequiredText = "Weight must be a positive value to calculate metrics."
	NoDataText         = "No progress data to analyze."
	HeightMissingText  = "Please set your height in the 'Body Metrics' section before logging entries."
)

type Handler struct {
	DB     *mongo.Database
	Coach  *coach.Coach
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	users *userstore.Store
	logs  *dailylogstore.Store
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
		now:    time.Now,
	}
}

type pageData struct {
	viewdata.BaseVM
	Today   string
	Form    entryInput
	History []models.DailyLog // newest first
	Trend   Trend

	Analysis template.HTML
}

type entryInput struct {
	Date        string  `validate:"required,isodate" label:"Date"`
	WeightKg    float64 `validate:"gt=0" label:"Weight (kg)"`
	DurationMin int     `validate:"gte=0,lte=1440" label:"Workout duration"`
	Calories    int     `validate:"gte=0" label:"Calories burned"`
}

func (h *Handler) page(r *http.Request, history []models.DailyLog) pageData {
	today := h.now().UTC().Format(models.DateLayout)
	return pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Your Fitness Progress", "/home"),
		Today:   today,
		Form:    entryInput{Date: today},
		History: history,
		Trend:   TrendOf(history),
	}
}

func (h *Handler) history(ctx context.Context, orgID, uid primitive.ObjectID) ([]models.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	return h.logs.ListByUser(ctx, orgID, uid)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /progress                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProgress(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	hist, err := h.history(r.Context(), orgID, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "progress: list logs", err, "Could not load your progress history.", "/home")
		return
	}
	templates.Render(w, r, "progress", h.page(r, hist))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /progress – log an entry                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "progress: parse form", err, "Invalid form submission.", "/progress")
		return
	}
	in := h.parseEntry(r)

	rerender := func(msg string) {
		hist, err := h.history(r.Context(), orgID, uid)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "progress: list logs", err, "Could not load your progress history.", "/home")
			return
		}
		data := h.page(r, hist)
		data.Form = in
		data.SetError(msg)
		templates.Render(w, r, "progress", data)
	}

	if in.WeightKg <= 0 {
		rerender(WeightRequiredText)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		rerender(res.All())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByID(ctx, orgID, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "progress: load profile", err, "Could not load user profile to save entry.", "/progress")
		return
	}
	m := u.Metrics()
	if m.HeightCm <= 0 {
		rerender(HeightMissingText)
		return
	}

	bmi := healthcalc.BMI(in.WeightKg, m.HeightCm)
	if _, err := h.logs.Save(ctx, models.DailyLog{
		OrganizationID:     orgID,
		UserID:             uid,
		Date:               in.Date,
		WeightKg:           in.WeightKg,
		BMI:                bmi,
		BodyFatPercent:     healthcalc.BodyFatPercent(bmi, m.Age, m.Gender),
		WorkoutDurationMin: in.DurationMin,
		CaloriesBurned:     in.Calories,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "progress: save log", err, "Failed to save entry.", "/progress")
		return
	}
	h.Log.Info("daily log saved", zap.String("user_id", uid.Hex()), zap.String("date", in.Date))

	http.Redirect(w, r, "/progress", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /progress/analysis                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	hist, err := h.history(r.Context(), orgID, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "progress: list logs", err, "Could not load your progress history.", "/home")
		return
	}
	data := h.page(r, hist)
	if len(hist) == 0 {
		data.SetError(NoDataText)
		templates.Render(w, r, "progress", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	u, err := h.users.GetByID(ctx, orgID, uid)
	cancel()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "progress: load profile", err, "Could not load your user profile.", "/progress")
		return
	}

	data.Analysis, err = h.Coach.HTML(r.Context(), uid.Hex(), prompts.ProgressAnalysis(u.Metrics(), u.FitnessGoal(), chronological(hist)))
	if err != nil {
		data.Analysis = ""
		data.SetError(coach.RateLimitedText)
	}
	templates.Render(w, r, "progress", data)
}

func (h *Handler) parseEntry(r *http.Request) entryInput {
	in := entryInput{Date: strings.TrimSpace(r.PostFormValue("date"))}
	if in.Date == "" {
		in.Date = h.now().UTC().Format(models.DateLayout)
	}
	in.WeightKg, _ = strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("weight_kg")), 64)
	in.DurationMin, _ = strconv.Atoi(strings.TrimSpace(r.PostFormValue("workout_duration_min")))
	in.Calories, _ = strconv.Atoi(strings.TrimSpace(r.PostFormValue("calories_burned")))
	return in
}
