// internal/app/features/bodymetrics/handler.go
package bodymetrics

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/healthcalc"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/inputval"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/normalize"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

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

type pageData struct {
	viewdata.BaseVM
	Metrics        models.BodyMetrics
	Genders        []string
	Goals          []string
	ActivityLevels []string
	Report         healthcalc.Report
	Insight        template.HTML
}

// metricsInput mirrors the form's numeric bounds.
type metricsInput struct {
	WeightKg      float64 `validate:"gte=20,lte=300" label:"Weight (kg)"`
	HeightCm      float64 `validate:"gte=50,lte=250" label:"Height (cm)"`
	Age           int     `validate:"gte=10,lte=100" label:"Age"`
	Gender        string  `validate:"oneof=Male Female" label:"Gender"`
	FitnessGoal   string  `validate:"required" label:"Fitness goal"`
	ActivityLevel string  `validate:"required" label:"Activity level"`
}

func (h *Handler) page(r *http.Request, m models.BodyMetrics) pageData {
	return pageData{
		BaseVM:         viewdata.NewBaseVM(r, "Body Metrics & Health Analytics", "/home"),
		Metrics:        m,
		Genders:        []string{models.GenderMale, models.GenderFemale},
		Goals:          healthcalc.FitnessGoals,
		ActivityLevels: healthcalc.ActivityLevels,
		Report:         healthcalc.Analyze(m),
	}
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
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
			h.ErrLog.LogBadRequest(w, r, "bodymetrics: profile missing", err, "Could not load your user profile.", "/home")
			return models.User{}, false
		}
		h.ErrLog.LogServerError(w, r, "bodymetrics: load profile", err, "Could not load your user profile.", "/home")
		return models.User{}, false
	}
	return u, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /body-metrics                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeMetrics(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "bodymetrics", h.page(r, u.Metrics()))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /body-metrics                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "bodymetrics: parse form", err, "Invalid form submission.", "/body-metrics")
		return
	}

	in := parseInput(r)
	m := models.BodyMetrics{
		WeightKg:      in.WeightKg,
		HeightCm:      in.HeightCm,
		Age:           in.Age,
		Gender:        in.Gender,
		FitnessGoal:   in.FitnessGoal,
		ActivityLevel: in.ActivityLevel,
	}
	if res := inputval.Validate(in); res.HasErrors() {
		data := h.page(r, u.Metrics())
		data.Metrics = m
		data.SetError(res.All())
		templates.Render(w, r, "bodymetrics", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.users.UpdateBodyMetrics(ctx, u.OrganizationID, u.ID, m); err != nil {
		h.ErrLog.LogServerError(w, r, "bodymetrics: save", err, "Could not save your metrics.", "/body-metrics")
		return
	}
	h.Log.Info("body metrics saved", zap.String("user_id", u.ID.Hex()))

	data := h.page(r, m)
	data.Notice = "Your body metrics have been saved."
	templates.Render(w, r, "bodymetrics", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /body-metrics/insight                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleInsight(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	data := h.page(r, u.Metrics())
	rep := data.Report

	insight, err := h.Coach.HTML(r.Context(), u.ID.Hex(), prompts.BodyInsight(coach.ProfileFor(u), rep.BodyFat, rep.Score, rep.Risks))
	if err != nil {
		data.SetError(coach.RateLimitedText)
	} else {
		data.Insight = insight
	}
	templates.Render(w, r, "bodymetrics", data)
}

func parseInput(r *http.Request) metricsInput {
	f := func(k string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue(k)), 64)
		return v
	}
	age, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age")))
	return metricsInput{
		WeightKg:      f("weight_kg"),
		HeightCm:      f("height_cm"),
		Age:           age,
		Gender:        normalize.Gender(r.PostFormValue("gender")),
		FitnessGoal:   strings.TrimSpace(r.PostFormValue("fitness_goal")),
		ActivityLevel: strings.TrimSpace(r.PostFormValue("activity_level")),
	}
}
