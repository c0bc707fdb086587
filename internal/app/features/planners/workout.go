package planners

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/inputval"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

var (
	FitnessLevels = []string{"Beginner", "Intermediate", "Advanced"}
	WorkoutGoals  = []string{"Strength", "Endurance", "Weight Loss", "Muscle Gain", "Flexibility & Mobility"}
	Equipment     = []string{"None (Bodyweight)", "Dumbbells", "Barbell", "Resistance Bands", "Kettlebell", "Gym Access (Full Equipment)"}
)

const (
	DefaultDurationMin = 45
	DefaultDaysPerWeek = 3
)

// WorkoutGoalFor maps a profile fitness goal onto the planner's goals.
func WorkoutGoalFor(fitnessGoal string) string {
	switch fitnessGoal {
	case "Lose Weight":
		return "Weight Loss"
	case "Gain Muscle":
		return "Muscle Gain"
	case "Maintain Fitness", "General Health", "Improve Endurance":
		return "Endurance"
	}
	for _, g := range WorkoutGoals {
		if g == fitnessGoal {
			return g
		}
	}
	return WorkoutGoals[0]
}

type workoutInput struct {
	FitnessLevel string   `validate:"oneof=Beginner Intermediate Advanced" label:"Fitness level"`
	Goal         string   `validate:"required" label:"Workout goal"`
	Equipment    []string `validate:"-"`
	DurationMin  int      `validate:"gte=15,lte=120" label:"Workout duration"`
	DaysPerWeek  int      `validate:"gte=1,lte=7" label:"Days per week"`
	Request      string   `validate:"max=2000" label:"Request"`
}

type workoutData struct {
	viewdata.BaseVM
	Levels    []option
	Goals     []option
	Equipment []option
	Form      workoutInput

	Plan    template.HTML
	Summary string
}

func (h *Handler) workoutPage(r *http.Request, in workoutInput) workoutData {
	return workoutData{
		BaseVM:    viewdata.NewBaseVM(r, "AI-Powered Workout Planner", "/home"),
		Levels:    options(FitnessLevels, in.FitnessLevel),
		Goals:     options(WorkoutGoals, in.Goal),
		Equipment: options(Equipment, in.Equipment...),
		Form:      in,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /planners/workout                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeWorkout(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r, "/home")
	if !ok {
		return
	}
	templates.Render(w, r, "planner_workout", h.workoutPage(r, workoutInput{
		FitnessLevel: FitnessLevels[0],
		Goal:         WorkoutGoalFor(u.Metrics().FitnessGoal),
		DurationMin:  DefaultDurationMin,
		DaysPerWeek:  DefaultDaysPerWeek,
	}))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planners/workout                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleWorkout(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r, "/planners/workout")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "planners: parse workout form", err, "Invalid form submission.", "/planners/workout")
		return
	}
	in := workoutInput{
		FitnessLevel: strings.TrimSpace(r.PostFormValue("fitness_level")),
		Goal:         strings.TrimSpace(r.PostFormValue("goal")),
		Equipment:    pick(r.PostForm["equipment"], Equipment),
		Request:      strings.TrimSpace(r.PostFormValue("request")),
	}
	in.DurationMin, _ = strconv.Atoi(r.PostFormValue("duration_min"))
	in.DaysPerWeek, _ = strconv.Atoi(r.PostFormValue("days_per_week"))
	if len(pick([]string{in.Goal}, WorkoutGoals)) == 0 {
		in.Goal = ""
	}

	data := h.workoutPage(r, in)
	if res := inputval.Validate(in); res.HasErrors() {
		data.SetError(res.All())
		templates.Render(w, r, "planner_workout", data)
		return
	}
	if in.Request == "" {
		data.SetError("Please provide a prompt for your workout plan.")
		templates.Render(w, r, "planner_workout", data)
		return
	}

	plan, err := h.Coach.HTML(r.Context(), u.ID.Hex(), prompts.WorkoutPlan(prompts.WorkoutInput{
		Profile:      coach.ProfileFor(u),
		FitnessLevel: in.FitnessLevel,
		Goal:         in.Goal,
		Equipment:    in.Equipment,
		DurationMin:  in.DurationMin,
		DaysPerWeek:  in.DaysPerWeek,
		Request:      in.Request,
	}))
	if err != nil {
		data.SetError(coach.RateLimitedText)
	} else {
		data.Plan = plan
		data.Summary = Summary(in.DaysPerWeek, in.DurationMin, in.Goal, in.Equipment)
	}
	templates.Render(w, r, "planner_workout", data)
}

// Summary is the one-line description shown above a generated plan.
func Summary(days, minutes int, goal string, equipment []string) string {
	eq := "None"
	if len(equipment) > 0 {
		eq = strings.Join(equipment, ", ")
	}
	return strconv.Itoa(days) + " days/week, " + strconv.Itoa(minutes) + " min/session. Goal: " + goal + ". Equipment: " + eq + "."
}
