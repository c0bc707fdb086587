package planners

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/healthcalc"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/inputval"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

var (
	DietGoals       = []string{"Lose Weight", "Gain Muscle", "Maintain Weight"}
	DietPreferences = []string{"Vegetarian", "Vegan", "Keto", "Paleo", "Mediterranean", "Gluten-Free", "Dairy-Free", "Low-Carb", "High-Protein"}
)

// DietTargets are the daily numbers the diet planner shows and sends to the model.
type DietTargets struct {
	BMR           int
	TDEE          float64
	CalorieTarget int
	ProteinNeed   float64
	Macros        healthcalc.MacroSplit
}

// DietGoalFor maps a profile fitness goal onto the diet planner's goals.
func DietGoalFor(fitnessGoal string) string {
	for _, g := range DietGoals {
		if g == fitnessGoal {
			return g
		}
	}
	return "Maintain Weight"
}

// Targets computes the diet numbers for m. calorieOverride replaces the
// derived calorie target when positive.
func Targets(m models.BodyMetrics, dietGoal string, calorieOverride int) DietTargets {
	bmr := healthcalc.BMR(m.WeightKg, m.HeightCm, m.Age, m.Gender)
	tdee := healthcalc.TDEE(bmr, m.ActivityLevel)
	t := DietTargets{
		BMR:           bmr,
		TDEE:          tdee,
		CalorieTarget: healthcalc.CalorieTarget(tdee, dietGoal),
		ProteinNeed:   healthcalc.ProteinTarget(m.WeightKg, dietGoal),
	}
	if calorieOverride > 0 {
		t.CalorieTarget = calorieOverride
	}
	t.Macros = healthcalc.Macros(t.CalorieTarget, t.ProteinNeed)
	return t
}

type dietData struct {
	viewdata.BaseVM
	Metrics models.BodyMetrics
	Targets DietTargets

	Goals       []option
	Preferences []option
	Form        dietInput

	Result      template.HTML
	ResultTitle string
}

type dietInput struct {
	DietGoal      string   `validate:"required" label:"Diet goal"`
	CalorieTarget int      `validate:"omitempty,gte=1000,lte=5000" label:"Daily calorie target"`
	Preferences   []string `validate:"-"`
	Allergies     string   `validate:"max=200" label:"Allergies"`

	Request     string `validate:"max=2000" label:"Request"`
	Ingredients string `validate:"max=2000" label:"Ingredients"`
	Style       string `validate:"max=100" label:"Style"`
	SwapItem    string `validate:"max=2000" label:"Recipe or ingredient"`
	SwapGoal    string `validate:"max=200" label:"Swap goal"`
}

func parseDiet(r *http.Request, fallbackGoal string) dietInput {
	in := dietInput{
		DietGoal:    strings.TrimSpace(r.PostFormValue("diet_goal")),
		Preferences: pick(r.PostForm["preferences"], DietPreferences),
		Allergies:   strings.TrimSpace(r.PostFormValue("allergies")),
		Request:     strings.TrimSpace(r.PostFormValue("request")),
		Ingredients: strings.TrimSpace(r.PostFormValue("ingredients")),
		Style:       strings.TrimSpace(r.PostFormValue("style")),
		SwapItem:    strings.TrimSpace(r.PostFormValue("swap_item")),
		SwapGoal:    strings.TrimSpace(r.PostFormValue("swap_goal")),
	}
	if len(pick([]string{in.DietGoal}, DietGoals)) == 0 {
		in.DietGoal = fallbackGoal
	}
	in.CalorieTarget, _ = strconv.Atoi(strings.TrimSpace(r.PostFormValue("calorie_target")))
	return in
}

func (h *Handler) dietPage(r *http.Request, m models.BodyMetrics, in dietInput) dietData {
	t := Targets(m, in.DietGoal, in.CalorieTarget)
	in.CalorieTarget = t.CalorieTarget
	return dietData{
		BaseVM:      viewdata.NewBaseVM(r, "AI-Powered Diet Planner", "/home"),
		Metrics:     m,
		Targets:     t,
		Goals:       options(DietGoals, in.DietGoal),
		Preferences: options(DietPreferences, in.Preferences...),
		Form:        in,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /planners/diet                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDiet(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r, "/home")
	if !ok {
		return
	}
	m := u.Metrics()
	templates.Render(w, r, "planner_diet", h.dietPage(r, m, dietInput{DietGoal: DietGoalFor(m.FitnessGoal)}))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planners/diet/{mode}  – meal-plan | recipe | swaps                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) dietAction(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := h.loadUser(w, r, "/planners/diet")
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			h.ErrLog.LogBadRequest(w, r, "planners: parse diet form", err, "Invalid form submission.", "/planners/diet")
			return
		}
		m := u.Metrics()
		in := parseDiet(r, DietGoalFor(m.FitnessGoal))
		data := h.dietPage(r, m, in)

		if res := inputval.Validate(in); res.HasErrors() {
			data.SetError(res.All())
			templates.Render(w, r, "planner_diet", data)
			return
		}

		var p prompts.Pair
		switch mode {
		case "meal-plan":
			if in.Request == "" {
				data.SetError("Please provide a prompt.")
				break
			}
			data.ResultTitle = "Your generated meal plan"
			p = prompts.MealPlan(prompts.MealPlanInput{
				Profile:       coach.ProfileFor(u),
				DietGoal:      in.DietGoal,
				CalorieTarget: data.Targets.CalorieTarget,
				ProteinNeed:   data.Targets.ProteinNeed,
				Preferences:   in.Preferences,
				Allergies:     in.Allergies,
				Request:       in.Request,
			})
		case "recipe":
			if in.Ingredients == "" {
				data.SetError("Please enter ingredients.")
				break
			}
			data.ResultTitle = "Your recipe"
			p = prompts.Recipe(prompts.RecipeInput{
				Ingredients:   in.Ingredients,
				Style:         in.Style,
				CalorieTarget: data.Targets.CalorieTarget,
				ProteinNeed:   data.Targets.ProteinNeed,
				Preferences:   in.Preferences,
				Allergies:     in.Allergies,
			})
		case "swaps":
			if in.SwapItem == "" {
				data.SetError("Please enter something.")
				break
			}
			data.ResultTitle = "Healthy swaps"
			p = prompts.Swaps(prompts.SwapsInput{
				Item:        in.SwapItem,
				Goal:        in.SwapGoal,
				Preferences: in.Preferences,
				Allergies:   in.Allergies,
			})
		}

		if p.System != "" {
			html, err := h.Coach.HTML(r.Context(), u.ID.Hex(), p)
			if err != nil {
				data.SetError(coach.RateLimitedText)
			} else {
				data.Result = html
			}
		}
		templates.Render(w, r, "planner_diet", data)
	}
}
