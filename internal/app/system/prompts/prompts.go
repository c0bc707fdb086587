// Package prompts builds the system and user messages sent to the language
// model. Every builder is pure so the text can be asserted in tests.
package prompts

import (
	"fmt"
	"strings"

	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
)

const (
	// DefaultName is used when a profile has no display name.
	DefaultName = "User"
	// NotSet stands in for a missing fitness goal.
	NotSet = "not set"

	scanNudgeUser   = "Give me a personalized motivational nudge to get back on track."
	manualNudgeUser = "Give me only a short 2-3 sentence motivational message. Don't add introductions or labels. Address me by my name and suggest one actionable step."

	// InactiveFeeling is the canned "how are you feeling" used by the
	// home page's inactivity check.
	InactiveFeeling = "I haven't worked out in a few days and need some motivation."
)

// Pair is one system + user message.
type Pair struct {
	System string
	User   string
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinOr(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// ScanNudge is the prompt the inactivity scanner sends for one user.
func ScanNudge(name, goal string) Pair {
	var b strings.Builder
	b.WriteString("You are an empathetic and motivating AI wellness coach.\n")
	fmt.Fprintf(&b, "A user, %s, has not logged a workout in a few days.\n", orDefault(name, DefaultName))
	fmt.Fprintf(&b, "Their goal is: %s.\n", orDefault(goal, NotSet))
	b.WriteString("Your task is to provide a short (2-3 sentences), positive, and actionable piece of advice to encourage them.\n")
	b.WriteString("Address them by their name.")
	return Pair{System: b.String(), User: scanNudgeUser}
}

// ManualNudge answers a user who described how they feel.
func ManualNudge(name, goal, feeling string) Pair {
	var b strings.Builder
	b.WriteString("You are an empathetic and motivating AI wellness coach. The user needs a motivational nudge.\n\n")
	b.WriteString("User's Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orDefault(name, DefaultName))
	fmt.Fprintf(&b, "- Stated Goal: %s\n\n", orDefault(goal, NotSet))
	fmt.Fprintf(&b, "User's current state: %q\n\n", feeling)
	b.WriteString("Your task is to provide a short (2-3 sentence), positive, and actionable piece of advice or motivation.\n")
	b.WriteString("Be encouraging and focus on a small, achievable action. Address the user by their name.")
	return Pair{System: b.String(), User: manualNudgeUser}
}

const nudgeLabel = "Here's your personalized nudge:"

// CleanNudge drops any echoed "Here's your personalized nudge:" label and
// removes repeated lines (case-insensitive), keeping the first occurrence.
func CleanNudge(s string) string {
	if i := strings.LastIndex(s, nudgeLabel); i >= 0 {
		s = s[i+len(nudgeLabel):]
	}
	seen := map[string]bool{}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		key := strings.ToLower(line)
		if line == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Profile is the body data most planner prompts share.
type Profile struct {
	Name    string
	Metrics models.BodyMetrics
	BMI     float64
	BMR     int
	TDEE    float64
}

func writeProfile(b *strings.Builder, p Profile) {
	m := p.Metrics
	fmt.Fprintf(b, "- Name: %s\n", orDefault(p.Name, DefaultName))
	fmt.Fprintf(b, "- Current Weight: %g kg\n", m.WeightKg)
	fmt.Fprintf(b, "- Current Height: %g cm\n", m.HeightCm)
	fmt.Fprintf(b, "- Age: %d years\n", m.Age)
	fmt.Fprintf(b, "- Gender: %s\n", m.Gender)
	fmt.Fprintf(b, "- Activity Level: %s\n", orDefault(m.ActivityLevel, NotSet))
	fmt.Fprintf(b, "- Overall Fitness Goal: %s\n", orDefault(m.FitnessGoal, NotSet))
}

// MealPlanInput carries the diet planner's computed targets.
type MealPlanInput struct {
	Profile       Profile
	DietGoal      string
	CalorieTarget int
	ProteinNeed   float64
	Preferences   []string
	Allergies     string
	Request       string
}

func MealPlan(in MealPlanInput) Pair {
	m := in.Profile.Metrics
	var b strings.Builder
	b.WriteString("You are an AI meal planner. User details:\n")
	fmt.Fprintf(&b, "- Weight: %gkg\n", m.WeightKg)
	fmt.Fprintf(&b, "- Height: %gcm\n", m.HeightCm)
	fmt.Fprintf(&b, "- Age: %d\n", m.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", m.Gender)
	fmt.Fprintf(&b, "- Activity Level: %s\n", orDefault(m.ActivityLevel, NotSet))
	fmt.Fprintf(&b, "- Fitness Goal: %s\n", orDefault(m.FitnessGoal, NotSet))
	fmt.Fprintf(&b, "- Diet Goal: %s\n", orDefault(in.DietGoal, NotSet))
	fmt.Fprintf(&b, "- BMR: %d kcal\n", in.Profile.BMR)
	fmt.Fprintf(&b, "- TDEE: %.0f kcal\n", in.Profile.TDEE)
	fmt.Fprintf(&b, "- Calorie Target: %d kcal\n", in.CalorieTarget)
	fmt.Fprintf(&b, "- Protein Need: %.0fg\n", in.ProteinNeed)
	fmt.Fprintf(&b, "- Preferences: %s\n", joinOr(in.Preferences, "None"))
	fmt.Fprintf(&b, "- Allergies: %s", orDefault(in.Allergies, "None"))
	return Pair{System: b.String(), User: in.Request}
}

// RecipeInput drives the recipe creator.
type RecipeInput struct {
	Ingredients   string
	Style         string
	CalorieTarget int
	ProteinNeed   float64
	Preferences   []string
	Allergies     string
}

func Recipe(in RecipeInput) Pair {
	var b strings.Builder
	b.WriteString("You are an AI chef. Generate a healthy recipe using:\n")
	fmt.Fprintf(&b, "- Ingredients: %s\n", in.Ingredients)
	fmt.Fprintf(&b, "- Style: %s\n", orDefault(in.Style, "Any"))
	fmt.Fprintf(&b, "- Calorie Target: %d\n", in.CalorieTarget)
	fmt.Fprintf(&b, "- Protein Need: %.0fg\n", in.ProteinNeed)
	fmt.Fprintf(&b, "- Preferences: %s\n", joinOr(in.Preferences, "None"))
	fmt.Fprintf(&b, "- Allergies: %s", orDefault(in.Allergies, "None"))
	return Pair{System: b.String(), User: "Create a recipe"}
}

// SwapsInput drives the ingredient swapper.
type SwapsInput struct {
	Item        string
	Goal        string
	Preferences []string
	Allergies   string
}

func Swaps(in SwapsInput) Pair {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest healthy swaps for: %s\n", in.Item)
	fmt.Fprintf(&b, "Goal: %s\n", orDefault(in.Goal, "Improve health"))
	fmt.Fprintf(&b, "Preferences: %s\n", joinOr(in.Preferences, "None"))
	fmt.Fprintf(&b, "Allergies: %s", orDefault(in.Allergies, "None"))
	return Pair{System: b.String(), User: "Suggest healthy swaps"}
}

// WorkoutInput is the workout planner form plus the profile.
type WorkoutInput struct {
	Profile      Profile
	FitnessLevel string
	Goal         string
	Equipment    []string
	DurationMin  int
	DaysPerWeek  int
	Request      string
}

func WorkoutPlan(in WorkoutInput) Pair {
	var b strings.Builder
	b.WriteString("You are an AI personal trainer specializing in creating workout plans.\n")
	b.WriteString("Generate a detailed workout plan based on the user's complete profile and specific request.\n\n")
	b.WriteString("User Profile:\n")
	writeProfile(&b, in.Profile)
	fmt.Fprintf(&b, "- Current BMI: %.1f\n", in.Profile.BMI)
	fmt.Fprintf(&b, "- Current BMR: %d calories/day\n", in.Profile.BMR)
	fmt.Fprintf(&b, "- Current TDEE: %.0f calories/day\n", in.Profile.TDEE)
	fmt.Fprintf(&b, "- User's Stated Fitness Level: %s\n", in.FitnessLevel)
	fmt.Fprintf(&b, "- Primary Workout Goal: %s\n", in.Goal)
	fmt.Fprintf(&b, "- Available Equipment: %s\n", joinOr(in.Equipment, "None"))
	fmt.Fprintf(&b, "- Preferred Duration Per Session: %d minutes\n", in.DurationMin)
	fmt.Fprintf(&b, "- Desired Workout Days Per Week: %d\n\n", in.DaysPerWeek)
	b.WriteString("Structure the plan clearly by day or by workout type. For each session include a warm-up, ")
	b.WriteString("the main exercises with sets and reps or duration, a form cue for each, a progressive overload ")
	b.WriteString("suggestion and a cool-down.\n")
	b.WriteString("Provide a realistic, actionable and safe plan. If the user asks for a specific split, adhere to it.")
	return Pair{System: b.String(), User: in.Request}
}

// ExerciseInput is the exercise finder query plus planner context.
type ExerciseInput struct {
	Profile      Profile
	FitnessLevel string
	Goal         string
	Equipment    []string
	Query        string
}

func ExerciseFinder(in ExerciseInput) Pair {
	var b strings.Builder
	b.WriteString("You are an AI exercise specialist and physical therapist. Provide detailed exercise suggestions ")
	b.WriteString("based on the user's query and their comprehensive profile.\n\n")
	b.WriteString("User Profile:\n")
	writeProfile(&b, in.Profile)
	fmt.Fprintf(&b, "- Stated Fitness Level: %s\n", orDefault(in.FitnessLevel, "Beginner"))
	fmt.Fprintf(&b, "- Primary Workout Goal: %s\n", orDefault(in.Goal, "Strength"))
	fmt.Fprintf(&b, "- Available Equipment: %s\n\n", joinOr(in.Equipment, "None"))
	b.WriteString("For each exercise, include:\n")
	b.WriteString("- **Exercise Name**\n")
	b.WriteString("- **Brief Description:** What does it do?\n")
	b.WriteString("- **Target Muscle Group(s)**\n")
	b.WriteString("- **Equipment Needed**\n")
	b.WriteString("- **Tips for Proper Form:** A crucial tip or common mistake to avoid.\n")
	b.WriteString("- **Modification/Progression:** How can it be made easier or harder.\n\n")
	b.WriteString("Suggest 3-5 relevant exercises unless the query asks for more or fewer. ")
	b.WriteString("Prioritize safety for their fitness level and available equipment.")
	return Pair{System: b.String(), User: in.Query}
}

// LogTable renders logs as a markdown table, oldest first as given.
func LogTable(logs []models.DailyLog) string {
	var b strings.Builder
	b.WriteString("| date | weight_kg | bmi | body_fat_percent | workout_duration_min | calories_burned |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, l := range logs {
		fmt.Fprintf(&b, "| %s | %g | %g | %g | %d | %d |\n",
			l.Date, l.WeightKg, l.BMI, l.BodyFatPercent, l.WorkoutDurationMin, l.CaloriesBurned)
	}
	return b.String()
}

// WeeklyAnalysis is the dashboard's "AI weekly analysis".
func WeeklyAnalysis(goal string, logs []models.DailyLog) Pair {
	return Pair{
		System: fmt.Sprintf("Analyze this user's weekly fitness data and provide 2-3 concise, actionable insights. The user's goal is %s. Data:\n%s",
			orDefault(goal, NotSet), LogTable(logs)),
		User: "What are the key trends and what should I focus on next week?",
	}
}

// ProgressAnalysis is the progress page's analysis of the full history.
func ProgressAnalysis(m models.BodyMetrics, goal string, logs []models.DailyLog) Pair {
	var b strings.Builder
	b.WriteString("You are an AI fitness progress analyst. Here is the user's logged fitness data:\n")
	b.WriteString(LogTable(logs))
	b.WriteString("\nUser's current body metrics:\n")
	fmt.Fprintf(&b, "- Weight: %g kg\n", m.WeightKg)
	fmt.Fprintf(&b, "- Height: %g cm\n", m.HeightCm)
	fmt.Fprintf(&b, "- Age: %d years\n", m.Age)
	fmt.Fprintf(&b, "- Gender: %s\n\n", m.Gender)
	fmt.Fprintf(&b, "The user's fitness goal is %s.\n", orDefault(goal, NotSet))
	b.WriteString("Analyze the data to identify trends, strengths, and areas for improvement. Provide actionable advice. Be encouraging and insightful.\n")
	b.WriteString("If there's very little data, mention that more data is needed for a comprehensive analysis.")
	return Pair{System: b.String(), User: "Analyze my progress and give me some advice."}
}

// BodyInsight asks for commentary on the computed body report.
func BodyInsight(p Profile, bodyFat float64, score int, risks []string) Pair {
	var b strings.Builder
	b.WriteString("You are an AI health coach. Explain this user's body composition results in plain language.\n\n")
	writeProfile(&b, p)
	fmt.Fprintf(&b, "- BMI: %.2f\n", p.BMI)
	fmt.Fprintf(&b, "- Body Fat: %.1f%%\n", bodyFat)
	fmt.Fprintf(&b, "- BMR: %d kcal/day\n", p.BMR)
	fmt.Fprintf(&b, "- Health Score: %d/100\n", score)
	fmt.Fprintf(&b, "- Flagged Risks: %s\n\n", joinOr(risks, "None"))
	b.WriteString("Give 3 short, specific and encouraging suggestions. Do not give a diagnosis.")
	return Pair{System: b.String(), User: "What do my body metrics say and what should I do next?"}
}
