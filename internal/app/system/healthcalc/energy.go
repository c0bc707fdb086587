package healthcalc

var activityMultipliers = map[string]float64{
	"Sedentary":         1.2,
	"Lightly Active":    1.375,
	"Moderately Active": 1.55,
	"Very Active":       1.725,
	"Extremely Active":  1.9,
}

var proteinMultipliers = map[string]float64{
	"Lose Weight":       1.6,
	"Gain Muscle":       2.2,
	"Maintain Fitness":  1.2,
	"Improve Endurance": 1.4,
	"General Health":    1.0,
}

// ActivityLevels lists the accepted activity levels in display order.
var ActivityLevels = []string{
	"Sedentary",
	"Lightly Active",
	"Moderately Active",
	"Very Active",
	"Extremely Active",
}

// FitnessGoals lists the profile goals in display order.
var FitnessGoals = []string{
	"Lose Weight",
	"Gain Muscle",
	"Maintain Fitness",
	"Improve Endurance",
	"General Health",
}

// TDEE scales BMR by the activity multiplier. Unknown levels use
// "Moderately Active".
func TDEE(bmr int, activityLevel string) float64 {
	m, ok := activityMultipliers[activityLevel]
	if !ok {
		m = 1.55
	}
	return float64(bmr) * m
}

// ProteinTarget returns grams of protein per day for a goal.
// "Maintain Weight" from the diet planner is treated as "Maintain Fitness";
// unknown goals use 1.2 g/kg.
func ProteinTarget(weightKg float64, goal string) float64 {
	if goal == "Maintain Weight" {
		goal = "Maintain Fitness"
	}
	m, ok := proteinMultipliers[goal]
	if !ok {
		m = 1.2
	}
	return weightKg * m
}

// CalorieTarget derives a daily calorie goal from TDEE: a 20% deficit to
// lose weight, a 10% surplus to gain muscle, otherwise maintenance.
func CalorieTarget(tdee float64, goal string) int {
	switch goal {
	case "Lose Weight":
		return int(tdee * 0.8)
	case "Gain Muscle":
		return int(tdee * 1.1)
	default:
		return int(tdee)
	}
}

// MacroSplit is a daily macro goal in grams.
type MacroSplit struct {
	ProteinG int
	FatsG    int
	CarbsG   int
}

// Macros fixes protein first and splits the remaining calories 30/70
// between fats (9 kcal/g) and carbs (4 kcal/g).
func Macros(calorieTarget int, proteinG float64) MacroSplit {
	p := int(proteinG)
	remaining := float64(calorieTarget - p*4)
	return MacroSplit{
		ProteinG: p,
		FatsG:    int(remaining * 0.3 / 9),
		CarbsG:   int(remaining * 0.7 / 4),
	}
}
