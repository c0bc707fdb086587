package healthcalc

import "time"

// AgeConsiderations returns a one-line note for the user's age band.
func AgeConsiderations(age int) string {
	switch {
	case age < 18:
		return "Growth and development phase"
	case age < 30:
		return "Peak physical condition years"
	case age < 50:
		return "Metabolism begins to slow"
	case age < 65:
		return "Increased focus on muscle preservation"
	default:
		return "Emphasis on mobility and strength"
	}
}

// Recommendations returns up to five suggestions, specific ones first.
func Recommendations(bmi, bodyFat float64, age int, gender string) []string {
	var recs []string

	if bmi < 18.5 {
		recs = append(recs, "Consider gaining weight through balanced nutrition and strength training")
	} else if bmi >= 25 {
		recs = append(recs, "Focus on weight management through diet and exercise")
	}

	switch BodyFatCategory(bodyFat, gender) {
	case "High":
		recs = append(recs, "Prioritize reducing body fat through cardio and strength training")
	case "Essential Fat":
		recs = append(recs, "Ensure adequate fat intake for hormonal health")
	}

	if age >= 40 {
		recs = append(recs, "Include strength training to preserve muscle mass")
	}
	if age >= 50 {
		recs = append(recs, "Focus on bone health with weight-bearing exercises")
	}

	recs = append(recs,
		"Maintain regular physical activity",
		"Follow a balanced, nutritious diet",
		"Ensure adequate sleep (7-9 hours)",
		"Stay hydrated throughout the day",
	)
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

// Risks lists the risk indicators triggered by the current metrics.
// An empty result means nothing was flagged.
func Risks(bmi, bodyFat float64, age int) []string {
	var risks []string
	switch {
	case bmi >= 30:
		risks = append(risks, "Obesity increases risk of cardiovascular disease and diabetes")
	case bmi >= 25:
		risks = append(risks, "Overweight status may increase health risks")
	case bmi < 18.5:
		risks = append(risks, "Underweight status may indicate nutritional deficiencies")
	}
	if bodyFat > 32 && age > 40 {
		risks = append(risks, "High body fat with age increases metabolic risk")
	}
	return risks
}

var tips = [...]string{
	"Stay hydrated! Aim to drink at least 8 glasses of water daily.",
	"Rest is crucial for muscle growth. Ensure you get 7-8 hours of sleep.",
	"Consistency over intensity - regular moderate workouts beat occasional intense ones.",
	"Track your macros, not just calories, for optimal results.",
	"Incorporate strength training for overall health and metabolism boost.",
	"Listen to your body. Don't push through pain, rest if needed.",
	"Focus on whole, unprocessed foods for sustained energy.",
	"Set realistic goals and celebrate small victories.",
	"Warm-up before exercise and cool-down afterward to prevent injuries.",
}

// DailyTip rotates through the tips by day of month.
func DailyTip(t time.Time) string {
	return tips[t.Day()%len(tips)]
}
