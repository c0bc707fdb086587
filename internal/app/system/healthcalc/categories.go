package healthcalc

// BMICategory returns the WHO band label for a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal Weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// BodyFatCategory returns the ACE band label, which differs by gender.
func BodyFatCategory(bodyFat float64, gender string) string {
	limits := [4]float64{14, 21, 25, 32}
	if IsMale(gender) {
		limits = [4]float64{6, 14, 18, 25}
	}
	switch {
	case bodyFat < limits[0]:
		return "Essential Fat"
	case bodyFat < limits[1]:
		return "Athletic"
	case bodyFat < limits[2]:
		return "Fitness"
	case bodyFat < limits[3]:
		return "Acceptable"
	default:
		return "High"
	}
}

// ScoreCategory labels a HealthScore.
func ScoreCategory(score int) string {
	switch {
	case score >= 80:
		return "Excellent Health"
	case score >= 60:
		return "Good Health"
	case score >= 40:
		return "Fair Health"
	default:
		return "Needs Improvement"
	}
}

// ScoreLevel maps a HealthScore onto the three colour levels used by the UI.
func ScoreLevel(score int) string {
	switch {
	case score >= 80:
		return "good"
	case score >= 60:
		return "fair"
	default:
		return "poor"
	}
}
