package healthcalc

import "github.com/Aatka-Saleem/fitness-testing/internal/domain/models"

// Report bundles every derived value for one set of body metrics.
type Report struct {
	BMI             float64
	BMICategory     string
	BodyFat         float64
	BodyFatCategory string
	BMR             int
	IdealWeight     float64
	WeightDiff      float64
	Score           int
	ScoreCategory   string
	ScoreLevel      string
	AgeNote         string
	Risks           []string
	Recommendations []string
	Composition     Composition
	TDEE            float64
}

// Analyze computes a Report from stored body metrics.
func Analyze(m models.BodyMetrics) Report {
	bmi := BMI(m.WeightKg, m.HeightCm)
	bf := BodyFatPercent(bmi, m.Age, m.Gender)
	bmr := BMR(m.WeightKg, m.HeightCm, m.Age, m.Gender)
	ideal := IdealWeight(m.HeightCm, m.Gender)
	score := HealthScore(bmi, bf, m.Age)

	return Report{
		BMI:             bmi,
		BMICategory:     BMICategory(bmi),
		BodyFat:         bf,
		BodyFatCategory: BodyFatCategory(bf, m.Gender),
		BMR:             bmr,
		IdealWeight:     ideal,
		WeightDiff:      round(m.WeightKg-ideal, 1),
		Score:           score,
		ScoreCategory:   ScoreCategory(score),
		ScoreLevel:      ScoreLevel(score),
		AgeNote:         AgeConsiderations(m.Age),
		Risks:           Risks(bmi, bf, m.Age),
		Recommendations: Recommendations(bmi, bf, m.Age, m.Gender),
		Composition:     BodyComposition(m.WeightKg, bf, m.Age, m.Gender, bmr),
		TDEE:            TDEE(bmr, m.ActivityLevel),
	}
}
