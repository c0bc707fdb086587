package healthcalc_test

import (
	"testing"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/healthcalc"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBMI(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		height   float64
		expected float64
	}{
		{"typical adult", 70, 175, 22.86},
		{"round metre", 81, 180, 25},
		{"light and tall", 50, 190, 13.85},
		{"zero height", 70, 0, 0},
		{"negative height", 70, -170, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, healthcalc.BMI(tt.weight, tt.height), 1e-9)
		})
	}
}

func TestBMI_Idempotent(t *testing.T) {
	first := healthcalc.BMI(82.3, 177.5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, healthcalc.BMI(82.3, 177.5))
	}
}

func TestBodyFatPercent(t *testing.T) {
	male := healthcalc.BodyFatPercent(22.86, 30, "Male")
	female := healthcalc.BodyFatPercent(22.86, 30, "Female")

	assert.InDelta(t, 18.1, male, 1e-9)
	assert.InDelta(t, 28.9, female, 1e-9)
	assert.InDelta(t, 10.8, female-male, 1e-9, "gender constant differs by 16.2 - 5.4")
}

func TestBodyFatPercent_UnknownGenderUsesFemaleConstant(t *testing.T) {
	assert.Equal(t,
		healthcalc.BodyFatPercent(24, 40, "Female"),
		healthcalc.BodyFatPercent(24, 40, ""),
	)
}

func TestBMR(t *testing.T) {
	assert.Equal(t, 1648, healthcalc.BMR(70, 175, 30, "Male"))
	assert.Equal(t, 1482, healthcalc.BMR(70, 175, 30, "Female"))

	cases := []struct {
		w, h float64
		age  int
	}{
		{70, 175, 30},
		{55.5, 162.3, 27},
		{102.4, 188, 61},
	}
	for _, c := range cases {
		diff := healthcalc.BMR(c.w, c.h, c.age, "Male") - healthcalc.BMR(c.w, c.h, c.age, "Female")
		assert.Equal(t, 166, diff)
	}
}

func TestIdealWeight(t *testing.T) {
	assert.InDelta(t, 70.5, healthcalc.IdealWeight(175, "Male"), 1e-9)
	assert.InDelta(t, 66.0, healthcalc.IdealWeight(175, "Female"), 1e-9)
}

func TestBodyWaterPercent(t *testing.T) {
	assert.InDelta(t, 60.0, healthcalc.BodyWaterPercent(70, 30, "Male"), 1e-9)
	assert.InDelta(t, 46.1, healthcalc.BodyWaterPercent(70, 30, "Female"), 1e-9)
	assert.Zero(t, healthcalc.BodyWaterPercent(0, 30, "Male"))
}

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name    string
		bmi     float64
		bodyFat float64
		age     int
		want    int
	}{
		{"healthy", 22.86, 18.1, 30, 100},
		{"overweight with moderate fat", 26, 30, 45, 75},
		{"obese high fat over fifty", 31, 36, 55, 40},
		{"underweight", 17, 10, 25, 70},
		{"over sixty-five costs the same as over fifty", 22, 20, 70, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := healthcalc.HealthScore(tt.bmi, tt.bodyFat, tt.age)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestCategories(t *testing.T) {
	assert.Equal(t, "Underweight", healthcalc.BMICategory(18.4))
	assert.Equal(t, "Normal Weight", healthcalc.BMICategory(18.5))
	assert.Equal(t, "Overweight", healthcalc.BMICategory(25))
	assert.Equal(t, "Obese", healthcalc.BMICategory(30))

	assert.Equal(t, "Essential Fat", healthcalc.BodyFatCategory(5, "Male"))
	assert.Equal(t, "Acceptable", healthcalc.BodyFatCategory(18.1, "Male"))
	assert.Equal(t, "Fitness", healthcalc.BodyFatCategory(22, "Female"))
	assert.Equal(t, "High", healthcalc.BodyFatCategory(32, "Female"))

	assert.Equal(t, "Excellent Health", healthcalc.ScoreCategory(80))
	assert.Equal(t, "Good Health", healthcalc.ScoreCategory(79))
	assert.Equal(t, "Fair Health", healthcalc.ScoreCategory(40))
	assert.Equal(t, "Needs Improvement", healthcalc.ScoreCategory(39))
}

func TestEnergyTargets(t *testing.T) {
	tdee := healthcalc.TDEE(1648, "Unknown level")
	assert.InDelta(t, 2554.4, tdee, 1e-9)
	assert.InDelta(t, 1648*1.2, healthcalc.TDEE(1648, "Sedentary"), 1e-9)

	assert.Equal(t, 2043, healthcalc.CalorieTarget(tdee, "Lose Weight"))
	assert.Equal(t, 2809, healthcalc.CalorieTarget(tdee, "Gain Muscle"))
	assert.Equal(t, 2554, healthcalc.CalorieTarget(tdee, "Maintain Weight"))

	assert.InDelta(t, 84.0, healthcalc.ProteinTarget(70, "Maintain Weight"), 1e-9)
	assert.InDelta(t, 154.0, healthcalc.ProteinTarget(70, "Gain Muscle"), 1e-9)

	m := healthcalc.Macros(2000, 112)
	assert.Equal(t, healthcalc.MacroSplit{ProteinG: 112, FatsG: 51, CarbsG: 271}, m)
}

func TestRecommendations_NeverMoreThanFive(t *testing.T) {
	healthy := healthcalc.Recommendations(22.86, 18.1, 30, "Male")
	assert.Len(t, healthy, 4)
	assert.Equal(t, "Maintain regular physical activity", healthy[0])

	loaded := healthcalc.Recommendations(31, 40, 55, "Male")
	require.Len(t, loaded, 5)
	assert.Equal(t, "Focus on weight management through diet and exercise", loaded[0])
	assert.Equal(t, "Prioritize reducing body fat through cardio and strength training", loaded[1])
}

func TestRisks(t *testing.T) {
	assert.Empty(t, healthcalc.Risks(22, 20, 30))
	assert.Equal(t, []string{
		"Obesity increases risk of cardiovascular disease and diabetes",
		"High body fat with age increases metabolic risk",
	}, healthcalc.Risks(31, 33, 41))
}

func TestDailyTip(t *testing.T) {
	day9 := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	day1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Contains(t, healthcalc.DailyTip(day9), "Stay hydrated")
	assert.Contains(t, healthcalc.DailyTip(day1), "Rest is crucial")
}

func TestAnalyze(t *testing.T) {
	r := healthcalc.Analyze(models.DefaultBodyMetrics())

	assert.InDelta(t, 22.86, r.BMI, 1e-9)
	assert.Equal(t, "Normal Weight", r.BMICategory)
	assert.Equal(t, 1648, r.BMR)
	assert.Equal(t, 100, r.Score)
	assert.InDelta(t, -0.5, r.WeightDiff, 1e-9)
	assert.InDelta(t, 57.3, r.Composition.LeanMassKg, 1e-9)
}
