package planners

import (
	"testing"

	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestTargets_Defaults(t *testing.T) {
	m := models.DefaultBodyMetrics() // 70 kg, 175 cm, 30 y, Male, Moderately Active
	got := Targets(m, "Maintain Weight", 0)

	assert.Equal(t, 1648, got.BMR)
	assert.InDelta(t, 2554.4, got.TDEE, 0.01)
	assert.Equal(t, 2554, got.CalorieTarget)
	assert.InDelta(t, 84.0, got.ProteinNeed, 0.001)
	assert.Equal(t, 84, got.Macros.ProteinG)
}

func TestTargets_GoalsAndOverride(t *testing.T) {
	m := models.DefaultBodyMetrics()

	lose := Targets(m, "Lose Weight", 0)
	assert.Equal(t, int(lose.TDEE*0.8), lose.CalorieTarget)
	assert.InDelta(t, 112.0, lose.ProteinNeed, 0.001)

	gain := Targets(m, "Gain Muscle", 0)
	assert.Equal(t, int(gain.TDEE*1.1), gain.CalorieTarget)

	custom := Targets(m, "Lose Weight", 1800)
	assert.Equal(t, 1800, custom.CalorieTarget)
	assert.Equal(t, (1800-112*4)*3/10/9, custom.Macros.FatsG)
}

func TestGoalMapping(t *testing.T) {
	assert.Equal(t, "Maintain Weight", DietGoalFor("Maintain Fitness"))
	assert.Equal(t, "Gain Muscle", DietGoalFor("Gain Muscle"))
	assert.Equal(t, "Weight Loss", WorkoutGoalFor("Lose Weight"))
	assert.Equal(t, "Endurance", WorkoutGoalFor("General Health"))
	assert.Equal(t, "Strength", WorkoutGoalFor(""))
}

func TestPick(t *testing.T) {
	got := pick([]string{"Keto", "bogus", " Vegan "}, DietPreferences)
	assert.Equal(t, []string{"Vegan", "Keto"}, got)
	assert.Nil(t, pick(nil, DietPreferences))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "3 days/week, 45 min/session. Goal: Strength. Equipment: None.",
		Summary(3, 45, "Strength", nil))
	assert.Equal(t, "4 days/week, 60 min/session. Goal: Endurance. Equipment: Dumbbells, Kettlebell.",
		Summary(4, 60, "Endurance", []string{"Dumbbells", "Kettlebell"}))
}
