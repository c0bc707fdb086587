package progress

import "github.com/Aatka-Saleem/fitness-testing/internal/domain/models"

// Trend compares the oldest and newest logged entries.
type Trend struct {
	Entries      int
	FirstDate    string
	LastDate     string
	WeightChange float64
	BMIChange    float64
	TotalMinutes int
	TotalKcal    int
}

// TrendOf summarizes logs given newest first.
func TrendOf(logs []models.DailyLog) Trend {
	t := Trend{Entries: len(logs)}
	if len(logs) == 0 {
		return t
	}
	newest, oldest := logs[0], logs[len(logs)-1]
	t.FirstDate = oldest.Date
	t.LastDate = newest.Date
	t.WeightChange = newest.WeightKg - oldest.WeightKg
	t.BMIChange = newest.BMI - oldest.BMI
	for _, l := range logs {
		t.TotalMinutes += l.WorkoutDurationMin
		t.TotalKcal += l.CaloriesBurned
	}
	return t
}

// chronological returns logs (newest first) as a new oldest-first slice.
func chronological(logs []models.DailyLog) []models.DailyLog {
	out := make([]models.DailyLog, len(logs))
	for i, l := range logs {
		out[len(logs)-1-i] = l
	}
	return out
}
