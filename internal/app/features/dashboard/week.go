package dashboard

import (
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
)

// DayActivity is one bar of the weekly activity chart.
type DayActivity struct {
	Date        string
	Day         string // Mon, Tue, ...
	Calories    int
	DurationMin int
	// Percent heights relative to the week's maximum, for the CSS chart.
	CaloriesPct int
	DurationPct int
}

// WeekSummary returns the seven days ending today (UTC), oldest first.
// Days without a log are zero.
func WeekSummary(logs []models.DailyLog, now time.Time) []DayActivity {
	byDate := make(map[string]models.DailyLog, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l
	}

	today := now.UTC()
	week := make([]DayActivity, 0, 7)
	maxCal, maxDur := 0, 0
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := d.Format(models.DateLayout)
		l := byDate[key]
		week = append(week, DayActivity{
			Date:        key,
			Day:         d.Format("Mon"),
			Calories:    l.CaloriesBurned,
			DurationMin: l.WorkoutDurationMin,
		})
		maxCal = max(maxCal, l.CaloriesBurned)
		maxDur = max(maxDur, l.WorkoutDurationMin)
	}
	for i := range week {
		if maxCal > 0 {
			week[i].CaloriesPct = week[i].Calories * 100 / maxCal
		}
		if maxDur > 0 {
			week[i].DurationPct = week[i].DurationMin * 100 / maxDur
		}
	}
	return week
}

// oldestFirst returns a copy of logs (stored newest first) in date order.
func oldestFirst(logs []models.DailyLog) []models.DailyLog {
	out := make([]models.DailyLog, len(logs))
	for i, l := range logs {
		out[len(logs)-1-i] = l
	}
	return out
}
