// internal/domain/models/dailylog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the key format of a daily log.
const DateLayout = "2006-01-02"

// DailyLog is one user's record for one calendar day.
// (org_id, user_id, date) is unique; saving again for the same date replaces it.
type DailyLog struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID     primitive.ObjectID `bson:"org_id" json:"org_id"`
	UserID             primitive.ObjectID `bson:"user_id" json:"user_id"`
	Date               string             `bson:"date" json:"date"`           // YYYY-MM-DD
	LoggedAt           time.Time          `bson:"logged_at" json:"logged_at"` // UTC midnight of Date
	WeightKg           float64            `bson:"weight_kg" json:"weight_kg"`
	BMI                float64            `bson:"bmi" json:"bmi"`
	BodyFatPercent     float64            `bson:"body_fat_percent" json:"body_fat_percent"`
	WorkoutDurationMin int                `bson:"workout_duration_min" json:"workout_duration_min"`
	CaloriesBurned     int                `bson:"calories_burned" json:"calories_burned"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
