// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender values stored in BodyMetrics.Gender.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// BodyMetrics is the profile snapshot a user edits on the body metrics page.
// The planners and the inactivity nudge read FitnessGoal and ActivityLevel.
type BodyMetrics struct {
	WeightKg      float64 `bson:"weight_kg" json:"weight_kg"`
	HeightCm      float64 `bson:"height_cm" json:"height_cm"`
	Age           int     `bson:"age" json:"age"`
	Gender        string  `bson:"gender" json:"gender"`
	FitnessGoal   string  `bson:"fitness_goal,omitempty" json:"fitness_goal,omitempty"`
	ActivityLevel string  `bson:"activity_level,omitempty" json:"activity_level,omitempty"`
}

// DefaultBodyMetrics is what a profile starts with until the user saves their own.
func DefaultBodyMetrics() BodyMetrics {
	return BodyMetrics{
		WeightKg:      70,
		HeightCm:      175,
		Age:           30,
		Gender:        GenderMale,
		FitnessGoal:   "Maintain Fitness",
		ActivityLevel: "Moderately Active",
	}
}

// User is a member of exactly one organization.
//
// NOTE:
//   - IsAdmin is set for the first user created in an organization.
//   - BodyMetrics is nil until the user saves metrics at least once.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"org_id" json:"org_id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	EmailCI        string             `bson:"email_ci" json:"email_ci"`
	IsAdmin        bool               `bson:"is_admin" json:"is_admin"`
	BodyMetrics    *BodyMetrics       `bson:"body_metrics,omitempty" json:"body_metrics,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Metrics returns the stored body metrics or the defaults.
func (u User) Metrics() BodyMetrics {
	if u.BodyMetrics == nil {
		return DefaultBodyMetrics()
	}
	return *u.BodyMetrics
}

// FitnessGoal returns the stored goal, or "" when the user never set one.
func (u User) FitnessGoal() string {
	if u.BodyMetrics == nil {
		return ""
	}
	return u.BodyMetrics.FitnessGoal
}
