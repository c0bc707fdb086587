package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization inserts an organization with the given name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateUser inserts a user directly, bypassing the first-user-is-admin rule.
func (f *Fixtures) CreateUser(ctx context.Context, orgID primitive.ObjectID, name, email string, isAdmin bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           name,
		Email:          email,
		EmailCI:        text.Fold(email),
		IsAdmin:        isAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateDailyLog inserts a log for the given day with a workout duration.
func (f *Fixtures) CreateDailyLog(ctx context.Context, orgID, userID primitive.ObjectID, day time.Time, workoutMin int) models.DailyLog {
	f.t.Helper()

	day = day.UTC()
	l := models.DailyLog{
		ID:                 primitive.NewObjectID(),
		OrganizationID:     orgID,
		UserID:             userID,
		Date:               day.Format(models.DateLayout),
		LoggedAt:           time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		WeightKg:           70,
		WorkoutDurationMin: workoutMin,
		UpdatedAt:          time.Now().UTC(),
	}
	if _, err := f.db.Collection("daily_logs").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test daily log: %v", err)
	}
	return l
}
