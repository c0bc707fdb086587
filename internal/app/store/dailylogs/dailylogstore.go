// internal/app/store/dailylogs/dailylogstore.go
package dailylogstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrBadDate = errors.New("date must be YYYY-MM-DD")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("daily_logs")}
}

// DayStart returns the UTC midnight that starts t's calendar day in UTC.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Save writes the log for (org, user, date), replacing any earlier log for
// the same date. LoggedAt is always derived from Date.
func (s *Store) Save(ctx context.Context, l models.DailyLog) (models.DailyLog, error) {
	day, err := time.Parse(models.DateLayout, l.Date)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("%w: %q", ErrBadDate, l.Date)
	}
	l.LoggedAt = DayStart(day)
	l.UpdatedAt = time.Now().UTC()

	filter := bson.M{"org_id": l.OrganizationID, "user_id": l.UserID, "date": l.Date}
	update := bson.M{
		"$set": bson.M{
			"logged_at":            l.LoggedAt,
			"weight_kg":            l.WeightKg,
			"bmi":                  l.BMI,
			"body_fat_percent":     l.BodyFatPercent,
			"workout_duration_min": l.WorkoutDurationMin,
			"calories_burned":      l.CaloriesBurned,
			"updated_at":           l.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.DailyLog
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return models.DailyLog{}, err
	}
	return utc(saved), nil
}

// ListByUser returns all of a user's logs, newest date first.
func (s *Store) ListByUser(ctx context.Context, orgID, userID primitive.ObjectID) ([]models.DailyLog, error) {
	return s.find(ctx, bson.M{"org_id": orgID, "user_id": userID})
}

// ListSince returns a user's logs whose day starts at or after since.
func (s *Store) ListSince(ctx context.Context, orgID, userID primitive.ObjectID, since time.Time) ([]models.DailyLog, error) {
	return s.find(ctx, bson.M{
		"org_id":    orgID,
		"user_id":   userID,
		"logged_at": bson.M{"$gte": since.UTC()},
	})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.DailyLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var logs []models.DailyLog
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	for i := range logs {
		logs[i] = utc(logs[i])
	}
	return logs, nil
}

func utc(l models.DailyLog) models.DailyLog {
	l.LoggedAt = l.LoggedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l
}
