package nudge

import (
	"context"
	"errors"
	"time"

	dailylogstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/dailylogs"
	notificationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/notifications"
	organizationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/organizations"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoStore adapts the per-entity stores to Store. A MongoStore built
// without a database answers with empty results and refuses writes.
type MongoStore struct {
	orgs  *organizationstore.Store
	users *userstore.Store
	logs  *dailylogstore.Store
	notes *notificationstore.Store
	log   *zap.Logger
}

// NewMongoStore wraps db. db may be nil.
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	s := &MongoStore{log: logger}
	if db != nil {
		s.orgs = organizationstore.New(db)
		s.users = userstore.New(db)
		s.logs = dailylogstore.New(db)
		s.notes = notificationstore.New(db)
	}
	return s
}

func (s *MongoStore) available() bool { return s.orgs != nil }

func (s *MongoStore) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	if !s.available() {
		s.log.Warn("database not initialized; no organizations to scan")
		return nil, nil
	}
	return s.orgs.List(ctx)
}

func (s *MongoStore) ListUsers(ctx context.Context, orgID primitive.ObjectID) ([]models.User, error) {
	if !s.available() {
		return nil, nil
	}
	return s.users.ListByOrg(ctx, orgID)
}

func (s *MongoStore) GetUser(ctx context.Context, orgID, uid primitive.ObjectID) (models.User, error) {
	if !s.available() {
		return models.User{}, ErrUserNotFound
	}
	u, err := s.users.GetByID(ctx, orgID, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func (s *MongoStore) GetDailyLogs(ctx context.Context, orgID, uid primitive.ObjectID) ([]models.DailyLog, error) {
	if !s.available() {
		return nil, nil
	}
	return s.logs.ListByUser(ctx, orgID, uid)
}

func (s *MongoStore) SaveNotification(ctx context.Context, n models.Notification) bool {
	if !s.available() {
		return false
	}
	if _, err := s.notes.Create(ctx, n); err != nil {
		s.log.Error("insert notification failed",
			zap.String("org_id", n.OrganizationID.Hex()),
			zap.String("user_id", n.UserID.Hex()),
			zap.Error(err))
		return false
	}
	return true
}

func (s *MongoStore) HasUnreadSince(ctx context.Context, orgID, uid primitive.ObjectID, since time.Time) (bool, error) {
	if !s.available() {
		return false, nil
	}
	return s.notes.HasUnreadSince(ctx, orgID, uid, since)
}
