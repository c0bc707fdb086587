// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/normalize"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c    *mongo.Collection
	orgs *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users"), orgs: db.Collection("organizations")}
}

var (
	// ErrDuplicateEmail is returned when the email is already used inside the organization.
	ErrDuplicateEmail = errors.New("a user with this email already exists in the organization")
	ErrNotFound       = errors.New("user not found")
	errEmailNeeded    = errors.New("email is required")
	errOrgNeeded      = errors.New("user must have an org_id")
)

// GetByID loads a user by ObjectID within an organization.
func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id, "org_id": orgID})
}

// GetByEmail looks up a user by case-insensitive email within an organization.
func (s *Store) GetByEmail(ctx context.Context, orgID primitive.ObjectID, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"org_id": orgID, "email_ci": text.Fold(normalize.Email(email))})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Create inserts a new user into orgID. The first user of an organization
// is made its admin; IsAdmin on the argument is ignored.
func (s *Store) Create(ctx context.Context, orgID primitive.ObjectID, name, email string) (models.User, error) {
	if orgID.IsZero() {
		return models.User{}, errOrgNeeded
	}
	email = normalize.Email(email)
	if email == "" {
		return models.User{}, errEmailNeeded
	}

	admin, err := s.claimFirstAdmin(ctx, orgID)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           normalize.Name(name),
		Email:          email,
		EmailCI:        text.Fold(email),
		IsAdmin:        admin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if admin {
			s.releaseFirstAdmin(orgID)
		}
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// claimFirstAdmin reports whether the caller's new user should be the
// organization's admin. Only one caller per empty organization wins: the
// admin_assigned flag on the organization is flipped with a conditional
// update, so concurrent sign-ups cannot both see "no users yet".
func (s *Store) claimFirstAdmin(ctx context.Context, orgID primitive.ObjectID) (bool, error) {
	existing, err := s.CountByOrg(ctx, orgID)
	if err != nil || existing > 0 {
		return false, err
	}
	res, err := s.orgs.UpdateOne(ctx,
		bson.M{"_id": orgID, "admin_assigned": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"admin_assigned": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// releaseFirstAdmin undoes a claim whose insert failed.
func (s *Store) releaseFirstAdmin(orgID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = s.orgs.UpdateOne(ctx, bson.M{"_id": orgID}, bson.M{"$unset": bson.M{"admin_assigned": ""}})
}

// ListByOrg returns every user in the organization ordered by creation.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"org_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"org_id": orgID})
}

// UpdateBodyMetrics replaces the user's body metrics snapshot.
func (s *Store) UpdateBodyMetrics(ctx context.Context, orgID, id primitive.ObjectID, bm models.BodyMetrics) error {
	bm.Gender = normalize.Gender(bm.Gender)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "org_id": orgID},
		bson.M{"$set": bson.M{
			"body_metrics": bm,
			"updated_at":   time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
