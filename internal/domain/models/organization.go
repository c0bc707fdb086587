// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the tenant boundary. Teams and users reference it by org_id.
// AdminAssigned is set once the first user to sign in has been made admin.
type Organization struct {
	ID            primitive.ObjectID  `bson:"_id"`
	Name          string              `bson:"name"`
	NameCI        string              `bson:"name_ci"` // ← always stored
	CreatedBy     *primitive.ObjectID `bson:"created_by,omitempty"`
	AdminAssigned bool                `bson:"admin_assigned,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at"`
}
