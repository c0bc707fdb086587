// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification sources.
const (
	NotificationSourceScan   = "scan"
	NotificationSourceManual = "manual"
)

// Notification is a coaching nudge stored against a user.
// Only Read ever changes after insert.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"org_id" json:"org_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Message        string             `bson:"message" json:"message"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
	Read           bool               `bson:"read" json:"read"`
	Source         string             `bson:"source,omitempty" json:"source,omitempty"`
	RunID          string             `bson:"run_id,omitempty" json:"run_id,omitempty"`
}
