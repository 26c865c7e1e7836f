package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a time-bounded announcement.
//
// ExpiryDate is an ISO date string (YYYY-MM-DD). It is compared lexically
// against today's date, which orders correctly for that format.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	ExpiryDate string             `bson:"expiry_date" json:"expiry_date"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time          `bson:"modifiedAt" json:"modifiedAt"`
}
