package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryItem is a physical asset owned by the club.
type InventoryItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Category      string             `bson:"category" json:"category"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	PurchaseDate  time.Time          `bson:"purchaseDate" json:"purchaseDate"`
	PurchasePrice float64            `bson:"purchasePrice" json:"purchasePrice"`
	CurrentValue  float64            `bson:"currentValue" json:"currentValue"`
	Location      string             `bson:"location" json:"location"`
	Condition     string             `bson:"condition" json:"condition"`
	Remarks       string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	ModifiedAt    time.Time          `bson:"modifiedAt" json:"modifiedAt"`
}
