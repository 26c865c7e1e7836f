// internal/app/store/inventory/inventorystore.go
package inventorystore

import (
	"context"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Summary aggregates quantities and values over inventory items.
type Summary struct {
	TotalItems         int     `json:"totalItems"`
	TotalQuantity      int     `json:"totalQuantity"`
	TotalPurchasePrice float64 `json:"totalPurchasePrice"`
	TotalCurrentValue  float64 `json:"totalCurrentValue"`
}

// Store provides access to the inventory collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new inventory store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("inventory")}
}

// Create inserts an item.
func (s *Store) Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	now := time.Now()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.ModifiedAt = now
	if _, err := s.c.InsertOne(ctx, item); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// List returns items newest first, optionally restricted to one category.
func (s *Store) List(ctx context.Context, category string) ([]models.InventoryItem, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []models.InventoryItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID loads one item.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &item, nil
}

// Update overwrites the editable fields of item id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, item models.InventoryItem) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":          item.Name,
		"category":      item.Category,
		"quantity":      item.Quantity,
		"purchaseDate":  item.PurchaseDate,
		"purchasePrice": item.PurchasePrice,
		"currentValue":  item.CurrentValue,
		"location":      item.Location,
		"condition":     item.Condition,
		"remarks":       item.Remarks,
		"modifiedAt":    time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// Delete removes item id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// Summarize totals every item.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	items, err := s.List(ctx, "")
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{TotalItems: len(items)}
	for _, it := range items {
		sum.TotalQuantity += it.Quantity
		sum.TotalPurchasePrice += it.PurchasePrice
		sum.TotalCurrentValue += it.CurrentValue
	}
	return sum, nil
}
