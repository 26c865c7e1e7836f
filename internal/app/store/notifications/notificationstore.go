// internal/app/store/notifications/notificationstore.go
package notificationstore

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

// Store provides access to the notifications collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new notification store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Create inserts a notification.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	now := time.Now()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = now
	n.ModifiedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// List returns every notification, newest first.
func (s *Store) List(ctx context.Context) ([]models.Notification, error) {
	return s.find(ctx, bson.M{}, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

// Active returns notifications whose expiry_date is today or later, soonest
// expiry first. today is YYYY-MM-DD.
func (s *Store) Active(ctx context.Context, today string) ([]models.Notification, error) {
	return s.find(ctx,
		bson.M{"expiry_date": bson.M{"$gte": today}},
		bson.D{{Key: "expiry_date", Value: 1}, {Key: "_id", Value: 1}})
}

// GetByID loads one notification.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var n models.Notification
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &n, nil
}

// Update overwrites title, message and expiry_date of notification id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, n models.Notification) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":       n.Title,
		"message":     n.Message,
		"expiry_date": n.ExpiryDate,
		"modifiedAt":  time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// Delete removes notification id.
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

func (s *Store) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Notification, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
