// internal/app/store/clubs/clubstore.go
package clubstore

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

// Store provides access to the clubs collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new club store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clubs")}
}

// Create inserts a club profile.
func (s *Store) Create(ctx context.Context, club models.Club) (models.Club, error) {
	now := time.Now()
	club.ID = primitive.NewObjectID()
	club.CreatedAt = now
	club.ModifiedAt = now
	if _, err := s.c.InsertOne(ctx, club); err != nil {
		return models.Club{}, err
	}
	return club, nil
}

// GetByID loads a club profile.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Club, error) {
	var club models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&club); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &club, nil
}

// UpdateInput holds the club fields an edit may change. Nil leaves a field as is.
type UpdateInput struct {
	ClubName         *string
	Description      *string
	Philosophy       *string
	LogoMeaning      *string
	FPSPaymentNumber *string
	EventPoster1     *string
	EventPoster2     *string
	EventPoster3     *string
	WebIcon          *string
	BackgroundImage  *string
	LogoImage        *string
	AboutImage       *string
}

// Update applies in to club id and returns the profile as it was before the
// change, so callers can remove replaced images.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Club, error) {
	set := bson.M{"modifiedAt": time.Now()}
	for field, v := range map[string]*string{
		"clubName":         in.ClubName,
		"description":      in.Description,
		"philosophy":       in.Philosophy,
		"logomeaning":      in.LogoMeaning,
		"fpsPaymentNumber": in.FPSPaymentNumber,
		"eventPoster1":     in.EventPoster1,
		"eventPoster2":     in.EventPoster2,
		"eventPoster3":     in.EventPoster3,
		"webIcon":          in.WebIcon,
		"backgroundImage":  in.BackgroundImage,
		"logoImage":        in.LogoImage,
		"aboutImage":       in.AboutImage,
	} {
		if v != nil {
			set[field] = *v
		}
	}

	var before models.Club
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &before, nil
}
