// internal/app/store/events/eventstore.go
package eventstore

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

// Store provides access to the events collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new event store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Create inserts e with a fresh ID and timestamps.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = now
	e.ModifiedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID loads an event. Returns storeutil.ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &e, nil
}

// Update overwrites every editable field of event id with e. The caller has
// already merged e with the stored document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, e models.Event) error {
	set := bson.M{
		"eventName":            e.EventName,
		"eventDescription":     e.EventDescription,
		"eventDateFrom":        e.EventDateFrom,
		"eventDateTo":          e.EventDateTo,
		"eventTimeStart":       e.EventTimeStart,
		"eventTimeEnd":         e.EventTimeEnd,
		"eventType":            e.EventType,
		"eventPrice":           e.EventPrice,
		"eventVenue":           e.EventVenue,
		"multipleSection":      e.MultipleSection,
		"sectionNumber":        e.SectionNumber,
		"sections":             e.Sections,
		"canRegister":          e.CanRegister,
		"totalmaxRegistration": e.TotalMaxRegistration,
		"eventPoster":          e.EventPoster,
		"filePath":             e.FilePath,
		"fileType":             e.FileType,
		"modifiedAt":           time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// Delete removes event id and returns the deleted document so the caller can
// clean up its poster.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &e, nil
}

// List returns one page of events, newest first, plus the total count.
func (s *Store) List(ctx context.Context, page, perPage int64) ([]models.Event, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := storeutil.Paginate(perPage, page).SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	events, err := s.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Latest returns the n most recently created events.
func (s *Store) Latest(ctx context.Context, n int64) ([]models.Event, error) {
	return s.find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(n))
}

// Upcoming returns events starting strictly after today (YYYY-MM-DD),
// soonest first. The comparison is lexical on the ISO date string.
func (s *Store) Upcoming(ctx context.Context, today string) ([]models.Event, error) {
	return s.find(ctx,
		bson.M{"eventDateFrom": bson.M{"$gt": today}},
		options.Find().SetSort(bson.D{{Key: "eventDateFrom", Value: 1}, {Key: "_id", Value: 1}}))
}

// SetCanRegister flips the registration flag of event id.
func (s *Store) SetCanRegister(ctx context.Context, id primitive.ObjectID, canRegister bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"canRegister": canRegister, "modifiedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of events.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
