// internal/app/store/registrations/registrationstore.go
package registrationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyConfirmed is returned by ConfirmAttendance when the registration
// exists but attendance was already recorded.
var ErrAlreadyConfirmed = errors.New("attendance already confirmed")

// Store provides access to the registerEvents collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new registration store. sectionData is free-form JSON, so
// embedded documents decode as maps rather than ordered bson.D.
func New(db *mongo.Database) *Store {
	opts := options.Collection().SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	return &Store{c: db.Collection("registerEvents", opts)}
}

// Create inserts r with attendance and confirm cleared.
func (s *Store) Create(ctx context.Context, r models.Registration) (models.Registration, error) {
	now := time.Now()
	r.ID = primitive.NewObjectID()
	r.Attendance = false
	r.Confirm = false
	r.CreatedAt = now
	r.ModifiedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Registration{}, err
	}
	return r, nil
}

// SetQRCode records the storage path of the registration's QR image.
func (s *Store) SetQRCode(ctx context.Context, id primitive.ObjectID, path string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"qrCode": path, "modifiedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// ByStudent returns every registration held by studentID.
func (s *Store) ByStudent(ctx context.Context, studentID string) ([]models.Registration, error) {
	return s.find(ctx, bson.M{"student_id": studentID})
}

// ByEvent returns every registration for eventID.
func (s *Store) ByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	return s.find(ctx, bson.M{"event_id": eventID})
}

// FindByKey returns one registration for (studentID, eventID).
func (s *Store) FindByKey(ctx context.Context, studentID, eventID string) (*models.Registration, error) {
	var r models.Registration
	err := s.c.FindOne(ctx,
		bson.M{"student_id": studentID, "event_id": eventID},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&r)
	if err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &r, nil
}

// DeleteByKey removes one registration for (studentID, eventID).
func (s *Store) DeleteByKey(ctx context.Context, studentID, eventID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"student_id": studentID, "event_id": eventID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// ConfirmAttendance sets attendance to true in one conditional update. When
// nothing matched it tells an existing, already-confirmed registration
// (ErrAlreadyConfirmed) apart from a missing one (storeutil.ErrNotFound).
func (s *Store) ConfirmAttendance(ctx context.Context, eventID, studentID string) error {
	key := bson.M{"student_id": studentID, "event_id": eventID}
	filter := bson.M{"student_id": studentID, "event_id": eventID, "attendance": bson.M{"$ne": true}}

	res, err := s.c.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"attendance": true, "modifiedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := s.c.CountDocuments(ctx, key, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadyConfirmed
	}
	return storeutil.ErrNotFound
}

// SetConfirm sets the payment confirmation flag. It returns
// storeutil.ErrNotFound when id is unknown or the flag already had that value.
func (s *Store) SetConfirm(ctx context.Context, id primitive.ObjectID, confirm bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "confirm": bson.M{"$ne": confirm}},
		bson.M{"$set": bson.M{"confirm": confirm, "modifiedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// CountCreatedBetween counts registrations with createdAt in [from, to).
func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Registration, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	regs := []models.Registration{}
	if err := cur.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}
