// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/normalize"
	"github.com/dalemusser/strataclub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when another account already uses the email.
	ErrDuplicateEmail = errors.New("email already registered")
	errBadRole        = errors.New("invalid role")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// summaryProjection keeps member listings free of credentials.
var summaryProjection = bson.M{
	"_id":          1,
	"english_name": 1,
	"student_id":   1,
	"email":        1,
	"gender":       1,
}

// GetByID loads a user by ObjectID. Returns storeutil.ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByStudentID looks up a user by student number.
func (s *Store) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"student_id": normalize.StudentID(studentID)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &u, nil
}

// EmailExists reports whether an account uses email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new user after normalizing fields. Role defaults to student.
// u.Password must already hold a bcrypt hash.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.EnglishName = normalize.Name(u.EnglishName)
	u.EnglishNameCI = text.Fold(u.EnglishName)
	u.StudentID = normalize.StudentID(u.StudentID)
	u.Email = normalize.Email(u.Email)

	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	u.Role = normalize.Role(u.Role)
	if u.Role != models.RoleStudent && u.Role != models.RoleAdmin {
		return models.User{}, errBadRole
	}

	now := time.Now()
	u.CreatedAt = now
	u.ModifiedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ListByRole returns the summary projection of every user with role, by name.
func (s *Store) ListByRole(ctx context.Context, role string) ([]models.MemberSummary, error) {
	cur, err := s.c.Find(ctx, bson.M{"role": role},
		options.Find().
			SetProjection(summaryProjection).
			SetSort(bson.D{{Key: "english_name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	members := []models.MemberSummary{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// CountByRole counts users with role.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}

// UpdateInput is the full set of tracked profile fields. Callers resolve
// fallback-to-existing before calling Update; nil pointers leave a field as is.
type UpdateInput struct {
	EnglishName  string
	StudentID    string
	Email        string
	Gender       string
	Role         string
	ExpiryDate   *time.Time
	ClearExpiry  bool // removes expiry_date; wins over ExpiryDate
	Access       *bool
	Icon         *string
	PasswordHash *string
}

// Update writes the profile fields of user id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) error {
	name := normalize.Name(in.EnglishName)
	set := bson.M{
		"english_name":    name,
		"english_name_ci": text.Fold(name),
		"student_id":      normalize.StudentID(in.StudentID),
		"email":           normalize.Email(in.Email),
		"gender":          in.Gender,
		"role":            normalize.Role(in.Role),
		"modifiedAt":      time.Now(),
	}
	update := bson.M{"$set": set}
	switch {
	case in.ClearExpiry:
		update["$unset"] = bson.M{"expiry_date": ""}
	case in.ExpiryDate != nil:
		set["expiry_date"] = *in.ExpiryDate
	}
	if in.Access != nil {
		set["access"] = *in.Access
	}
	if in.Icon != nil {
		set["icon"] = *in.Icon
	}
	if in.PasswordHash != nil {
		set["password"] = *in.PasswordHash
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// UpdatePassword overwrites the stored hash for user id.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": passwordHash, "modifiedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// Delete removes user id.
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

// Card returns the public profile for a student number.
func (s *Store) Card(ctx context.Context, studentID string) (*models.MemberCard, error) {
	var card models.MemberCard
	err := s.c.FindOne(ctx,
		bson.M{"student_id": normalize.StudentID(studentID)},
		options.FindOne().SetProjection(bson.M{"_id": 0, "student_id": 1, "icon": 1, "english_name": 1}),
	).Decode(&card)
	if err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &card, nil
}
