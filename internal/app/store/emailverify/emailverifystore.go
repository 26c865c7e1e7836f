// Package emailverify stores the one-time codes mailed to an address before
// a sign-up is accepted.
package emailverify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CodeLength is the number of digits in a sign-up verification code.
const CodeLength = 6

// ErrInvalidCode is returned when no unused, unexpired code matches.
var ErrInvalidCode = errors.New("invalid or expired code")

// Verification is a pending sign-up code sent to an email address before the
// account exists.
type Verification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Code      string             `bson:"code"`
	Used      bool               `bson:"used"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store provides access to the email_verifications collection.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a new email verification store. Codes expire after expiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	return &Store{
		c:      db.Collection("email_verifications"),
		expiry: expiry,
	}
}

// Expiry returns how long a new code stays valid.
func (s *Store) Expiry() time.Duration { return s.expiry }

// Create issues a fresh code for email. Earlier unused codes for the same
// address are marked used so only the latest one verifies.
func (s *Store) Create(ctx context.Context, email string) (*Verification, error) {
	code, err := generateCode(CodeLength)
	if err != nil {
		return nil, err
	}

	if _, err := s.c.UpdateMany(ctx,
		bson.M{"email": email, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	); err != nil {
		return nil, err
	}

	now := time.Now()
	v := Verification{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Consume verifies code for email and marks it used in the same update, so a
// code can succeed at most once.
func (s *Store) Consume(ctx context.Context, email, code string) (*Verification, error) {
	filter := bson.M{
		"email":      email,
		"code":       code,
		"used":       false,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v Verification
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"used": true}}, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteExpired removes codes that expired before now, used or not.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// generateCode returns length uniformly random decimal digits, leading
// zeros included.
func generateCode(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*s", length, n.String()), nil
}
