// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataclub/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Attempt tracks failed logins for one normalized email address.
type Attempt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Email       string             `bson:"email"`
	Failures    int                `bson:"failures"`     // failures in the current window
	WindowStart time.Time          `bson:"window_start"`
	LockedUntil *time.Time         `bson:"locked_until"` // nil when not locked
	LastAttempt time.Time          `bson:"last_attempt"` // TTL field
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// Policy configures lockout behavior.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

// Decision is the outcome of a check or a recorded failure.
type Decision struct {
	Allowed     bool
	Remaining   int        // -1 while locked
	LockedUntil *time.Time // nil when not locked
}

// Store manages login failure counters in the rate_limits collection.
type Store struct {
	c      *mongo.Collection
	policy Policy
	now    func() time.Time
}

// New creates a rate limit Store.
func New(db *mongo.Database, p Policy) *Store {
	return &Store{
		c:      db.Collection("rate_limits"),
		policy: p,
		now:    time.Now,
	}
}

// Check reports whether email may attempt a login now.
func (s *Store) Check(ctx context.Context, email string) (Decision, error) {
	a, err := s.Get(ctx, email)
	if err != nil || a == nil {
		return Decision{Allowed: true, Remaining: s.policy.MaxAttempts}, err
	}
	return s.decide(a), nil
}

// RecordFailure counts one failed login for email and locks the address once
// the policy's limit is reached inside one window.
func (s *Store) RecordFailure(ctx context.Context, email string) (Decision, error) {
	email = normalize.Email(email)
	now := s.now()

	// An elapsed window starts over.
	if _, err := s.c.UpdateOne(ctx,
		bson.M{"email": email, "window_start": bson.M{"$lte": now.Add(-s.policy.Window)}},
		bson.M{"$set": bson.M{"failures": 0, "window_start": now, "locked_until": nil}},
	); err != nil {
		return Decision{}, err
	}

	update := bson.M{
		"$inc": bson.M{"failures": 1},
		"$set": bson.M{"last_attempt": now, "updated_at": now},
		"$setOnInsert": bson.M{
			"window_start": now,
			"locked_until": nil,
			"created_at":   now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var a Attempt
	err := s.c.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&a)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race with a concurrent failure; the document exists now.
		err = s.c.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&a)
	}
	if err != nil {
		return Decision{}, err
	}

	if a.Failures >= s.policy.MaxAttempts && a.LockedUntil == nil {
		until := now.Add(s.policy.Lockout)
		if _, err := s.c.UpdateOne(ctx,
			bson.M{"_id": a.ID},
			bson.M{"$set": bson.M{"locked_until": until}},
		); err != nil {
			return Decision{}, err
		}
		a.LockedUntil = &until
	}
	return s.decide(&a), nil
}

// Clear removes the counter for email after a successful login.
func (s *Store) Clear(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"email": normalize.Email(email)})
	return err
}

// Get returns the counter for email, or nil when there is none.
func (s *Store) Get(ctx context.Context, email string) (*Attempt, error) {
	var a Attempt
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) decide(a *Attempt) Decision {
	now := s.now()
	if a.LockedUntil != nil && now.Before(*a.LockedUntil) {
		return Decision{Allowed: false, Remaining: -1, LockedUntil: a.LockedUntil}
	}
	if !now.Before(a.WindowStart.Add(s.policy.Window)) {
		return Decision{Allowed: true, Remaining: s.policy.MaxAttempts}
	}
	remaining := s.policy.MaxAttempts - a.Failures
	if remaining <= 0 {
		return Decision{Allowed: false, Remaining: 0}
	}
	return Decision{Allowed: true, Remaining: remaining}
}
