// Package apistats stores per-route API request statistics in fixed time
// buckets.
package apistats

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for API statistics.
const CollectionName = "api_stats"

// Bucket is one route's aggregated statistics for one time bucket.
type Bucket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Bucket    time.Time          `bson:"bucket"` // bucket start, UTC
	Route     string             `bson:"route"`  // "GET /api/event/{id}"
	Requests  int64              `bson:"requests"`
	Errors    int64              `bson:"errors"` // status >= 400
	TotalMs   int64              `bson:"total_ms"`
	MinMs     int64              `bson:"min_ms"`
	MaxMs     int64              `bson:"max_ms"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// RouteSummary is the total for one route over a range of buckets.
type RouteSummary struct {
	Route     string  `json:"route"`
	Requests  int64   `json:"requests"`
	Errors    int64   `json:"errors"`
	ErrorRate float64 `json:"errorRate"` // percent
	AvgMs     float64 `json:"avgMs"`
	MinMs     int64   `json:"minMs"`
	MaxMs     int64   `json:"maxMs"`
}

// Store provides API statistics persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new API stats store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// TruncateToBucket truncates t to the start of its bucket.
func TruncateToBucket(t time.Time, d time.Duration) time.Time {
	return t.UTC().Truncate(d)
}

// Record adds one request to the bucket containing at, creating the bucket
// if needed. $min and $max work on insert too, so min_ms and max_ms are not
// part of $setOnInsert.
func (s *Store) Record(ctx context.Context, route string, bucketDuration time.Duration, at time.Time, durationMs int64, isError bool) error {
	inc := bson.M{"requests": 1, "total_ms": durationMs}
	if isError {
		inc["errors"] = 1
	}
	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updated_at": time.Now().UTC()},
		"$min": bson.M{"min_ms": durationMs},
		"$max": bson.M{"max_ms": durationMs},
	}
	filter := bson.M{
		"bucket": TruncateToBucket(at, bucketDuration),
		"route":  route,
	}
	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Summary totals every route with buckets at or after since, busiest first.
func (s *Store) Summary(ctx context.Context, since time.Time) ([]RouteSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bucket": bson.M{"$gte": TruncateToBucket(since, time.Minute)}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$route",
			"requests": bson.M{"$sum": "$requests"},
			"errors":   bson.M{"$sum": "$errors"},
			"total_ms": bson.M{"$sum": "$total_ms"},
			"min_ms":   bson.M{"$min": "$min_ms"},
			"max_ms":   bson.M{"$max": "$max_ms"},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []RouteSummary{}
	for cur.Next(ctx) {
		var doc struct {
			Route    string `bson:"_id"`
			Requests int64  `bson:"requests"`
			Errors   int64  `bson:"errors"`
			TotalMs  int64  `bson:"total_ms"`
			MinMs    int64  `bson:"min_ms"`
			MaxMs    int64  `bson:"max_ms"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rs := RouteSummary{
			Route:    doc.Route,
			Requests: doc.Requests,
			Errors:   doc.Errors,
			MinMs:    doc.MinMs,
			MaxMs:    doc.MaxMs,
		}
		if doc.Requests > 0 {
			rs.AvgMs = float64(doc.TotalMs) / float64(doc.Requests)
			rs.ErrorRate = float64(doc.Errors) / float64(doc.Requests) * 100
		}
		out = append(out, rs)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Requests != out[j].Requests {
			return out[i].Requests > out[j].Requests
		}
		return out[i].Route < out[j].Route
	})
	return out, nil
}

// DeleteOlderThan deletes buckets that start before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"bucket": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
