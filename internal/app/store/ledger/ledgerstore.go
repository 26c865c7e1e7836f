// internal/app/store/ledger/ledgerstore.go
package ledgerstore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection holds failed API requests. A TTL index on created_at expires them.
const Collection = "request_ledger"

// Entry records one API request that ended with status >= 400.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	RequestID string             `bson:"request_id" json:"requestId"`

	Method    string `bson:"method" json:"method"`
	Path      string `bson:"path" json:"path"`
	Query     string `bson:"query,omitempty" json:"query,omitempty"`
	RemoteIP  string `bson:"remote_ip" json:"remoteIp"`
	UserAgent string `bson:"user_agent,omitempty" json:"userAgent,omitempty"`

	StatusCode int `bson:"status_code" json:"statusCode"`

	// ErrorClass is one of validation, auth, forbidden, not_found, conflict,
	// rate_limited, client_error, or internal.
	ErrorClass   string  `bson:"error_class" json:"errorClass"`
	ErrorCode    string  `bson:"error_code,omitempty" json:"errorCode,omitempty"`
	ErrorMessage string  `bson:"error_message,omitempty" json:"errorMessage,omitempty"`
	DurationMs   float64 `bson:"duration_ms" json:"durationMs"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Status     int    // exact status code
	ErrorClass string
	PathPrefix string
	Since      time.Time
}

// Store provides ledger entry persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new ledger store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a new ledger entry.
func (s *Store) Create(ctx context.Context, entry Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// List returns one page of entries, newest first, and the total match count.
func (s *Store) List(ctx context.Context, f ListFilter, page, perPage int64) ([]Entry, int64, error) {
	q := buildQuery(f)

	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	opts := storeutil.Paginate(perPage, page).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	entries := []Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// CountByClass tallies entries since the given time by error class.
func (s *Store) CountByClass(ctx context.Context, since time.Time) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": "$error_class", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Class string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Class] = r.Count
	}
	return out, nil
}

// DeleteOlderThan removes entries created before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func buildQuery(f ListFilter) bson.M {
	q := bson.M{}
	if f.Status != 0 {
		q["status_code"] = f.Status
	}
	if f.ErrorClass != "" {
		q["error_class"] = f.ErrorClass
	}
	if p := strings.TrimSpace(f.PathPrefix); p != "" {
		q["path"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(p)}
	}
	if !f.Since.IsZero() {
		q["created_at"] = bson.M{"$gte": f.Since}
	}
	return q
}
