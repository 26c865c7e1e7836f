// internal/app/store/finance/financestore.go
package financestore

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

// Kind selects the ledger a Store reads and writes.
type Kind string

const (
	Income      Kind = "income"
	Expenditure Kind = "expenditure"
)

// Collection returns the collection name for k.
func (k Kind) Collection() string {
	return string(k) + "_records"
}

// Store provides access to one finance ledger.
type Store struct {
	c    *mongo.Collection
	kind Kind
}

// New creates a store for the ledger of kind k. feeItems is free-form JSON,
// so embedded documents decode as maps.
func New(db *mongo.Database, k Kind) *Store {
	opts := options.Collection().SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	return &Store{c: db.Collection(k.Collection(), opts), kind: k}
}

// Kind reports which ledger the store serves.
func (s *Store) Kind() Kind { return s.kind }

// Create inserts rec. Receipt fields are dropped for expenditure records.
func (s *Store) Create(ctx context.Context, rec models.FinanceRecord) (models.FinanceRecord, error) {
	now := time.Now()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	rec.ModifiedAt = now
	if s.kind != Income {
		rec.CreateReceipt = false
		rec.IssueDate = nil
		rec.BillTo = ""
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.FinanceRecord{}, err
	}
	return rec, nil
}

// List returns every record, latest date first.
func (s *Store) List(ctx context.Context) ([]models.FinanceRecord, error) {
	return s.find(ctx, bson.M{})
}

// GetByID loads one record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FinanceRecord, error) {
	var rec models.FinanceRecord
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &rec, nil
}

// Update overwrites the editable fields of record id with rec. The caller has
// already merged rec with the stored document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, rec models.FinanceRecord) error {
	set := bson.M{
		"title":          rec.Title,
		"date":           rec.Date,
		"category":       rec.Category,
		"personInCharge": rec.PersonInCharge,
		"feeItems":       rec.FeeItems,
		"remarks":        rec.Remarks,
		"totalAmount":    rec.TotalAmount,
		"modifiedAt":     time.Now(),
	}
	if s.kind == Income {
		set["createReceipt"] = rec.CreateReceipt
		set["issueDate"] = rec.IssueDate
		set["billTo"] = rec.BillTo
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

// Delete removes record id.
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

// Total sums totalAmount over every record.
func (s *Store) Total(ctx context.Context) (float64, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"totalAmount": 1}))
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalAmount float64 `bson:"totalAmount"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	var sum float64
	for _, r := range rows {
		sum += r.TotalAmount
	}
	return sum, nil
}

// ByMonth returns the records dated within the given calendar month (UTC).
func (s *Store) ByMonth(ctx context.Context, year int, month time.Month) ([]models.FinanceRecord, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	return s.find(ctx, bson.M{"date": bson.M{"$gte": from, "$lt": to}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.FinanceRecord, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	recs := []models.FinanceRecord{}
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
