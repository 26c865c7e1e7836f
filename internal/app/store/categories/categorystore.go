// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataclub/internal/app/system/normalize"
	"github.com/dalemusser/strataclub/internal/app/system/txn"
	"github.com/dalemusser/strataclub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrDuplicate is returned when a category with the same code or name exists.
var ErrDuplicate = errors.New("category with the same code or name already exists")

// Kind selects the taxonomy a Store manages.
type Kind string

const (
	Finance   Kind = "finance"
	Inventory Kind = "inventory"
)

// Collection returns the collection name for k.
func (k Kind) Collection() string {
	return string(k) + "_categories"
}

// Store provides access to one category collection.
type Store struct {
	db   *mongo.Database
	c    *mongo.Collection
	kind Kind
	log  *zap.Logger
}

// New creates a category store of kind k.
func New(db *mongo.Database, k Kind, log *zap.Logger) *Store {
	return &Store{db: db, c: db.Collection(k.Collection()), kind: k, log: log}
}

// Kind reports which taxonomy the store serves.
func (s *Store) Kind() Kind { return s.kind }

// Create inserts a category after checking that neither its code nor its name
// is taken. The check and insert run in one transaction where supported; the
// unique indexes catch any race where they are not.
func (s *Store) Create(ctx context.Context, cat models.Category) (models.Category, error) {
	cat.Code = normalize.Code(cat.Code)
	cat.Category = normalize.Name(cat.Category)
	now := time.Now()
	cat.ID = primitive.NewObjectID()
	cat.CreatedAt = now
	cat.ModifiedAt = now

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		n, err := s.c.CountDocuments(ctx, bson.M{"$or": bson.A{
			bson.M{"code": cat.Code},
			bson.M{"category": cat.Category},
		}}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		_, err = s.c.InsertOne(ctx, cat)
		return err
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Category{}, ErrDuplicate
		}
		return models.Category{}, err
	}
	return cat, nil
}

// List returns every category ordered by code.
func (s *Store) List(ctx context.Context) ([]models.Category, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	cats := []models.Category{}
	if err := cur.All(ctx, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}
