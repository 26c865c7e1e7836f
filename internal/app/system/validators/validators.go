// Package validators creates the club collections and attaches JSON-schema
// validators where a bad document would break an invariant the handlers
// rely on (non-negative counters, required identity fields).
//
// Validation runs at the "moderate" level, so existing documents that
// predate a rule are left alone until they are next updated.
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// collections lists every collection created at boot. A nil schema means the
// collection is created without a validator.
var collections = []struct {
	name   string
	schema bson.M
}{
	{"users", usersSchema},
	{"events", nil},
	{"registerEvents", nil},
	{"clubs", nil},
	{"posts", postsSchema},
	{"income_records", nil},
	{"expenditure_records", nil},
	{"finance_categories", categoriesSchema},
	{"inventory_categories", categoriesSchema},
	{"inventory", nil},
	{"notifications", notificationsSchema},
	{"email_verifications", nil},
	{"rate_limits", nil},
}

// EnsureAll creates missing collections and applies validators. Servers
// without collMod support (some DocumentDB versions) skip the validator with
// an info log. Failures are collected and returned together.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range collections {
		if !have[c.name] {
			if err := db.CreateCollection(ctx, c.name); err != nil && !alreadyExists(err) {
				problems = append(problems, c.name+": "+err.Error())
				continue
			}
			logger.Info("created collection", zap.String("collection", c.name))
		}
		if c.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.name, c.schema); err != nil {
			if unsupported(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	return db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}).Err()
}

// alreadyExists matches NamespaceExists (48), which a concurrent boot can hit.
func alreadyExists(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// unsupported matches CommandNotFound (59) and NotImplemented (115) and their
// message forms.
func unsupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || ce.Code == 115) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"no such command", "not implemented", "not supported"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

var usersSchema = bson.M{"$jsonSchema": bson.M{
	"bsonType": "object",
	"required": bson.A{"english_name", "student_id", "email", "password", "role"},
	"properties": bson.M{
		"english_name": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
		"student_id":   bson.M{"bsonType": "string", "minLength": 1},
		"email":        bson.M{"bsonType": "string", "minLength": 3},
		"password":     bson.M{"bsonType": "string", "minLength": 1},
		"role":         bson.M{"enum": bson.A{"student", "admin"}},
		"access":       bson.M{"bsonType": bson.A{"bool", "null"}},
		"expiry_date":  bson.M{"bsonType": bson.A{"date", "null"}},
	},
}}

var postsSchema = bson.M{"$jsonSchema": bson.M{
	"bsonType": "object",
	"required": bson.A{"student_id", "likes", "likesCount", "comments", "commentsCount"},
	"properties": bson.M{
		"student_id":    bson.M{"bsonType": "string"},
		"likes":         bson.M{"bsonType": "array"},
		"likesCount":    bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
		"comments":      bson.M{"bsonType": "array"},
		"commentsCount": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
	},
}}

var categoriesSchema = bson.M{"$jsonSchema": bson.M{
	"bsonType": "object",
	"required": bson.A{"code", "category"},
	"properties": bson.M{
		"code":     bson.M{"bsonType": "string", "minLength": 1},
		"category": bson.M{"bsonType": "string", "minLength": 1},
	},
}}

var notificationsSchema = bson.M{"$jsonSchema": bson.M{
	"bsonType": "object",
	"required": bson.A{"title", "message", "expiry_date"},
	"properties": bson.M{
		"title":       bson.M{"bsonType": "string"},
		"message":     bson.M{"bsonType": "string"},
		"expiry_date": bson.M{"bsonType": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
	},
}}
