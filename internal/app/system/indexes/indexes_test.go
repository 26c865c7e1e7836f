package indexes_test

import (
	"testing"

	"github.com/dalemusser/strataclub/internal/app/system/indexes"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t) // already ran EnsureAll once
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll() second run error = %v", err)
	}
}

func TestEnsureAll_UniqueUserEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := db.Collection("users")
	if _, err := users.InsertOne(ctx, bson.M{"email": "dup@example.com"}); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	_, err := users.InsertOne(ctx, bson.M{"email": "dup@example.com"})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second insert error = %v, want duplicate key", err)
	}
}

func TestEnsureAll_RegistrationsNotUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	regs := db.Collection("registerEvents")
	doc := bson.M{"student_id": "s1", "event_id": "e1"}
	for i := 0; i < 2; i++ {
		if _, err := regs.InsertOne(ctx, bson.M{"student_id": doc["student_id"], "event_id": doc["event_id"]}); err != nil {
			t.Fatalf("insert %d error = %v", i+1, err)
		}
	}
}
