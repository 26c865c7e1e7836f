package tasks

import (
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/apistats"
	"github.com/dalemusser/strataclub/internal/app/store/emailverify"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestEmailVerificationCleanupJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("email_verifications")
	_, err := coll.InsertMany(ctx, []any{
		bson.M{"email": "old@example.com", "code": "111111", "expires_at": time.Now().Add(-time.Hour)},
		bson.M{"email": "new@example.com", "code": "222222", "expires_at": time.Now().Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	job := EmailVerificationCleanupJob(emailverify.New(db, time.Minute), zap.NewNop())
	if job.Name != "email-verification-cleanup" {
		t.Errorf("Name = %q", job.Name)
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	n, _ := coll.CountDocuments(ctx, bson.M{})
	if n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}
}

func TestNotificationPurgeJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	day := func(offset int) string {
		return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
	}
	coll := db.Collection("notifications")
	_, err := coll.InsertMany(ctx, []any{
		bson.M{"title": "ancient", "message": "m", "expiry_date": day(-120)},
		bson.M{"title": "recently expired", "message": "m", "expiry_date": day(-10)},
		bson.M{"title": "active", "message": "m", "expiry_date": day(5)},
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	job := NotificationPurgeJob(db, zap.NewNop(), NotificationRetention)
	if job.Interval != 24*time.Hour {
		t.Errorf("Interval = %v, want 24h", job.Interval)
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	n, _ := coll.CountDocuments(ctx, bson.M{})
	if n != 2 {
		t.Errorf("remaining = %d, want 2", n)
	}
	if err := coll.FindOne(ctx, bson.M{"title": "ancient"}).Err(); err == nil {
		t.Error("ancient notification should have been purged")
	}
}

func TestAPIStatsPurgeJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := apistats.New(db)
	for _, at := range []time.Time{time.Now().Add(-100 * 24 * time.Hour), time.Now()} {
		if err := store.Record(ctx, "GET /api/events", time.Hour, at, 5, false); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	job := APIStatsPurgeJob(store, zap.NewNop(), 90*24*time.Hour)
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	n, _ := db.Collection(apistats.CollectionName).CountDocuments(ctx, bson.M{})
	if n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}
}
