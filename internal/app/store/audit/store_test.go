package audit

import (
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_LogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	base := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Category: CategoryAuth, EventType: EventLoginFailedWrongPassword, UserID: &userID, Email: "a@club.example", CreatedAt: base},
		{Category: CategoryAuth, EventType: EventLoginSuccess, UserID: &userID, Email: "a@club.example", Success: true, CreatedAt: base.Add(time.Minute)},
		{Category: CategoryAdmin, EventType: EventMemberDeleted, Success: true, CreatedAt: base.Add(2 * time.Minute)},
		{Category: CategoryAuth, EventType: EventLoginFailedUserNotFound, Email: "ghost@club.example", CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	t.Run("all newest first", func(t *testing.T) {
		got, err := store.Query(ctx, QueryFilter{}, 1, 10)
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if len(got) != 4 || got[0].EventType != EventLoginFailedUserNotFound {
			t.Errorf("Query() = %d events, first %q", len(got), got[0].EventType)
		}
	})

	t.Run("by user", func(t *testing.T) {
		n, err := store.Count(ctx, QueryFilter{UserID: &userID})
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 2 {
			t.Errorf("Count(user) = %d, want 2", n)
		}
	})

	t.Run("by category and page", func(t *testing.T) {
		got, err := store.Query(ctx, QueryFilter{Category: CategoryAuth}, 2, 2)
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if len(got) != 1 || got[0].EventType != EventLoginFailedWrongPassword {
			t.Errorf("page 2 = %+v, want the oldest auth event", got)
		}
	})

	t.Run("since", func(t *testing.T) {
		since := base.Add(2 * time.Minute)
		n, err := store.Count(ctx, QueryFilter{Since: &since})
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 2 {
			t.Errorf("Count(since) = %d, want 2", n)
		}
	})
}
