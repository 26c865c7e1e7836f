package eventstore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustCreate(t *testing.T, s *Store, name, dateFrom string) models.Event {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e, err := s.Create(ctx, models.Event{
		EventName:     name,
		EventDateFrom: dateFrom,
		EventPrice:    50,
		CanRegister:   true,
		EventPoster:   "events/2024/01/" + name + ".png",
	})
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	// Distinct createdAt values keep the newest-first order deterministic.
	time.Sleep(2 * time.Millisecond)
	return e
}

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := mustCreate(t, store, "hike", "2030-01-01")
	if created.ID.IsZero() || created.CreatedAt.IsZero() {
		t.Fatalf("Create() did not set ID/timestamps: %+v", created)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EventName != "hike" || got.EventPrice != 50 || !got.CanRegister {
		t.Errorf("GetByID() = %+v", got)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_List_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mustCreate(t, store, "first", "2030-01-01")
	mustCreate(t, store, "second", "2030-01-02")
	mustCreate(t, store, "third", "2030-01-03")

	events, total, err := store.List(ctx, 2, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].EventName != "second" {
		t.Errorf("page 2 event = %q, want second", events[0].EventName)
	}
	if storeutil.TotalPages(total, 1) != 3 {
		t.Errorf("TotalPages = %d, want 3", storeutil.TotalPages(total, 1))
	}
}

func TestStore_LatestAndUpcoming(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mustCreate(t, store, "past", "2020-05-01")
	mustCreate(t, store, "today", "2025-06-15")
	mustCreate(t, store, "later", "2030-02-01")
	mustCreate(t, store, "soon", "2025-06-16")

	latest, err := store.Latest(ctx, 3)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(latest) != 3 || latest[0].EventName != "soon" {
		t.Errorf("Latest() = %v", names(latest))
	}

	upcoming, err := store.Upcoming(ctx, "2025-06-15")
	if err != nil {
		t.Fatalf("Upcoming() error = %v", err)
	}
	got := names(upcoming)
	if len(got) != 2 || got[0] != "soon" || got[1] != "later" {
		t.Errorf("Upcoming() = %v, want [soon later]", got)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := mustCreate(t, store, "orig", "2030-01-01")
	created.EventName = "renamed"
	created.MultipleSection = models.MultipleSectionYes
	created.Sections = []models.Section{{Name: "AM", MaxRegistration: 10}, {Name: "PM", MaxRegistration: 5}}

	if err := store.Update(ctx, created.ID, created); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := store.GetByID(ctx, created.ID)
	if got.EventName != "renamed" || len(got.Sections) != 2 || got.Sections[1].MaxRegistration != 5 {
		t.Errorf("Update() stored %+v", got)
	}

	if err := store.Update(ctx, primitive.NewObjectID(), created); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_SetCanRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := mustCreate(t, store, "flag", "2030-01-01")
	if err := store.SetCanRegister(ctx, created.ID, false); err != nil {
		t.Fatalf("SetCanRegister() error = %v", err)
	}
	got, _ := store.GetByID(ctx, created.ID)
	if got.CanRegister {
		t.Error("CanRegister = true, want false")
	}
	if err := store.SetCanRegister(ctx, primitive.NewObjectID(), true); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("SetCanRegister(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := mustCreate(t, store, "gone", "2030-01-01")
	deleted, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.EventPoster != created.EventPoster {
		t.Errorf("Delete() poster = %q, want %q", deleted.EventPoster, created.EventPoster)
	}
	if _, err := store.Delete(ctx, created.ID); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func names(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventName
	}
	return out
}
