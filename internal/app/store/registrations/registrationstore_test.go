package registrationstore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Registration{
		StudentID:   "s1",
		EventID:     "e1",
		Attendance:  true,
		Confirm:     true,
		SectionData: map[string]any{"name": "AM", "seats": 2},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Attendance || created.Confirm {
		t.Error("Create() should clear attendance and confirm")
	}

	got, err := store.FindByKey(ctx, "s1", "e1")
	if err != nil {
		t.Fatalf("FindByKey() error = %v", err)
	}
	sd, ok := got.SectionData.(bson.M)
	if !ok {
		t.Fatalf("SectionData type = %T, want bson.M", got.SectionData)
	}
	if sd["name"] != "AM" {
		t.Errorf("SectionData[name] = %v, want AM", sd["name"])
	}
}

func TestStore_DuplicatesAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if _, err := store.Create(ctx, models.Registration{StudentID: "s1", EventID: "e1"}); err != nil {
			t.Fatalf("Create() #%d error = %v", i+1, err)
		}
	}
	regs, err := store.ByStudent(ctx, "s1")
	if err != nil {
		t.Fatalf("ByStudent() error = %v", err)
	}
	if len(regs) != 2 {
		t.Errorf("len(ByStudent) = %d, want 2", len(regs))
	}
}

func TestStore_ByEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Create(ctx, models.Registration{StudentID: "s1", EventID: "e1"})
	store.Create(ctx, models.Registration{StudentID: "s2", EventID: "e1"})
	store.Create(ctx, models.Registration{StudentID: "s1", EventID: "e2"})

	regs, err := store.ByEvent(ctx, "e1")
	if err != nil {
		t.Fatalf("ByEvent() error = %v", err)
	}
	if len(regs) != 2 {
		t.Errorf("len(ByEvent) = %d, want 2", len(regs))
	}

	none, err := store.ByEvent(ctx, "nope")
	if err != nil {
		t.Fatalf("ByEvent() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ByEvent(nope) = %v, want empty slice", none)
	}
}

func TestStore_ConfirmAttendance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Registration{StudentID: "s1", EventID: "e1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.ConfirmAttendance(ctx, "e1", "s1"); err != nil {
		t.Fatalf("first ConfirmAttendance() error = %v", err)
	}
	if err := store.ConfirmAttendance(ctx, "e1", "s1"); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Errorf("second ConfirmAttendance() error = %v, want ErrAlreadyConfirmed", err)
	}
	if err := store.ConfirmAttendance(ctx, "e1", "nobody"); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("ConfirmAttendance(missing) error = %v, want ErrNotFound", err)
	}

	got, _ := store.FindByKey(ctx, "s1", "e1")
	if !got.Attendance {
		t.Error("Attendance = false after confirmation")
	}
}

func TestStore_SetConfirm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Registration{StudentID: "s1", EventID: "e1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.SetConfirm(ctx, created.ID, true); err != nil {
		t.Fatalf("SetConfirm(true) error = %v", err)
	}
	if err := store.SetConfirm(ctx, created.ID, true); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("unchanged SetConfirm() error = %v, want ErrNotFound", err)
	}
	if err := store.SetConfirm(ctx, primitive.NewObjectID(), true); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("SetConfirm(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteByKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Create(ctx, models.Registration{StudentID: "s1", EventID: "e1"})

	if err := store.DeleteByKey(ctx, "s1", "e1"); err != nil {
		t.Fatalf("DeleteByKey() error = %v", err)
	}
	if err := store.DeleteByKey(ctx, "s1", "e1"); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("second DeleteByKey() error = %v, want ErrNotFound", err)
	}
	if _, err := store.FindByKey(ctx, "s1", "e1"); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("FindByKey() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_SetQRCodeAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Registration{StudentID: "s9", EventID: "e9"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.SetQRCode(ctx, created.ID, "qrcodes/s9_e9.png"); err != nil {
		t.Fatalf("SetQRCode() error = %v", err)
	}
	got, _ := store.FindByKey(ctx, "s9", "e9")
	if got.QRCode != "qrcodes/s9_e9.png" {
		t.Errorf("QRCode = %q", got.QRCode)
	}

	now := time.Now()
	n, err := store.CountCreatedBetween(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("CountCreatedBetween() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountCreatedBetween() = %d, want 1", n)
	}
	n, _ = store.CountCreatedBetween(ctx, now.Add(time.Hour), now.Add(2*time.Hour))
	if n != 0 {
		t.Errorf("CountCreatedBetween(future) = %d, want 0", n)
	}
}
