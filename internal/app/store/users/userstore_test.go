package userstore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(email, studentID, role string) models.User {
	return models.User{
		EnglishName: "Chan Tai Man",
		StudentID:   studentID,
		Email:       email,
		Password:    "$2a$12$hash",
		Gender:      "M",
		Role:        role,
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newUser("  Tai.Man@Example.COM ", " s1001 ", ""))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID.IsZero() {
		t.Error("Create() did not assign ID")
	}
	if created.Email != "tai.man@example.com" {
		t.Errorf("Email = %q, want tai.man@example.com", created.Email)
	}
	if created.StudentID != "s1001" {
		t.Errorf("StudentID = %q, want s1001", created.StudentID)
	}
	if created.Role != models.RoleStudent {
		t.Errorf("Role = %q, want student", created.Role)
	}
	if created.EnglishNameCI == "" {
		t.Error("Create() did not set EnglishNameCI")
	}
	if created.CreatedAt.IsZero() || created.ModifiedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newUser("x@example.com", "s1", "developer")); err == nil {
		t.Error("Create() with invalid role should fail")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newUser("dup@example.com", "s1", "")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err := store.Create(ctx, newUser("DUP@example.com", "s2", ""))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_Lookups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newUser("look@example.com", "s42", ""))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("GetByID", func(t *testing.T) {
		u, err := store.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if u.Email != "look@example.com" {
			t.Errorf("Email = %q", u.Email)
		}
	})
	t.Run("GetByID not found", func(t *testing.T) {
		if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, storeutil.ErrNotFound) {
			t.Errorf("GetByID() error = %v, want ErrNotFound", err)
		}
	})
	t.Run("GetByEmail normalizes", func(t *testing.T) {
		u, err := store.GetByEmail(ctx, "LOOK@example.com")
		if err != nil {
			t.Fatalf("GetByEmail() error = %v", err)
		}
		if u.ID != created.ID {
			t.Errorf("ID = %v, want %v", u.ID, created.ID)
		}
	})
	t.Run("GetByStudentID", func(t *testing.T) {
		u, err := store.GetByStudentID(ctx, "s42")
		if err != nil {
			t.Fatalf("GetByStudentID() error = %v", err)
		}
		if u.ID != created.ID {
			t.Errorf("ID = %v, want %v", u.ID, created.ID)
		}
	})
	t.Run("EmailExists", func(t *testing.T) {
		ok, err := store.EmailExists(ctx, "look@example.com")
		if err != nil || !ok {
			t.Errorf("EmailExists() = %v, %v, want true", ok, err)
		}
		ok, err = store.EmailExists(ctx, "nobody@example.com")
		if err != nil || ok {
			t.Errorf("EmailExists() = %v, %v, want false", ok, err)
		}
	})
	t.Run("Card", func(t *testing.T) {
		card, err := store.Card(ctx, "s42")
		if err != nil {
			t.Fatalf("Card() error = %v", err)
		}
		if card.EnglishName != "Chan Tai Man" || card.StudentID != "s42" {
			t.Errorf("Card() = %+v", card)
		}
		if _, err := store.Card(ctx, "missing"); !errors.Is(err, storeutil.ErrNotFound) {
			t.Errorf("Card(missing) error = %v, want ErrNotFound", err)
		}
	})
}

func TestStore_ListAndCountByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := store.Create(ctx, newUser(email, "s"+string(rune('1'+i)), models.RoleStudent)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := store.Create(ctx, newUser("admin@example.com", "a1", models.RoleAdmin)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	students, err := store.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		t.Fatalf("ListByRole() error = %v", err)
	}
	if len(students) != 2 {
		t.Errorf("len(students) = %d, want 2", len(students))
	}
	for _, s := range students {
		if s.Email == "" || s.ID.IsZero() {
			t.Errorf("summary missing fields: %+v", s)
		}
	}

	n, err := store.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		t.Fatalf("CountByRole() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountByRole(admin) = %d, want 1", n)
	}

	empty, err := store.ListByRole(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListByRole() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListByRole(nobody) = %v, want empty slice", empty)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newUser("upd@example.com", "s7", ""))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	expiry := time.Now().Add(48 * time.Hour).Truncate(time.Millisecond)
	disabled := false
	icon := "icons/2024/01/abc.png"
	hash := "$2a$12$newhash"
	err = store.Update(ctx, created.ID, UpdateInput{
		EnglishName:  "Wong Siu Ming",
		StudentID:    "s8",
		Email:        "NEW@example.com",
		Gender:       "F",
		Role:         "Admin",
		ExpiryDate:   &expiry,
		Access:       &disabled,
		Icon:         &icon,
		PasswordHash: &hash,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	u, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if u.EnglishName != "Wong Siu Ming" || u.StudentID != "s8" || u.Email != "new@example.com" {
		t.Errorf("identity fields not updated: %+v", u)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin", u.Role)
	}
	if u.HasAccess() {
		t.Error("HasAccess() = true, want false")
	}
	if u.ExpiryDate == nil || !u.ExpiryDate.Equal(expiry) {
		t.Errorf("ExpiryDate = %v, want %v", u.ExpiryDate, expiry)
	}
	if u.Icon != icon || u.Password != hash {
		t.Errorf("Icon/Password not updated: %q %q", u.Icon, u.Password)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Update(ctx, primitive.NewObjectID(), UpdateInput{EnglishName: "x", Email: "x@example.com", Role: "student"})
	if !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Update_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newUser("taken@example.com", "s1", "")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	other, err := store.Create(ctx, newUser("other@example.com", "s2", ""))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = store.Update(ctx, other.ID, UpdateInput{EnglishName: "x", StudentID: "s2", Email: "taken@example.com", Role: "student"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Update() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_UpdatePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newUser("pw@example.com", "s1", ""))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.UpdatePassword(ctx, created.ID, "$2a$12$other"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}
	u, _ := store.GetByID(ctx, created.ID)
	if u.Password != "$2a$12$other" {
		t.Errorf("Password = %q, want updated hash", u.Password)
	}
	if err := store.UpdatePassword(ctx, primitive.NewObjectID(), "h"); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("UpdatePassword(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newUser("del@example.com", "s1", ""))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
