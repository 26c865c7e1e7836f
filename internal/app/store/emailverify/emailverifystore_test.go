package emailverify

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

const testExpiry = 10 * time.Minute

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testExpiry)
	if store == nil {
		t.Fatal("New() returned nil")
	}
	if store.Expiry() != testExpiry {
		t.Errorf("Expiry() = %v, want %v", store.Expiry(), testExpiry)
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testExpiry)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v, err := store.Create(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if v.ID.IsZero() {
		t.Error("ID should not be zero")
	}
	if v.Email != "new@example.com" {
		t.Errorf("Email = %v, want new@example.com", v.Email)
	}
	if len(v.Code) != CodeLength {
		t.Errorf("Code length = %d, want %d", len(v.Code), CodeLength)
	}
	if v.Used {
		t.Error("Used should be false")
	}
	if !v.ExpiresAt.After(time.Now()) {
		t.Error("ExpiresAt should be in the future")
	}
}

func TestStore_Create_SupersedesEarlierCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testExpiry)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, "again@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := store.Create(ctx, "again@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	n, err := db.Collection("email_verifications").CountDocuments(ctx, bson.M{"email": "again@example.com", "used": false})
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if n != 1 {
		t.Errorf("unused codes = %d, want 1", n)
	}
	if first.Code != second.Code {
		if _, err := store.Consume(ctx, "again@example.com", first.Code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Consume(first) error = %v, want ErrInvalidCode", err)
		}
	}
	if _, err := store.Consume(ctx, "again@example.com", second.Code); err != nil {
		t.Errorf("Consume(second) error = %v", err)
	}
}

func TestStore_Consume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testExpiry)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "verify@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	wrong := "000000"
	if created.Code == wrong {
		wrong = "111111"
	}

	t.Run("wrong code", func(t *testing.T) {
		if _, err := store.Consume(ctx, "verify@example.com", wrong); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Consume() error = %v, want ErrInvalidCode", err)
		}
	})

	t.Run("wrong email", func(t *testing.T) {
		if _, err := store.Consume(ctx, "other@example.com", created.Code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Consume() error = %v, want ErrInvalidCode", err)
		}
	})

	t.Run("valid code", func(t *testing.T) {
		v, err := store.Consume(ctx, "verify@example.com", created.Code)
		if err != nil {
			t.Fatalf("Consume() error = %v", err)
		}
		if v.ID != created.ID {
			t.Errorf("ID = %v, want %v", v.ID, created.ID)
		}
		if !v.Used {
			t.Error("Used should be true after Consume")
		}
	})

	t.Run("second use", func(t *testing.T) {
		if _, err := store.Consume(ctx, "verify@example.com", created.Code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Consume() error = %v, want ErrInvalidCode", err)
		}
	})
}

func TestStore_Consume_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, time.Millisecond)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "expired@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := store.Consume(ctx, "expired@example.com", created.Code); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Consume() error = %v, want ErrInvalidCode", err)
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode(CodeLength)
		if err != nil {
			t.Fatalf("generateCode() error = %v", err)
		}
		if len(code) != CodeLength {
			t.Errorf("generateCode() length = %d, want %d", len(code), CodeLength)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Errorf("generateCode() contains non-digit: %c", c)
			}
		}
	}
}
