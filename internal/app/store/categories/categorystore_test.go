package categorystore

import (
	"errors"
	"testing"

	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.uber.org/zap"
)

func TestKind_Collection(t *testing.T) {
	if Finance.Collection() != "finance_categories" || Inventory.Collection() != "inventory_categories" {
		t.Errorf("collections = %q, %q", Finance.Collection(), Inventory.Collection())
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, Finance, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cat, err := store.Create(ctx, models.Category{Code: " evt ", Category: "Events", ClubID: "c1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cat.ID.IsZero() {
		t.Error("Create() did not assign ID")
	}
	if cat.Code != "EVT" {
		t.Errorf("Code = %q, want EVT", cat.Code)
	}

	tests := []struct {
		name string
		in   models.Category
	}{
		{"same code", models.Category{Code: "EVT", Category: "Other"}},
		{"same name", models.Category{Code: "OTH", Category: "Events"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tt.in); !errors.Is(err, ErrDuplicate) {
				t.Errorf("Create() error = %v, want ErrDuplicate", err)
			}
		})
	}

	cats, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cats) != 1 {
		t.Errorf("len(List()) = %d, want 1", len(cats))
	}
}

func TestStore_KindsAreSeparate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fin := New(db, Finance, zap.NewNop())
	inv := New(db, Inventory, zap.NewNop())
	if _, err := fin.Create(ctx, models.Category{Code: "A", Category: "Alpha"}); err != nil {
		t.Fatalf("finance Create() error = %v", err)
	}
	if _, err := inv.Create(ctx, models.Category{Code: "A", Category: "Alpha"}); err != nil {
		t.Errorf("inventory Create() error = %v, want nil", err)
	}
}
