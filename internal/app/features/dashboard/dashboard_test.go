package dashboard

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.uber.org/zap"
)

func TestShow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed error = %v", err)
		}
	}

	_, err := h.users.Create(ctx, models.User{EnglishName: "A", StudentID: "s1", Email: "a@example.com", Gender: "F", Role: models.RoleStudent})
	must(err)
	_, err = h.users.Create(ctx, models.User{EnglishName: "B", StudentID: "s2", Email: "b@example.com", Gender: "M", Role: models.RoleStudent})
	must(err)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	lastYear := time.Now().AddDate(-1, 0, 0).Format("2006-01-02")
	_, err = h.events.Create(ctx, models.Event{EventName: "Hike", EventDateFrom: tomorrow})
	must(err)
	_, err = h.events.Create(ctx, models.Event{EventName: "Old", EventDateFrom: lastYear})
	must(err)

	_, err = h.registrations.Create(ctx, models.Registration{StudentID: "s1", EventID: "e1"})
	must(err)

	p, err := h.posts.Create(ctx, models.Post{Title: "Hello", StudentID: "s1"})
	must(err)
	_, err = h.posts.AddComment(ctx, p.ID, "s2", "nice")
	must(err)

	_, err = h.income.Create(ctx, models.FinanceRecord{Title: "Fees", TotalAmount: 500})
	must(err)
	_, err = h.expenditure.Create(ctx, models.FinanceRecord{Title: "Tents", TotalAmount: 120})
	must(err)

	_, err = h.inventory.Create(ctx, models.InventoryItem{Name: "Tent", Quantity: 2, CurrentValue: 80})
	must(err)

	_, err = h.notifications.Create(ctx, models.Notification{Title: "Meet", Message: "m", ExpiryDate: tomorrow})
	must(err)
	_, err = h.notifications.Create(ctx, models.Notification{Title: "Gone", Message: "m", ExpiryDate: lastYear})
	must(err)

	rec := testutil.NewRecorder()
	h.Show(rec, testutil.NewRequest(http.MethodGet, "/api/dashboard"))
	rec.AssertStatus(t, http.StatusOK)

	var got Overview
	rec.DecodeJSON(t, &got)
	want := Overview{
		Members:             2,
		Events:              2,
		UpcomingEvents:      1,
		RegistrationsToday:  1,
		Posts:               1,
		Comments:            1,
		TotalIncome:         500,
		TotalExpenditure:    120,
		Balance:             380,
		InventoryItems:      1,
		InventoryValue:      80,
		ActiveNotifications: 1,
	}
	if got != want {
		t.Errorf("Show() = %+v, want %+v", got, want)
	}
}
