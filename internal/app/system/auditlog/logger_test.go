package auditlog

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/strataclub/internal/app/store/audit"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_Destinations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := httptest.NewRequest("POST", "/api/users/login", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.Header.Set("User-Agent", "club-test")

	// auth events stored, admin events only logged
	l := New(store, zap.NewNop(), Config{Auth: DestAll, Admin: DestLog})
	userID := primitive.NewObjectID()
	l.LoginSuccess(ctx, r, userID, "a@club.example")
	l.MemberDeleted(ctx, r, primitive.NewObjectID(), userID, "a@club.example")

	got, err := store.Query(ctx, audit.QueryFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("stored %d events, want 1", len(got))
	}
	e := got[0]
	if e.EventType != audit.EventLoginSuccess || !e.Success {
		t.Errorf("event = %q success=%v, want login_success", e.EventType, e.Success)
	}
	if e.IP != "203.0.113.7" {
		t.Errorf("IP = %q, want 203.0.113.7", e.IP)
	}
	if e.UserAgent != "club-test" {
		t.Errorf("UserAgent = %q, want club-test", e.UserAgent)
	}
	if e.UserID == nil || *e.UserID != userID {
		t.Errorf("UserID = %v, want %v", e.UserID, userID)
	}
}

func TestLogger_Off(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := httptest.NewRequest("POST", "/", nil)
	l := New(store, zap.NewNop(), Config{Auth: DestOff, Admin: DestOff})
	l.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, nil, "a@club.example", "wrong password")
	l.VerificationCodeSent(ctx, r, "a@club.example")

	n, err := store.Count(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	// must not panic
	l.PasswordChanged(ctx, httptest.NewRequest("POST", "/", nil), primitive.NewObjectID())
}
