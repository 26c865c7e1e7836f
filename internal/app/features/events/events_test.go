package events

import (
	"net/http"
	"strings"
	"testing"
	"time"

	eventstore "github.com/dalemusser/strataclub/internal/app/store/events"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*Handler, *eventstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	up, _ := testutil.NewUploader(t)
	h := NewHandler(db, up, nil, zap.NewNop())
	h.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return h, eventstore.New(db)
}

func seed(t *testing.T, s *eventstore.Store, e models.Event) models.Event {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	created, err := s.Create(ctx, e)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return created
}

var poster = testutil.File{Field: "eventPoster", Filename: "poster.jpg", Data: []byte("jpeg-bytes")}

func TestCreate(t *testing.T) {
	h, store := newHandler(t)

	t.Run("with poster and sections", func(t *testing.T) {
		rec := testutil.NewRecorder()
		req := testutil.NewMultipartRequest(http.MethodPost, "/api/eventnew", map[string]string{
			"eventName":            "Hiking Day",
			"eventDateFrom":        "2024-07-01",
			"eventPrice":           "120.5",
			"totalmaxRegistration": "40",
			"multipleSection":      "yes",
			"sections":             `[{"name":"Morning","maxRegistration":"20"},{"name":"Afternoon","maxRegistration":20}]`,
		}, poster)
		h.Create(rec, req)
		rec.AssertStatus(t, http.StatusCreated)

		var resp struct {
			ID primitive.ObjectID `json:"id"`
		}
		rec.DecodeJSON(t, &resp)

		ctx, cancel := testutil.TestContext()
		defer cancel()
		e, err := store.GetByID(ctx, resp.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if e.EventPrice != 120.5 {
			t.Errorf("EventPrice = %v, want 120.5", e.EventPrice)
		}
		if e.TotalMaxRegistration != 40 {
			t.Errorf("TotalMaxRegistration = %d, want 40", e.TotalMaxRegistration)
		}
		if !e.CanRegister {
			t.Error("CanRegister should default to true")
		}
		if len(e.Sections) != 2 || e.Sections[0].MaxRegistration != 20 {
			t.Errorf("Sections = %+v, want two sections of 20", e.Sections)
		}
		if !strings.HasPrefix(e.EventPoster, "events/") || e.FileType == "" {
			t.Errorf("poster fields = %q, %q", e.EventPoster, e.FileType)
		}
	})

	t.Run("poster required", func(t *testing.T) {
		rec := testutil.NewRecorder()
		req := testutil.NewMultipartRequest(http.MethodPost, "/api/eventnew", map[string]string{"eventName": "No Poster"})
		h.Create(rec, req)
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertContains(t, "Event poster is required")
	})

	t.Run("malformed sections", func(t *testing.T) {
		rec := testutil.NewRecorder()
		req := testutil.NewMultipartRequest(http.MethodPost, "/api/eventnew", map[string]string{
			"eventName":       "Broken",
			"multipleSection": "yes",
			"sections":        "[{not json",
		}, poster)
		h.Create(rec, req)
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertContains(t, "Invalid sections format")
	})
}

func TestList_Paging(t *testing.T) {
	h, store := newHandler(t)
	for _, name := range []string{"A", "B", "C"} {
		seed(t, store, models.Event{EventName: name})
	}

	for _, q := range []string{"page=0", "perPage=0", "page=x", "perPage=101", "page=3&perPage=9223372036854775807"} {
		rec := testutil.NewRecorder()
		h.List(rec, testutil.NewRequest(http.MethodGet, "/api/events?"+q))
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertContains(t, "Page and perPage must be positive integers.")
	}

	rec := testutil.NewRecorder()
	h.List(rec, testutil.NewRequest(http.MethodGet, "/api/events?page=2&perPage=1"))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Events     []models.Event `json:"events"`
		Page       int64          `json:"page"`
		Total      int64          `json:"total"`
		PerPage    int64          `json:"perPage"`
		TotalPages int64          `json:"totalPages"`
	}
	rec.DecodeJSON(t, &resp)
	if len(resp.Events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(resp.Events))
	}
	if resp.Events[0].EventName != "B" {
		t.Errorf("events[0] = %q, want B (newest first)", resp.Events[0].EventName)
	}
	if resp.Total != 3 || resp.TotalPages != 3 || resp.Page != 2 || resp.PerPage != 1 {
		t.Errorf("paging = %+v, want total 3, totalPages 3, page 2, perPage 1", resp)
	}
}

func TestDetailUpdateDelete(t *testing.T) {
	h, store := newHandler(t)
	e := seed(t, store, models.Event{
		EventName: "Original", EventVenue: "Hall", EventPrice: 50, CanRegister: true,
		EventPoster: "events/2024/01/old.jpg",
	})

	t.Run("detail includes poster url", func(t *testing.T) {
		rec := testutil.NewRecorder()
		h.Detail(rec, testutil.WithURLParams(testutil.NewRequest(http.MethodGet, "/"), "id", e.ID.Hex()))
		rec.AssertStatus(t, http.StatusOK)
		var resp eventDetail
		rec.DecodeJSON(t, &resp)
		if !strings.HasSuffix(resp.EventPosterURL, "events/2024/01/old.jpg") {
			t.Errorf("eventPosterUrl = %q, want URL of the stored poster", resp.EventPosterURL)
		}
	})

	t.Run("detail malformed id", func(t *testing.T) {
		rec := testutil.NewRecorder()
		h.Detail(rec, testutil.WithURLParams(testutil.NewRequest(http.MethodGet, "/"), "id", "xyz"))
		rec.AssertStatus(t, http.StatusNotFound)
	})

	t.Run("update falls back and replaces poster", func(t *testing.T) {
		rec := testutil.NewRecorder()
		req := testutil.NewMultipartRequest(http.MethodPut, "/", map[string]string{"eventName": "Renamed"}, poster)
		h.Update(rec, testutil.WithURLParams(req, "id", e.ID.Hex()))
		rec.AssertStatus(t, http.StatusOK)

		ctx, cancel := testutil.TestContext()
		defer cancel()
		got, err := store.GetByID(ctx, e.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.EventName != "Renamed" || got.EventVenue != "Hall" || got.EventPrice != 50 {
			t.Errorf("got %+v, want name Renamed with venue and price kept", got)
		}
		if got.EventPoster == e.EventPoster {
			t.Error("poster should be replaced")
		}
	})

	t.Run("update missing event", func(t *testing.T) {
		rec := testutil.NewRecorder()
		req := testutil.NewMultipartRequest(http.MethodPut, "/", map[string]string{"eventName": "X"})
		h.Update(rec, testutil.WithURLParams(req, "id", primitive.NewObjectID().Hex()))
		rec.AssertStatus(t, http.StatusNotFound)
	})

	t.Run("set can-register", func(t *testing.T) {
		rec := testutil.NewRecorder()
		req := testutil.NewJSONRequest(http.MethodPut, "/", map[string]bool{"canRegister": false})
		h.SetCanRegister(rec, testutil.WithURLParams(req, "id", e.ID.Hex()))
		rec.AssertStatus(t, http.StatusOK)

		ctx, cancel := testutil.TestContext()
		defer cancel()
		got, _ := store.GetByID(ctx, e.ID)
		if got == nil || got.CanRegister {
			t.Error("CanRegister should be false")
		}

		rec = testutil.NewRecorder()
		req = testutil.NewJSONRequest(http.MethodPut, "/", map[string]string{})
		h.SetCanRegister(rec, testutil.WithURLParams(req, "id", e.ID.Hex()))
		rec.AssertStatus(t, http.StatusBadRequest)
	})

	t.Run("delete twice", func(t *testing.T) {
		rec := testutil.NewRecorder()
		h.Delete(rec, testutil.WithURLParams(testutil.NewRequest(http.MethodDelete, "/"), "id", e.ID.Hex()))
		rec.AssertStatus(t, http.StatusOK)

		rec = testutil.NewRecorder()
		h.Delete(rec, testutil.WithURLParams(testutil.NewRequest(http.MethodDelete, "/"), "id", e.ID.Hex()))
		rec.AssertStatus(t, http.StatusNotFound)
	})
}

func TestHomeAndUpcoming(t *testing.T) {
	h, store := newHandler(t)
	seed(t, store, models.Event{EventName: "Past", EventDateFrom: "2024-05-01"})
	seed(t, store, models.Event{EventName: "Today", EventDateFrom: "2024-06-01"})
	seed(t, store, models.Event{EventName: "Later", EventDateFrom: "2024-09-01"})
	seed(t, store, models.Event{EventName: "Soon", EventDateFrom: "2024-06-15"})

	rec := testutil.NewRecorder()
	h.Home(rec, testutil.NewRequest(http.MethodGet, "/api/homeevent"))
	rec.AssertStatus(t, http.StatusOK)
	var home struct {
		Events []models.Event `json:"events"`
	}
	rec.DecodeJSON(t, &home)
	if len(home.Events) != 3 || home.Events[0].EventName != "Soon" {
		t.Errorf("home events = %d (first %q), want 3 starting with Soon", len(home.Events), firstName(home.Events))
	}

	rec = testutil.NewRecorder()
	h.Upcoming(rec, testutil.NewRequest(http.MethodGet, "/api/upcomingevents"))
	rec.AssertStatus(t, http.StatusOK)
	var up struct {
		UpcomingEvents []models.Event `json:"upcomingEvents"`
	}
	rec.DecodeJSON(t, &up)
	if len(up.UpcomingEvents) != 2 {
		t.Fatalf("upcoming = %d, want 2", len(up.UpcomingEvents))
	}
	if up.UpcomingEvents[0].EventName != "Soon" || up.UpcomingEvents[1].EventName != "Later" {
		t.Errorf("upcoming order = %q, %q, want Soon, Later", up.UpcomingEvents[0].EventName, up.UpcomingEvents[1].EventName)
	}
}

func firstName(events []models.Event) string {
	if len(events) == 0 {
		return ""
	}
	return events[0].EventName
}
