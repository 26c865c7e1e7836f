package apistats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type call struct {
	route   string
	isError bool
}

type memStore struct {
	mu    sync.Mutex
	calls []call
}

func (m *memStore) Record(_ context.Context, route string, _ time.Duration, _ time.Time, _ int64, isError bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{route, isError})
	return nil
}

func TestMiddleware_RouteKeys(t *testing.T) {
	store := &memStore{}
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(Middleware(Config{Store: store, Logger: zap.NewNop(), Sync: true}))
		r.Get("/event/detail/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/event/detail/abc", nil),
		httptest.NewRequest(http.MethodGet, "/api/event/detail/def", nil),
		httptest.NewRequest(http.MethodPost, "/api/login", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	want := []call{
		{"GET /api/event/detail/{id}", false},
		{"GET /api/event/detail/{id}", false},
		{"POST /api/login", true},
	}
	if len(store.calls) != len(want) {
		t.Fatalf("recorded %d calls, want %d", len(store.calls), len(want))
	}
	for i, w := range want {
		if store.calls[i] != w {
			t.Errorf("call[%d] = %+v, want %+v", i, store.calls[i], w)
		}
	}
}
