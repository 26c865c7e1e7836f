package jobs

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/app/system/tasks"
	"github.com/dalemusser/strataclub/internal/testutil"
	"go.uber.org/zap"
)

func newRunner() *tasks.Runner {
	r := tasks.New(zap.NewNop())
	r.Register(tasks.Job{Name: "purge", Interval: time.Hour, Run: func(ctx context.Context) error { return nil }})
	r.Register(tasks.Job{Name: "broken", Interval: time.Hour, Run: func(ctx context.Context) error { return errors.New("disk full") }})
	return r
}

func TestList(t *testing.T) {
	h := NewHandler(newRunner(), zap.NewNop())

	rec := testutil.NewRecorder()
	h.List(rec, testutil.NewRequest(http.MethodGet, "/api/jobs"))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Jobs []tasks.JobStatus `json:"jobs"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Jobs) != 2 || body.Jobs[0].Name != "broken" || body.Jobs[1].Name != "purge" {
		t.Errorf("jobs = %+v, want broken then purge", body.Jobs)
	}
}

func TestRun(t *testing.T) {
	runner := newRunner()
	h := NewHandler(runner, zap.NewNop())

	run := func(name string) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.WithURLParams(testutil.NewRequest(http.MethodPost, "/api/jobs/"+name+"/run"), "name", name)
		h.Run(rec, req)
		return rec
	}

	run("purge").AssertStatus(t, http.StatusOK)
	run("missing").AssertStatus(t, http.StatusNotFound)

	run("broken").AssertStatus(t, http.StatusInternalServerError)

	for _, s := range runner.Status() {
		if s.Runs != 1 {
			t.Errorf("%s runs = %d, want 1", s.Name, s.Runs)
		}
		if s.Name == "broken" && s.LastError != "disk full" {
			t.Errorf("broken lastError = %q, want disk full", s.LastError)
		}
	}
}
