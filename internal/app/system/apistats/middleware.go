// Package apistats provides middleware that records per-route API request
// statistics.
package apistats

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Recorder persists one request's statistics.
type Recorder interface {
	Record(ctx context.Context, route string, bucketDuration time.Duration, at time.Time, durationMs int64, isError bool) error
}

// Config holds configuration for the API stats middleware.
type Config struct {
	Store  Recorder
	Logger *zap.Logger

	// BucketDuration is the aggregation bucket size. Defaults to one hour.
	BucketDuration time.Duration

	// Sync records before the middleware returns (tests).
	Sync bool
}

// Middleware records the duration and outcome of every request, keyed by
// method and chi route pattern so that /api/event/1 and /api/event/2 share
// one series. Requests that matched no route are keyed "unmatched".
func Middleware(cfg Config) func(http.Handler) http.Handler {
	bucket := cfg.BucketDuration
	if bucket <= 0 {
		bucket = time.Hour
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			durationMs := time.Since(start).Milliseconds()
			route := routeKey(r)
			isError := wrapped.statusCode >= 400

			record := func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cfg.Store.Record(ctx, route, bucket, start, durationMs, isError); err != nil {
					cfg.Logger.Error("failed to record API stats",
						zap.String("route", route),
						zap.Int64("duration_ms", durationMs),
						zap.Error(err),
					)
				}
			}
			if cfg.Sync {
				record()
			} else {
				go record()
			}
		})
	}
}

func routeKey(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched"
	}
	pattern := rctx.RoutePattern()
	if pattern == "" || pattern == "/*" || pattern == "/api/*" {
		return "unmatched"
	}
	return r.Method + " " + pattern
}

// responseWrapper wraps http.ResponseWriter to capture status code.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush implements http.Flusher.
func (rw *responseWrapper) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
