// internal/app/system/ledger/middleware.go
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	ledgerstore "github.com/dalemusser/strataclub/internal/app/store/ledger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxCapture bounds how much of an error response body is kept for parsing.
const maxCapture = 2048

// Recorder persists ledger entries.
type Recorder interface {
	Create(ctx context.Context, entry ledgerstore.Entry) error
}

// Config holds configuration for the ledger middleware.
type Config struct {
	Store  Recorder
	Logger *zap.Logger

	// ExcludePaths is a list of path prefixes never recorded.
	ExcludePaths []string

	// Sync writes the entry before the middleware returns. Tests use it;
	// production writes in a goroutine so the response is not delayed.
	Sync bool
}

// Middleware records every request that ends with status >= 400. The
// message and code fields of the JSON error body are copied into the entry.
// Request bodies are never captured because they may carry passwords.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.ExcludePaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			wrapped := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			if wrapped.statusCode < 400 {
				return
			}

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			entry := ledgerstore.Entry{
				RequestID:  requestID,
				Method:     r.Method,
				Path:       r.URL.Path,
				Query:      r.URL.RawQuery,
				RemoteIP:   extractIP(r),
				UserAgent:  r.UserAgent(),
				StatusCode: wrapped.statusCode,
				ErrorClass: classify(wrapped.statusCode),
				DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
				CreatedAt:  start,
			}
			entry.ErrorMessage, entry.ErrorCode = parseErrorBody(wrapped.body.Bytes())

			write := func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cfg.Store.Create(ctx, entry); err != nil {
					cfg.Logger.Error("failed to store ledger entry",
						zap.String("request_id", requestID),
						zap.Error(err))
				}
			}
			if cfg.Sync {
				write()
				return
			}
			go write()
		})
	}
}

func classify(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "validation"
	case status == http.StatusUnauthorized:
		return "auth"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusConflict:
		return "conflict"
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status >= 500:
		return "internal"
	default:
		return "client_error"
	}
}

// parseErrorBody pulls message and code from a JSON error body. Non-JSON
// bodies yield their trimmed text as the message.
func parseErrorBody(b []byte) (message, code string) {
	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(b, &body); err == nil {
		return body.Message, body.Code
	}
	return strings.TrimSpace(string(b)), ""
}

// responseWrapper captures the status code and the head of the body.
type responseWrapper struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	body        bytes.Buffer
}

func (rw *responseWrapper) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWrapper) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	if rw.statusCode >= 400 && rw.body.Len() < maxCapture {
		room := maxCapture - rw.body.Len()
		if len(b) < room {
			room = len(b)
		}
		rw.body.Write(b[:room])
	}
	return rw.ResponseWriter.Write(b)
}

// Flush implements http.Flusher.
func (rw *responseWrapper) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// extractIP returns the client IP. chi's RealIP middleware has already
// rewritten RemoteAddr from X-Forwarded-For or X-Real-IP.
func extractIP(r *http.Request) string {
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return strings.Trim(ip, "[]")
}
