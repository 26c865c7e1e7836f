// Package timeouts holds the per-request deadlines handlers put on database
// and external calls. Defaults apply until Configure is called at startup
// from the timeout_* config keys.
//
//	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
//	defer cancel()
package timeouts

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var ping, short, medium, long atomic.Int64

func init() { Reset() }

// Ping bounds health-check pings.
func Ping() time.Duration { return time.Duration(ping.Load()) }

// Short bounds single-document reads and writes.
func Short() time.Duration { return time.Duration(short.Load()) }

// Medium bounds list queries and uploads.
func Medium() time.Duration { return time.Duration(medium.Load()) }

// Long bounds aggregations, multi-step writes and calls to Stripe, SMTP or
// the chat relay.
func Long() time.Duration { return time.Duration(long.Load()) }

// Config overrides the defaults. Zero or negative fields are ignored.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

func Configure(cfg Config) {
	for _, f := range []struct {
		v *atomic.Int64
		d time.Duration
	}{{&ping, cfg.Ping}, {&short, cfg.Short}, {&medium, cfg.Medium}, {&long, cfg.Long}} {
		if f.d > 0 {
			f.v.Store(int64(f.d))
		}
	}
}

// Reset restores the defaults.
func Reset() {
	ping.Store(int64(DefaultPing))
	short.Store(int64(DefaultShort))
	medium.Store(int64(DefaultMedium))
	long.Store(int64(DefaultLong))
}

// WithTimeout is context.WithTimeout for work that runs outside a request,
// such as the registration follow-up. The returned cancel logs a warning
// when the deadline was what ended the work.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if log != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("operation timed out", zap.String("operation", operation), zap.Duration("timeout", d))
		}
		cancel()
	}
}
