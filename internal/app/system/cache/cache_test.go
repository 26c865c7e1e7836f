package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNew_EmptyAddrDisables(t *testing.T) {
	c := New("", "", 0, time.Minute, zap.NewNop())
	if c != nil {
		t.Fatalf("New(\"\") = %v, want nil", c)
	}
	if c.Enabled() {
		t.Error("Enabled() = true, want false")
	}
}

func TestNilClient_BehavesAsMiss(t *testing.T) {
	var c *Client
	ctx := context.Background()

	c.SetJSON(ctx, KeyHomeEvents, map[string]int{"n": 1})
	var dst map[string]int
	if c.GetJSON(ctx, KeyHomeEvents, &dst) {
		t.Error("GetJSON() on nil client = true, want false")
	}
	c.Delete(ctx, KeyHomeEvents, KeyUpcomingEvents)
	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping() = %v, want nil", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestUnreachableRedis_BehavesAsMiss(t *testing.T) {
	// Port 1 is never a Redis server; every call must degrade to a miss.
	c := New("127.0.0.1:1", "", 0, time.Minute, zap.NewNop())
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c.SetJSON(ctx, "k", "v")
	var s string
	if c.GetJSON(ctx, "k", &s) {
		t.Error("GetJSON() against unreachable redis = true, want false")
	}
	c.Delete(ctx, "k")
}

func TestHomeContentKey(t *testing.T) {
	if got := HomeContentKey("abc"); got != "club:home:abc" {
		t.Errorf("HomeContentKey() = %q, want club:home:abc", got)
	}
}
