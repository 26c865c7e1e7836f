package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 7 * time.Second, Long: time.Minute, Medium: -1})
	if Short() != 7*time.Second || Long() != time.Minute {
		t.Errorf("Short, Long = %v, %v, want 7s, 1m", Short(), Long())
	}
	if Medium() != DefaultMedium || Ping() != DefaultPing {
		t.Errorf("Medium, Ping = %v, %v, want defaults", Medium(), Ping())
	}

	Reset()
	if Short() != DefaultShort || Long() != DefaultLong {
		t.Errorf("after Reset Short, Long = %v, %v", Short(), Long())
	}
}

func TestWithTimeout(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, log, "registration follow-up")
	<-ctx.Done()
	cancel()
	if logs.FilterMessage("operation timed out").Len() != 1 {
		t.Errorf("timeout warnings = %d, want 1", logs.Len())
	}

	_, cancel = WithTimeout(context.Background(), time.Minute, log, "quick")
	cancel()
	if logs.Len() != 1 {
		t.Errorf("early cancel logged a warning")
	}
}
